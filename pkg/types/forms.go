package types

// ReportForm carries the submit-a-report form fields. Media files arrive
// separately through the multipart reader.
type ReportForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Category    string `form:"category"`
	Address     string `form:"address"`

	// Lat/Lng arrive as hidden text inputs and may be empty; the handler
	// parses them.
	Lat string `form:"lat"`
	Lng string `form:"lng"`
}

type NoteForm struct {
	Content string `form:"content"`
}

type TriageForm struct {
	Status     string `form:"status"`
	Department string `form:"department"`
}
