package types

type NavbarData struct {
	IsAuthenticated bool
	UserID          string
	UserEmail       string
	UserName        string
}

type NavbarDataSetter interface {
	SetNavbarData(data NavbarData)
}

type BasePageData struct {
	Title  string
	Navbar NavbarData
}

func (d *BasePageData) SetNavbarData(data NavbarData) {
	d.Navbar = data
}

type HomePageData struct {
	BasePageData
	Notice     string
	Error      string
	Recent     []*Report
	Categories []string
	Stats      StatsData
}

type StatsData struct {
	TotalReports int
	Resolved     int
	InProgress   int
}

type BrowsePageData struct {
	BasePageData
	Reports  []*ReportCard
	Category string
	Loading  bool
	LoadErr  bool
}

// ReportCard is the flattened shape templates render in listings.
type ReportCard struct {
	ID            string
	Title         string
	Category      string
	Status        ReportStatus
	Priority      ReportPriority
	LocationLabel string
	MediaCount    int
	NoteCount     int
	CreatedAt     string
}

type ReportDetailPageData struct {
	BasePageData
	Report        *Report
	LocationLabel string
	Media         []MediaItem
	Notice        string
	Error         string
	IsStaff       bool
	Departments   []string
}

// MediaItem pairs an attachment URL with its classified kind so templates can
// pick the preview affordance.
type MediaItem struct {
	URL  string
	Kind string
}

type SubmitPageData struct {
	BasePageData
	Form        ReportForm
	FieldErrors map[string]string
	Error       string
	Categories  []string
}

type DashboardPageData struct {
	BasePageData
	Reports []*Report
	Stats   StatsData
	Error   string
}

type LoginPageData struct {
	BasePageData
	Message string
	Error   string
	Email   string
}

type RegisterPageData struct {
	BasePageData
	Name        string
	Email       string
	Error       string
	FieldErrors map[string]string
}
