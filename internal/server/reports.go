package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"civicwatch/internal/location"
	"civicwatch/internal/media"
	"civicwatch/internal/reports"
	"civicwatch/pkg/types"
)

const maxUploadBytes = 32 << 20

func (s *Service) handleBrowseReports(w http.ResponseWriter, r *http.Request) {
	all := s.reports.Reports()

	category := strings.TrimSpace(r.URL.Query().Get("category"))

	cards := make([]*types.ReportCard, 0, len(all))
	for _, report := range all {
		if category != "" && report.Category != category {
			continue
		}
		cards = append(cards, reportCard(report))
	}

	data := &types.BrowsePageData{
		BasePageData: types.BasePageData{Title: "Browse Reports"},
		Reports:      cards,
		Category:     category,
		Loading:      s.reports.Loading(),
		LoadErr:      s.reports.LoadError() != nil,
	}

	if err := s.renderTemplate(w, r, "page.browse", data); err != nil {
		s.logger.WithError(err).Error("failed to render browse page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleReportDetail(w http.ResponseWriter, r *http.Request) {
	reportID := r.PathValue("id")

	report, ok := s.reports.GetReportByID(reportID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	items := make([]types.MediaItem, 0, len(report.MediaURLs))
	for _, url := range report.MediaURLs {
		items = append(items, types.MediaItem{
			URL:  url,
			Kind: string(media.Classify(url, media.KindImage)),
		})
	}

	userID, _ := r.Context().Value(contextKeyUserID).(string)

	data := &types.ReportDetailPageData{
		BasePageData:  types.BasePageData{Title: report.Title},
		Report:        report,
		LocationLabel: location.Display(report),
		Media:         items,
		Notice:        r.URL.Query().Get("notice"),
		Error:         r.URL.Query().Get("error"),
		IsStaff:       userID != "",
		Departments:   types.Departments,
	}

	if err := s.renderTemplate(w, r, "page.report-detail", data); err != nil {
		s.logger.WithError(err).Error("failed to render report detail page")
		s.internalServerError(w)
		return
	}
}

// handleReportLocation is the second phase of the two-phase location display:
// templates paint the synchronous label, then swap in this geocoded one.
func (s *Service) handleReportLocation(w http.ResponseWriter, r *http.Request) {
	reportID := r.PathValue("id")

	report, ok := s.reports.GetReportByID(reportID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var label string
	var phase location.Phase
	s.resolver.Resolve(r.Context(), report, func(p location.Phase, l string) {
		phase = p
		label = l
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"label": label,
		"phase": phase.String(),
	})
}

func (s *Service) handleGetSubmit(w http.ResponseWriter, r *http.Request) {
	data := &types.SubmitPageData{
		BasePageData: types.BasePageData{Title: "Report an Issue"},
		Categories:   types.Categories,
	}

	if err := s.renderTemplate(w, r, "page.submit", data); err != nil {
		s.logger.WithError(err).Error("failed to render submit page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePostSubmit(w http.ResponseWriter, r *http.Request) {

	var ctx = r.Context()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.logger.WithError(err).Error("failed to parse submit form")
		s.redirectWithError(w, r, "/submit", "invalid form payload")
		return
	}

	var reportForm types.ReportForm
	if err := decoder.Decode(&reportForm, r.Form); err != nil {
		s.logger.WithError(err).Error("failed to decode submit form")
		s.internalServerError(w)
		return
	}

	input := reports.SubmissionInput{
		Title:       reportForm.Title,
		Description: reportForm.Description,
		Category:    reportForm.Category,
		Address:     reportForm.Address,
		Lat:         parseCoordinate(reportForm.Lat),
		Lng:         parseCoordinate(reportForm.Lng),
		Citizen:     citizenFromContext(ctx),
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["media"] {
			file, err := header.Open()
			if err != nil {
				s.logger.WithError(err).WithField("file", header.Filename).Error("failed to open uploaded file, skipping")
				continue
			}
			defer file.Close()

			input.Files = append(input.Files, reports.MediaFile{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Body:        file,
			})
		}
	}

	flow := reports.NewFlow(s.reports, s.logger)
	reportID, err := flow.Submit(ctx, input)
	if err != nil {
		var fieldErrs reports.FieldErrors
		if errors.As(err, &fieldErrs) {
			data := &types.SubmitPageData{
				BasePageData: types.BasePageData{Title: "Report an Issue"},
				Form:         reportForm,
				FieldErrors:  fieldErrs,
				Error:        "Please fill in all required fields.",
				Categories:   types.Categories,
			}
			if renderErr := s.renderTemplate(w, r, "page.submit", data); renderErr != nil {
				s.logger.WithError(renderErr).Error("failed to render submit page with validation errors")
				s.internalServerError(w)
			}
			return
		}

		s.logger.WithError(err).Error("failed to submit report")
		data := &types.SubmitPageData{
			BasePageData: types.BasePageData{Title: "Report an Issue"},
			Form:         reportForm,
			Error:        "There was an error submitting your report. Please try again.",
			Categories:   types.Categories,
		}
		if renderErr := s.renderTemplate(w, r, "page.submit", data); renderErr != nil {
			s.logger.WithError(renderErr).Error("failed to render submit page with submission error")
			s.internalServerError(w)
		}
		return
	}

	s.redirectWithNotice(w, r, "/reports", fmt.Sprintf("Your issue has been logged with ID %s", reportID))
}

func (s *Service) handlePostPublicNote(w http.ResponseWriter, r *http.Request) {

	var ctx = r.Context()
	reportID := r.PathValue("id")
	detailPath := "/reports/" + reportID

	if err := r.ParseForm(); err != nil {
		s.redirectWithError(w, r, detailPath, "invalid form payload")
		return
	}

	var noteForm types.NoteForm
	if err := decoder.Decode(&noteForm, r.Form); err != nil {
		s.logger.WithError(err).Error("failed to decode note form")
		s.internalServerError(w)
		return
	}

	content := strings.TrimSpace(noteForm.Content)
	if !required(content) {
		s.redirectWithError(w, r, detailPath, "note content is required")
		return
	}

	citizen := citizenFromContext(ctx)
	author := citizen.Name
	if author == "" {
		author = reports.AnonymousCitizen
	}

	if _, err := s.reports.AddPublicNote(ctx, reportID, content, author); err != nil {
		if errors.Is(err, types.ErrReportNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.WithError(err).Error("failed to add public note")
		s.redirectWithError(w, r, detailPath, "unable to add note")
		return
	}

	s.redirectWithNotice(w, r, detailPath, "Note added")
}

func parseCoordinate(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func reportCard(report *types.Report) *types.ReportCard {
	return &types.ReportCard{
		ID:            report.ID,
		Title:         report.Title,
		Category:      report.Category,
		Status:        report.Status,
		Priority:      report.Priority,
		LocationLabel: location.Display(report),
		MediaCount:    len(report.MediaURLs),
		NoteCount:     len(report.PublicNotes),
		CreatedAt:     report.CreatedAt.Format("Jan 2, 2006"),
	}
}
