package server

import (
	"errors"
	"net/http"
	"strings"

	"civicwatch/internal/utils"
	"civicwatch/pkg/types"
)

func (s *Service) handleDashboard(w http.ResponseWriter, r *http.Request) {

	data := &types.DashboardPageData{
		BasePageData: types.BasePageData{Title: "Staff Dashboard"},
		Reports:      s.reports.Reports(),
		Error:        r.URL.Query().Get("error"),
	}
	data.Stats = buildStats(data.Reports)

	if err := s.renderTemplate(w, r, "page.dashboard", data); err != nil {
		s.logger.WithError(err).Error("failed to render dashboard page")
		s.internalServerError(w)
		return
	}
}

// handlePostTriage applies a status transition and/or department assignment
// from the dashboard.
func (s *Service) handlePostTriage(w http.ResponseWriter, r *http.Request) {

	var ctx = r.Context()
	reportID := r.PathValue("id")
	detailPath := "/reports/" + reportID

	if err := r.ParseForm(); err != nil {
		s.redirectWithError(w, r, detailPath, "invalid form payload")
		return
	}

	var triage types.TriageForm
	if err := decoder.Decode(&triage, r.Form); err != nil {
		s.logger.WithError(err).Error("failed to decode triage form")
		s.internalServerError(w)
		return
	}

	var patch types.ReportPatch

	if status := strings.TrimSpace(triage.Status); status != "" {
		reportStatus := types.ReportStatus(status)
		if !reportStatus.Valid() {
			s.redirectWithError(w, r, detailPath, "unknown status")
			return
		}
		patch.Status = &reportStatus
	}

	if department := strings.TrimSpace(triage.Department); department != "" {
		if !types.ValidDepartment(department) {
			s.redirectWithError(w, r, detailPath, "unknown department")
			return
		}
		patch.AssignedDepartment = utils.StringPtr(department)
	}

	if err := s.reports.UpdateReport(ctx, reportID, patch); err != nil {
		switch {
		case errors.Is(err, types.ErrReportNotFound):
			http.NotFound(w, r)
		case errors.Is(err, types.ErrInvalidTransition):
			s.redirectWithError(w, r, detailPath, "that status change is not allowed")
		default:
			s.logger.WithError(err).Error("failed to triage report")
			s.redirectWithError(w, r, detailPath, "unable to update report")
		}
		return
	}

	s.redirectWithNotice(w, r, detailPath, "Report updated")
}

func (s *Service) handlePostInternalNote(w http.ResponseWriter, r *http.Request) {

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

	author, _ := ctx.Value(contextKeyEmail).(string)
	if author == "" {
		author, _ = ctx.Value(contextKeyUserID).(string)
	}

	if _, err := s.reports.AddInternalNote(ctx, reportID, content, author); err != nil {
		if errors.Is(err, types.ErrReportNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.WithError(err).Error("failed to add internal note")
		s.redirectWithError(w, r, detailPath, "unable to add note")
		return
	}

	s.redirectWithNotice(w, r, detailPath, "Internal note added")
}
