package server

import (
	"net/http"
	"net/url"
	"strings"

	"civicwatch/pkg/types"
)

func (s *Service) handleHome(w http.ResponseWriter, r *http.Request) {
	all := s.reports.Reports()

	recent := all
	if len(recent) > 6 {
		recent = recent[:6]
	}

	data := &types.HomePageData{
		BasePageData: types.BasePageData{Title: "CivicWatch"},
		Notice:       r.URL.Query().Get("notice"),
		Error:        r.URL.Query().Get("error"),
		Recent:       recent,
		Categories:   types.Categories,
		Stats:        buildStats(all),
	}

	if err := s.renderTemplate(w, r, "page.home", data); err != nil {
		s.logger.WithError(err).Error("failed to render home page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Service) redirectWithNotice(w http.ResponseWriter, r *http.Request, target, notice string) {
	v := url.Values{}
	v.Set("notice", notice)
	http.Redirect(w, r, target+"?"+v.Encode(), http.StatusSeeOther)
}

func (s *Service) redirectWithError(w http.ResponseWriter, r *http.Request, target, msg string) {
	v := url.Values{}
	v.Set("error", msg)
	http.Redirect(w, r, target+"?"+v.Encode(), http.StatusSeeOther)
}

func required(v string) bool {
	return strings.TrimSpace(v) != ""
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func buildStats(all []*types.Report) types.StatsData {
	stats := types.StatsData{TotalReports: len(all)}
	for _, report := range all {
		switch report.Status {
		case types.StatusResolved:
			stats.Resolved++
		case types.StatusAcknowledged, types.StatusInProgress:
			stats.InProgress++
		}
	}
	return stats
}
