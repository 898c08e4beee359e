// Package reports owns the report lifecycle: an in-memory cache of every
// report mirrored over the backing store, plus the mutation helpers the rest
// of the application goes through. The cache is write-through: no mutation
// touches it until the backing store has acknowledged the write.
package reports

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"civicwatch/internal/storage"
	"civicwatch/pkg/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Repository is the slice of the persistence layer the service needs.
type Repository interface {
	Reports(ctx context.Context) ([]*types.Report, error)
	CreateReport(ctx context.Context, report *types.Report) error
	UpdateReport(ctx context.Context, reportID string, patch types.ReportPatch) error
}

type Service struct {
	repo     Repository
	uploader storage.Uploader
	logger   *logrus.Logger

	mu      sync.RWMutex
	cache   []*types.Report
	byID    map[string]*types.Report
	loaded  bool
	loading bool
	loadErr error

	// noteMu covers the whole read-modify-write of a note append; mu alone
	// cannot, since the repository write sits between the read and the merge.
	noteMu sync.Mutex
}

func NewService(repo Repository, uploader storage.Uploader, logger *logrus.Logger) *Service {
	return &Service{
		repo:     repo,
		uploader: uploader,
		logger:   logger,
		byID:     make(map[string]*types.Report),
	}
}

// Load fetches every report, newest first, and replaces the cache. Meant to
// run once at startup; callers can retry after a failure.
func (s *Service) Load(ctx context.Context) error {

	s.mu.Lock()
	s.loading = true
	s.loadErr = nil
	s.mu.Unlock()

	fetched, err := s.repo.Reports(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
	if err != nil {
		s.loadErr = err
		return fmt.Errorf("failed to load reports: %w", err)
	}

	s.cache = fetched
	s.byID = make(map[string]*types.Report, len(fetched))
	for _, report := range fetched {
		s.byID[report.ID] = report
	}
	s.loaded = true

	return nil
}

func (s *Service) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Service) LoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Reports returns a snapshot of the cache, newest first.
func (s *Service) Reports() []*types.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.Report, 0, len(s.cache))
	for _, report := range s.cache {
		out = append(out, cloneReport(report))
	}
	return out
}

// GetReportByID looks the report up in the cache only. A report the cache has
// not seen, for instance before Load has run, is a miss.
func (s *Service) GetReportByID(reportID string) (*types.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.byID[reportID]
	if !ok {
		return nil, false
	}
	return cloneReport(report), true
}

// AddReport inserts a new report and returns its assigned ID. Status is
// forced to submitted regardless of the input; the cache is only updated once
// the insert succeeds.
func (s *Service) AddReport(ctx context.Context, report types.Report) (string, error) {

	report.Status = types.StatusSubmitted
	if report.Priority == "" {
		report.Priority = types.PriorityMedium
	}
	if report.PublicNotes == nil {
		report.PublicNotes = make([]types.Note, 0)
	}
	if report.StaffNotes == nil {
		report.StaffNotes = make([]types.Note, 0)
	}

	if err := s.repo.CreateReport(ctx, &report); err != nil {
		return "", fmt.Errorf("failed to add report: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cached := cloneReport(&report)
	s.cache = append([]*types.Report{cached}, s.cache...)
	s.byID[cached.ID] = cached

	s.logger.WithFields(logrus.Fields{
		"report_id": report.ID,
		"category":  report.Category,
	}).Info("report created")

	return report.ID, nil
}

// UpdateReport applies a sparse patch: only non-nil fields are written, and
// the cached entry is merged only after the write succeeds. Status writes
// must move the lifecycle forward; the matching transition timestamp is
// stamped alongside.
func (s *Service) UpdateReport(ctx context.Context, reportID string, patch types.ReportPatch) error {

	s.mu.RLock()
	current, ok := s.byID[reportID]
	var currentStatus types.ReportStatus
	if ok {
		currentStatus = current.Status
	}
	s.mu.RUnlock()

	if !ok {
		return types.ErrReportNotFound
	}

	if patch.Status != nil {
		if !patch.Status.Valid() {
			return fmt.Errorf("%w: %q", types.ErrUnknownStatus, *patch.Status)
		}
		if !CanTransition(currentStatus, *patch.Status) {
			s.logger.WithFields(logrus.Fields{
				"report_id": reportID,
				"from":      currentStatus,
				"to":        *patch.Status,
			}).Warn("rejected out-of-order status write")
			return fmt.Errorf("%w: %s -> %s", types.ErrInvalidTransition, currentStatus, *patch.Status)
		}

		stampTransition(&patch, *patch.Status)
	}

	if err := s.repo.UpdateReport(ctx, reportID, patch); err != nil {
		return fmt.Errorf("failed to update report %s: %w", reportID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.byID[reportID]; ok {
		applyPatch(cached, patch)
	}

	return nil
}

// AddPublicNote appends to the citizen-visible thread.
func (s *Service) AddPublicNote(ctx context.Context, reportID, content, author string) (types.Note, error) {
	return s.appendNote(ctx, reportID, content, author, false)
}

// AddInternalNote appends to the staff-only thread.
func (s *Service) AddInternalNote(ctx context.Context, reportID, content, author string) (types.Note, error) {
	return s.appendNote(ctx, reportID, content, author, true)
}

// appendNote is a read-modify-write over the full note sequence. noteMu holds
// across the read, the repository write, and the cache merge, so appends
// within this process are serialized; appends from separate processes can
// still lose one.
func (s *Service) appendNote(ctx context.Context, reportID, content, author string, internal bool) (types.Note, error) {

	s.noteMu.Lock()
	defer s.noteMu.Unlock()

	report, ok := s.GetReportByID(reportID)
	if !ok {
		return types.Note{}, types.ErrReportNotFound
	}

	note := types.Note{
		ID:        uuid.NewString(),
		Content:   content,
		Timestamp: time.Now(),
		Author:    author,
	}

	var patch types.ReportPatch
	if internal {
		patch.StaffNotes = append(report.StaffNotes, note)
	} else {
		patch.PublicNotes = append(report.PublicNotes, note)
	}

	if err := s.UpdateReport(ctx, reportID, patch); err != nil {
		return types.Note{}, err
	}

	return note, nil
}

// UploadMedia stores one attachment and returns its public URL.
func (s *Service) UploadMedia(ctx context.Context, filename string, body io.Reader, contentType string) (string, error) {

	key := storage.MediaKey(filename)

	if err := s.uploader.Upload(ctx, key, body, contentType); err != nil {
		return "", fmt.Errorf("failed to upload media %s: %w", filename, err)
	}

	return s.uploader.PublicURL(key), nil
}

func stampTransition(patch *types.ReportPatch, to types.ReportStatus) {
	now := time.Now()
	switch to {
	case types.StatusAcknowledged:
		patch.AcknowledgedAt = &now
	case types.StatusInProgress:
		patch.InProgressAt = &now
	case types.StatusResolved:
		patch.ResolvedAt = &now
	}
}

func applyPatch(report *types.Report, patch types.ReportPatch) {
	if patch.Title != nil {
		report.Title = *patch.Title
	}
	if patch.Description != nil {
		report.Description = *patch.Description
	}
	if patch.Category != nil {
		report.Category = *patch.Category
	}
	if patch.Priority != nil {
		report.Priority = *patch.Priority
	}
	if patch.Status != nil {
		report.Status = *patch.Status
	}
	if patch.LocationAddress != nil {
		report.LocationAddress = *patch.LocationAddress
	}
	if patch.LocationLat != nil {
		report.LocationLat = patch.LocationLat
	}
	if patch.LocationLng != nil {
		report.LocationLng = patch.LocationLng
	}
	if patch.MediaURLs != nil {
		report.MediaURLs = patch.MediaURLs
	}
	if patch.PublicNotes != nil {
		report.PublicNotes = patch.PublicNotes
	}
	if patch.StaffNotes != nil {
		report.StaffNotes = patch.StaffNotes
	}
	if patch.AssignedDepartment != nil {
		report.AssignedDepartment = patch.AssignedDepartment
	}
	if patch.AcknowledgedAt != nil {
		report.AcknowledgedAt = patch.AcknowledgedAt
	}
	if patch.InProgressAt != nil {
		report.InProgressAt = patch.InProgressAt
	}
	if patch.ResolvedAt != nil {
		report.ResolvedAt = patch.ResolvedAt
	}
}

func cloneReport(report *types.Report) *types.Report {
	out := *report
	out.MediaURLs = append([]string(nil), report.MediaURLs...)
	out.PublicNotes = append([]types.Note(nil), report.PublicNotes...)
	out.StaffNotes = append([]types.Note(nil), report.StaffNotes...)
	return &out
}
