package reports

import (
	"context"
	"fmt"
	"io"
	"strings"

	"civicwatch/pkg/types"

	"github.com/sirupsen/logrus"
)

// SubmissionState tracks one pass through the submit-a-report workflow.
type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateValidating SubmissionState = "validating"
	StateUploading  SubmissionState = "uploading-media"
	StateInserting  SubmissionState = "inserting"
	StateSucceeded  SubmissionState = "succeeded"
	StateFailed     SubmissionState = "failed"
)

// AnonymousCitizen is the attribution used when no authenticated identity is
// available.
const AnonymousCitizen = "Anonymous"

// MediaFile is one attachment handed to the flow before upload.
type MediaFile struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Citizen is the submitting identity, captured from the session or left
// zero-valued for anonymous submission.
type Citizen struct {
	Name   string
	Email  string
	Phone  string
	UserID *string
}

type SubmissionInput struct {
	Title       string
	Description string
	Category    string
	Address     string
	Lat         *float64
	Lng         *float64
	Files       []MediaFile
	Citizen     Citizen
}

// FieldErrors maps form field names to validation messages. A non-empty map
// means the flow never contacted any backend.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// Flow drives a single submission through
// idle → validating → uploading-media → inserting → {succeeded | failed}.
// One Flow serves one submission; it is not safe for concurrent use.
type Flow struct {
	service *Service
	logger  *logrus.Logger
	state   SubmissionState
}

func NewFlow(service *Service, logger *logrus.Logger) *Flow {
	return &Flow{
		service: service,
		logger:  logger,
		state:   StateIdle,
	}
}

func (f *Flow) State() SubmissionState {
	return f.state
}

// Submit validates, uploads attachments, and inserts the report, returning
// the new report ID. Validation failures return FieldErrors and put the flow
// back to idle without any backend traffic. A per-file upload failure is
// logged and that file skipped; only the final insert can fail the flow.
func (f *Flow) Submit(ctx context.Context, input SubmissionInput) (string, error) {

	f.state = StateValidating
	if errs := validate(input); len(errs) > 0 {
		f.state = StateIdle
		return "", errs
	}

	f.state = StateUploading
	mediaURLs := make([]string, 0, len(input.Files))
	for _, file := range input.Files {
		url, err := f.service.UploadMedia(ctx, file.Name, file.Body, file.ContentType)
		if err != nil {
			f.logger.WithError(err).WithField("file", file.Name).Error("media upload failed, skipping file")
			continue
		}
		mediaURLs = append(mediaURLs, url)
	}

	f.state = StateInserting
	citizenName := strings.TrimSpace(input.Citizen.Name)
	if citizenName == "" {
		citizenName = AnonymousCitizen
	}

	report := types.Report{
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		Category:        input.Category,
		Priority:        types.PriorityMedium,
		Status:          types.StatusSubmitted,
		LocationAddress: strings.TrimSpace(input.Address),
		LocationLat:     input.Lat,
		LocationLng:     input.Lng,
		MediaURLs:       mediaURLs,
		CitizenName:     citizenName,
		CitizenEmail:    input.Citizen.Email,
		CitizenPhone:    input.Citizen.Phone,
		UserID:          input.Citizen.UserID,
	}

	reportID, err := f.service.AddReport(ctx, report)
	if err != nil {
		f.state = StateFailed
		return "", err
	}

	f.state = StateSucceeded
	return reportID, nil
}

func validate(input SubmissionInput) FieldErrors {
	errs := make(FieldErrors)

	if strings.TrimSpace(input.Title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(input.Description) == "" {
		errs["description"] = "Description is required"
	}
	if input.Category == "" {
		errs["category"] = "Category is required"
	} else if !types.ValidCategory(input.Category) {
		errs["category"] = "Unknown category"
	}
	if strings.TrimSpace(input.Address) == "" {
		errs["address"] = "Location is required"
	}

	return errs
}
