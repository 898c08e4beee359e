package reports

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"civicwatch/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlow(t *testing.T) (*Flow, *fakeRepo, *fakeUploader) {
	t.Helper()
	service, repo, uploader := newTestService(t)
	loadService(t, service, repo)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewFlow(service, logger), repo, uploader
}

func validInput() SubmissionInput {
	return SubmissionInput{
		Title:       "  Pothole on Main St  ",
		Description: "Deep pothole near the crosswalk",
		Category:    "Road Maintenance",
		Address:     " Main St & 5th Ave ",
	}
}

func TestFlow_Submit_ValidationFailure(t *testing.T) {
	flow, repo, uploader := newTestFlow(t)

	input := validInput()
	input.Title = "   "
	input.Files = []MediaFile{{Name: "photo.png", Body: strings.NewReader("bytes")}}

	_, err := flow.Submit(context.Background(), input)

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "title")

	// Validation failures never reach a backend.
	assert.Empty(t, repo.created)
	assert.Empty(t, uploader.keys)
	assert.Equal(t, StateIdle, flow.State())
}

func TestFlow_Submit_CollectsEveryFieldError(t *testing.T) {
	flow, _, _ := newTestFlow(t)

	_, err := flow.Submit(context.Background(), SubmissionInput{})

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 4)
	assert.Contains(t, fieldErrs, "title")
	assert.Contains(t, fieldErrs, "description")
	assert.Contains(t, fieldErrs, "category")
	assert.Contains(t, fieldErrs, "address")
}

func TestFlow_Submit_RejectsUnknownCategory(t *testing.T) {
	flow, _, _ := newTestFlow(t)

	input := validInput()
	input.Category = "Space Debris"

	_, err := flow.Submit(context.Background(), input)

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "category")
}

func TestFlow_Submit_Success(t *testing.T) {
	flow, repo, _ := newTestFlow(t)

	input := validInput()
	input.Files = []MediaFile{
		{Name: "photo.png", ContentType: "image/png", Body: strings.NewReader("png-bytes")},
		{Name: "clip.mp4", ContentType: "video/mp4", Body: strings.NewReader("mp4-bytes")},
	}

	reportID, err := flow.Submit(context.Background(), input)

	require.NoError(t, err)
	assert.NotEmpty(t, reportID)
	assert.Equal(t, StateSucceeded, flow.State())

	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, "Pothole on Main St", created.Title)
	assert.Equal(t, "Main St & 5th Ave", created.LocationAddress)
	assert.Equal(t, types.StatusSubmitted, created.Status)
	assert.Equal(t, types.PriorityMedium, created.Priority)
	assert.Equal(t, AnonymousCitizen, created.CitizenName)

	require.Len(t, created.MediaURLs, 2)
	assert.True(t, strings.HasSuffix(created.MediaURLs[0], ".png"))
	assert.True(t, strings.HasSuffix(created.MediaURLs[1], ".mp4"))
}

func TestFlow_Submit_CitizenAttribution(t *testing.T) {
	flow, repo, _ := newTestFlow(t)

	userID := "user-123"
	input := validInput()
	input.Citizen = Citizen{
		Name:   "Jordan Rivera",
		Email:  "jordan@example.com",
		Phone:  "+15555550100",
		UserID: &userID,
	}

	_, err := flow.Submit(context.Background(), input)

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, "Jordan Rivera", created.CitizenName)
	assert.Equal(t, "jordan@example.com", created.CitizenEmail)
	require.NotNil(t, created.UserID)
	assert.Equal(t, userID, *created.UserID)
}

func TestFlow_Submit_UploadFailureSkipsFile(t *testing.T) {
	flow, repo, _ := newTestFlow(t)

	input := validInput()
	input.Files = []MediaFile{
		{Name: "broken.bad", ContentType: "application/octet-stream", Body: strings.NewReader("junk")},
		{Name: "photo.png", ContentType: "image/png", Body: strings.NewReader("png-bytes")},
	}

	_, err := flow.Submit(context.Background(), input)

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	require.Len(t, repo.created[0].MediaURLs, 1)
	assert.True(t, strings.HasSuffix(repo.created[0].MediaURLs[0], ".png"))
}

func TestFlow_Submit_InsertFailure(t *testing.T) {
	flow, repo, _ := newTestFlow(t)
	repo.createErr = errors.New("insert failed")

	_, err := flow.Submit(context.Background(), validInput())

	require.Error(t, err)
	assert.Equal(t, StateFailed, flow.State())
}
