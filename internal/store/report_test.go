package store

import (
	"testing"
	"time"

	"civicwatch/internal/utils"
	"civicwatch/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchToMap_SparseFields(t *testing.T) {
	status := types.StatusAcknowledged
	now := time.Now()

	m, err := patchToMap(types.ReportPatch{
		Status:         &status,
		AcknowledgedAt: &now,
	})

	require.NoError(t, err)
	assert.Equal(t, "acknowledged", m["status"])
	assert.Equal(t, now, m["acknowledged_at"])

	// Omitted fields must not appear at all, or the update would zero them.
	assert.NotContains(t, m, "title")
	assert.NotContains(t, m, "location_address")
	assert.NotContains(t, m, "public_notes")
}

func TestPatchToMap_Empty(t *testing.T) {
	m, err := patchToMap(types.ReportPatch{})

	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestPatchToMap_EncodesNoteThread(t *testing.T) {
	notes := []types.Note{
		{ID: "n1", Content: "first", Author: "Jordan"},
		{ID: "n2", Content: "second", Author: "Public Works"},
	}

	m, err := patchToMap(types.ReportPatch{PublicNotes: notes})

	require.NoError(t, err)
	encoded, ok := m["public_notes"].(*string)
	require.True(t, ok)
	require.NotNil(t, encoded)
	assert.Contains(t, *encoded, `"n1"`)
	assert.NotContains(t, m, "staff_notes")
}

func TestPatchToMap_EmptyDepartmentBecomesNull(t *testing.T) {
	m, err := patchToMap(types.ReportPatch{AssignedDepartment: utils.StringPtr("")})

	require.NoError(t, err)
	require.Contains(t, m, "assigned_department")
	assert.Nil(t, m["assigned_department"])
}

func TestNotesRoundTrip(t *testing.T) {
	stamp := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	notes := []types.Note{
		{ID: "n1", Content: "Any update on this?", Timestamp: stamp, Author: "Jordan"},
		{ID: "n2", Content: "Crew is on the way.", Timestamp: stamp.Add(time.Hour), Author: "Public Works"},
	}

	encoded, err := encodeNotes(notes)
	require.NoError(t, err)
	require.NotNil(t, encoded)

	decoded, err := decodeNotes(encoded)
	require.NoError(t, err)
	assert.Equal(t, notes, decoded)
}

func TestEncodeNotes_EmptyThreadIsNull(t *testing.T) {
	encoded, err := encodeNotes(nil)
	require.NoError(t, err)
	assert.Nil(t, encoded)

	encoded, err = encodeNotes([]types.Note{})
	require.NoError(t, err)
	assert.Nil(t, encoded)
}

func TestDecodeNotes_NullAndMalformed(t *testing.T) {
	decoded, err := decodeNotes(nil)
	require.NoError(t, err)
	assert.Empty(t, decoded)

	_, err = decodeNotes(utils.StringPtr("{not json"))
	require.Error(t, err)
}

func TestRowRoundTrip(t *testing.T) {
	report := &types.Report{
		ID:              "rpt-a",
		Title:           "Pothole on Main St",
		Description:     "Deep pothole near the crosswalk",
		Category:        "Road Maintenance",
		Priority:        types.PriorityMedium,
		Status:          types.StatusInProgress,
		LocationAddress: "Main St & 5th Ave",
		LocationLat:     utils.Float64Ptr(40.7128),
		LocationLng:     utils.Float64Ptr(-74.0060),
		MediaURLs:       []string{"https://cdn.test/reports/1-abc.png"},
		PublicNotes: []types.Note{
			{ID: "n1", Content: "first", Timestamp: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), Author: "Jordan"},
		},
		StaffNotes:         make([]types.Note, 0),
		CitizenName:        "Jordan Rivera",
		AssignedDepartment: utils.StringPtr("Public Works"),
		CreatedAt:          time.Date(2026, 3, 13, 8, 0, 0, 0, time.UTC),
		InProgressAt:       utils.TimePtr(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)),
	}

	row, err := reportToRow(report)
	require.NoError(t, err)

	back, err := rowToReport(row)
	require.NoError(t, err)
	assert.Equal(t, report, back)
}
