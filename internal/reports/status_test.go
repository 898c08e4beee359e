package reports

import (
	"testing"

	"civicwatch/pkg/types"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from types.ReportStatus
		to   types.ReportStatus
		want bool
	}{
		{"submitted to acknowledged", types.StatusSubmitted, types.StatusAcknowledged, true},
		{"acknowledged to in-progress", types.StatusAcknowledged, types.StatusInProgress, true},
		{"in-progress to resolved", types.StatusInProgress, types.StatusResolved, true},
		{"skip to resolved", types.StatusSubmitted, types.StatusResolved, true},
		{"same state rejected", types.StatusAcknowledged, types.StatusAcknowledged, false},
		{"backward rejected", types.StatusResolved, types.StatusSubmitted, false},
		{"reopen rejected", types.StatusResolved, types.StatusInProgress, false},
		{"unknown from rejected", types.ReportStatus("archived"), types.StatusResolved, false},
		{"unknown to rejected", types.StatusSubmitted, types.ReportStatus("archived"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}
