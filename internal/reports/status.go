package reports

import "civicwatch/pkg/types"

// statusRank orders the report lifecycle:
// submitted → acknowledged → in-progress → resolved.
var statusRank = map[types.ReportStatus]int{
	types.StatusSubmitted:    0,
	types.StatusAcknowledged: 1,
	types.StatusInProgress:   2,
	types.StatusResolved:     3,
}

// CanTransition reports whether a status write moves the lifecycle forward.
// Backward and same-state writes are rejected; skipping forward over an
// intermediate state is allowed.
func CanTransition(from, to types.ReportStatus) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}

	toRank, ok := statusRank[to]
	if !ok {
		return false
	}

	return toRank > fromRank
}
