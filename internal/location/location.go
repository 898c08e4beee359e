// Package location turns a report's stored address and coordinate fields into
// a human-readable label. The synchronous form works entirely from stored
// fields; the resolver upgrades coordinate-only reports through reverse
// geocoding.
package location

import (
	"fmt"
	"math"
	"strings"

	"civicwatch/pkg/types"
)

// NotSpecified is the label for reports with neither an address nor
// coordinates.
const NotSpecified = "Location not specified"

// FormatCoordinates renders a coordinate pair as absolute values to four
// decimal places with hemisphere suffixes, e.g. "40.7128°N, 74.0060°W".
func FormatCoordinates(lat, lng float64) string {
	latDir := "N"
	if lat < 0 {
		latDir = "S"
	}

	lngDir := "E"
	if lng < 0 {
		lngDir = "W"
	}

	return fmt.Sprintf("%.4f°%s, %.4f°%s", math.Abs(lat), latDir, math.Abs(lng), lngDir)
}

// Display resolves a label synchronously: the stored address wins when
// non-empty, then the formatted coordinates, then NotSpecified.
func Display(report *types.Report) string {
	if strings.TrimSpace(report.LocationAddress) != "" {
		return report.LocationAddress
	}

	if report.LocationLat != nil && report.LocationLng != nil {
		return FormatCoordinates(*report.LocationLat, *report.LocationLng)
	}

	return NotSpecified
}
