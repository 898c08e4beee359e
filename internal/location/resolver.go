package location

import (
	"context"
	"strings"

	"civicwatch/pkg/types"

	"github.com/sirupsen/logrus"
)

// Phase tracks the two-phase label lifecycle: a label is unresolved until the
// stored fields produce a local result, then upgraded once the remote lookup
// settles.
type Phase int

const (
	PhaseUnresolved Phase = iota
	PhaseResolvedLocal
	PhaseResolvedRemote
)

func (p Phase) String() string {
	switch p {
	case PhaseResolvedLocal:
		return "resolved-local"
	case PhaseResolvedRemote:
		return "resolved-remote"
	default:
		return "unresolved"
	}
}

// Resolver produces location labels, falling back to the synchronous
// coordinate format whenever the geocoding service fails or returns nothing.
type Resolver struct {
	geocoder *Geocoder
	logger   *logrus.Logger
}

func NewResolver(geocoder *Geocoder, logger *logrus.Logger) *Resolver {
	return &Resolver{geocoder: geocoder, logger: logger}
}

// DisplayAsync resolves the label with the same priority as Display, reverse
// geocoding when only coordinates are stored. It never fails; any geocoding
// error degrades to the coordinate format.
func (r *Resolver) DisplayAsync(ctx context.Context, report *types.Report) string {
	label, _ := r.resolveRemote(ctx, report)
	return label
}

// Resolve walks the label through its phases, invoking observe on each
// transition. Consumers paint the resolved-local label immediately and swap
// in the resolved-remote one when it arrives.
func (r *Resolver) Resolve(ctx context.Context, report *types.Report, observe func(Phase, string)) {
	local := Display(report)
	observe(PhaseResolvedLocal, local)

	remote, upgraded := r.resolveRemote(ctx, report)
	if !upgraded {
		remote = local
	}
	observe(PhaseResolvedRemote, remote)
}

// resolveRemote reports whether the label came from the geocoding service.
func (r *Resolver) resolveRemote(ctx context.Context, report *types.Report) (string, bool) {
	label := Display(report)

	if strings.TrimSpace(report.LocationAddress) != "" || report.LocationLat == nil || report.LocationLng == nil {
		return label, false
	}

	formatted, err := r.geocoder.ReverseGeocode(ctx, *report.LocationLat, *report.LocationLng)
	if err != nil {
		r.logger.WithError(err).WithField("report_id", report.ID).Debug("reverse geocode failed, using coordinate label")
		return label, false
	}

	return formatted, true
}
