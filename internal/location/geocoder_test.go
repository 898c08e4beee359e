package location

import (
	"context"
	"net/http"
	"testing"

	"civicwatch/internal/utils"
	"civicwatch/pkg/types"

	"github.com/jarcoal/httpmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGeocoderURL = "https://geocode.test/v1/json"

func setupGeocoder(t *testing.T) *Geocoder {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	return NewGeocoder(testGeocoderURL, "test-key")
}

func coordinateReport() *types.Report {
	return &types.Report{
		ID:          "rpt-1",
		LocationLat: utils.Float64Ptr(40.7128),
		LocationLng: utils.Float64Ptr(-74.0060),
	}
}

func TestGeocoder_ReverseGeocode_Success(t *testing.T) {
	geocoder := setupGeocoder(t)

	httpmock.RegisterResponder("GET", testGeocoderURL,
		httpmock.NewStringResponder(http.StatusOK, `{"results":[{"formatted":"City Hall, New York, NY"}]}`))

	got, err := geocoder.ReverseGeocode(context.Background(), 40.7128, -74.0060)

	require.NoError(t, err)
	assert.Equal(t, "City Hall, New York, NY", got)
}

func TestGeocoder_ReverseGeocode_EmptyResults(t *testing.T) {
	geocoder := setupGeocoder(t)

	httpmock.RegisterResponder("GET", testGeocoderURL,
		httpmock.NewStringResponder(http.StatusOK, `{"results":[]}`))

	_, err := geocoder.ReverseGeocode(context.Background(), 40.7128, -74.0060)

	require.ErrorIs(t, err, ErrNoResults)
}

func TestGeocoder_ReverseGeocode_HTTPError(t *testing.T) {
	geocoder := setupGeocoder(t)

	httpmock.RegisterResponder("GET", testGeocoderURL,
		httpmock.NewStringResponder(http.StatusInternalServerError, `{"status":{"message":"server error"}}`))

	_, err := geocoder.ReverseGeocode(context.Background(), 40.7128, -74.0060)

	require.Error(t, err)
}

func TestGeocoder_ReverseGeocode_InvalidJSON(t *testing.T) {
	geocoder := setupGeocoder(t)

	httpmock.RegisterResponder("GET", testGeocoderURL,
		httpmock.NewStringResponder(http.StatusOK, `{invalid json`))

	_, err := geocoder.ReverseGeocode(context.Background(), 40.7128, -74.0060)

	require.Error(t, err)
}

func TestResolver_DisplayAsync_UsesGeocodedAddress(t *testing.T) {
	geocoder := setupGeocoder(t)
	resolver := NewResolver(geocoder, logrus.New())

	httpmock.RegisterResponder("GET", testGeocoderURL,
		httpmock.NewStringResponder(http.StatusOK, `{"results":[{"formatted":"City Hall, New York, NY"}]}`))

	got := resolver.DisplayAsync(context.Background(), coordinateReport())

	assert.Equal(t, "City Hall, New York, NY", got)
}

func TestResolver_DisplayAsync_FailureMatchesCoordinateFallback(t *testing.T) {
	geocoder := setupGeocoder(t)
	resolver := NewResolver(geocoder, logrus.New())

	httpmock.RegisterResponder("GET", testGeocoderURL,
		httpmock.NewStringResponder(http.StatusServiceUnavailable, `unavailable`))

	report := coordinateReport()
	got := resolver.DisplayAsync(context.Background(), report)

	assert.Equal(t, Display(report), got)
	assert.Equal(t, "40.7128°N, 74.0060°W", got)
}

func TestResolver_DisplayAsync_AddressSkipsLookup(t *testing.T) {
	geocoder := setupGeocoder(t)
	resolver := NewResolver(geocoder, logrus.New())

	report := &types.Report{LocationAddress: "Oak Dr & Elm St"}
	got := resolver.DisplayAsync(context.Background(), report)

	assert.Equal(t, "Oak Dr & Elm St", got)
	assert.Zero(t, httpmock.GetTotalCallCount())
}

func TestResolver_Resolve_PhasesInOrder(t *testing.T) {
	geocoder := setupGeocoder(t)
	resolver := NewResolver(geocoder, logrus.New())

	httpmock.RegisterResponder("GET", testGeocoderURL,
		httpmock.NewStringResponder(http.StatusOK, `{"results":[{"formatted":"City Hall, New York, NY"}]}`))

	var phases []Phase
	var labels []string
	resolver.Resolve(context.Background(), coordinateReport(), func(phase Phase, label string) {
		phases = append(phases, phase)
		labels = append(labels, label)
	})

	require.Equal(t, []Phase{PhaseResolvedLocal, PhaseResolvedRemote}, phases)
	assert.Equal(t, "40.7128°N, 74.0060°W", labels[0])
	assert.Equal(t, "City Hall, New York, NY", labels[1])
}

func TestResolver_Resolve_RemoteFallsBackToLocalLabel(t *testing.T) {
	geocoder := setupGeocoder(t)
	resolver := NewResolver(geocoder, logrus.New())

	httpmock.RegisterResponder("GET", testGeocoderURL,
		httpmock.NewStringResponder(http.StatusBadGateway, `bad gateway`))

	var labels []string
	resolver.Resolve(context.Background(), coordinateReport(), func(_ Phase, label string) {
		labels = append(labels, label)
	})

	require.Len(t, labels, 2)
	assert.Equal(t, labels[0], labels[1])
}
