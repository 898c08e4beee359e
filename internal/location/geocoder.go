package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var ErrNoResults = errors.New("geocoder returned no results")

// Geocoder is a client for an OpenCage-style reverse geocoding endpoint.
type Geocoder struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewGeocoder(baseURL, apiKey string) *Geocoder {
	return &Geocoder{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type geocodeResponse struct {
	Results []struct {
		Formatted string `json:"formatted"`
	} `json:"results"`
}

// ReverseGeocode resolves a coordinate pair to the first result's formatted
// address.
func (g *Geocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {

	params := url.Values{}
	params.Set("q", fmt.Sprintf("%f+%f", lat, lng))
	params.Set("key", g.apiKey)
	params.Set("no_annotations", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create geocode request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach geocoding service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("geocoding failed with status %d: %s", resp.StatusCode, string(body))
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if len(decoded.Results) == 0 || decoded.Results[0].Formatted == "" {
		return "", ErrNoResults
	}

	return decoded.Results[0].Formatted, nil
}
