// Package google provides a geocoder.Geocoder implementation backed by the
// Google Maps Geocoding API.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"yourplaces/pkg/domain"
	"yourplaces/pkg/geocoder"
	"yourplaces/pkg/serrors"
)

// DefaultBaseURL is the JSON endpoint of the Google geocoding API.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Client talks to the Google geocoding API. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Resolve looks up the address and returns the location of the first result.
// It returns ErrNotFound when Google reports ZERO_RESULTS.
func (c *Client) Resolve(ctx context.Context, address string) (domain.Location, error) {
	// https://developers.google.com/maps/documentation/geocoding/requests-geocoding
	query := url.Values{}
	query.Set("address", address)
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return domain.Location{}, fmt.Errorf("could not create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Location{}, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Location{}, fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Location{}, fmt.Errorf("geocode request failed with %d: %s",
			resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var rs struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
		Results      []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.Unmarshal(b, &rs); err != nil {
		return domain.Location{}, fmt.Errorf("could not decode response: %w", err)
	}

	switch rs.Status {
	case "OK":
	case "ZERO_RESULTS":
		return domain.Location{}, serrors.With(serrors.ErrNotFound, "could not find location for the specified address")
	default:
		return domain.Location{}, fmt.Errorf("geocode failed with status %s: %s", rs.Status, rs.ErrorMessage)
	}
	if len(rs.Results) == 0 {
		return domain.Location{}, serrors.With(serrors.ErrNotFound, "could not find location for the specified address")
	}

	loc := rs.Results[0].Geometry.Location

	return domain.Location{Lat: loc.Lat, Lng: loc.Lng}, nil
}

var _ geocoder.Geocoder = (*Client)(nil)

// New constructs a Client. An empty baseURL selects DefaultBaseURL.
func New(httpClient *http.Client, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}
