// Package geocoding resolves place names with the Google Geocoding API.
package geocoding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/cabswale/raahi/internal/domain"
	"github.com/cabswale/raahi/internal/domain/geo"
	"github.com/cabswale/raahi/internal/transport/httpx"
)

// DefaultBaseURL is the Geocoding API JSON endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

type response struct {
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message"`
	Results      []result `json:"results"`
}

type result struct {
	AddressComponents []struct {
		ShortName string   `json:"short_name"`
		Types     []string `json:"types"`
	} `json:"address_components"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

// Client is a Geocoding API client.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	logger  *zap.Logger
}

// Config holds the Geocoding API settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *zap.Logger
}

// New creates a Geocoding API client.
func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		http:    httpx.NewClient(cfg.Timeout),
		baseURL: base,
		apiKey:  cfg.APIKey,
		logger:  cfg.Logger,
	}
}

// Geocode returns the first result's location and country.
// ZERO_RESULTS and results with out-of-range coordinates return (nil, nil).
func (c *Client) Geocode(ctx context.Context, name string) (*geo.Place, error) {
	q := url.Values{}
	q.Set("address", name)
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	var resp response
	if err := httpx.Do(c.http, req, &resp); err != nil {
		return nil, fmt.Errorf("geocode %q: %w: %w", name, err, domain.ErrGeocoderError)
	}

	switch resp.Status {
	case statusOK:
	case statusZeroResults:
		return nil, nil
	default:
		return nil, fmt.Errorf("geocode %q: status %s: %s: %w",
			name, resp.Status, resp.ErrorMessage, domain.ErrGeocoderError)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	first := resp.Results[0]
	point, err := geo.NewPoint(first.Geometry.Location.Lat, first.Geometry.Location.Lng)
	if err != nil {
		c.logger.Warn("Geocoder returned invalid coordinates",
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, nil
	}
	return &geo.Place{Point: point, CountryCode: countryCode(first)}, nil
}

func countryCode(r result) string {
	for _, comp := range r.AddressComponents {
		for _, t := range comp.Types {
			if t == "country" {
				return comp.ShortName
			}
		}
	}
	return ""
}
