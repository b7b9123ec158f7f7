// Package fraud looks up a driver's fraud rating by phone number.
package fraud

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cabswale/raahi/internal/transport/httpx"
)

// Rating keys. They double as audio prompt keys.
const (
	RatingFraud      = "fraud_low"
	RatingVerified   = "found_verified"
	RatingUnverified = "found_unverified"
	RatingNotFound   = "not_found"
)

type lookupRequest struct {
	PhoneNo string `json:"phoneNo"`
}

type lookupResponse struct {
	Found        bool `json:"found"`
	DriverDetail struct {
		Fraud           bool `json:"fraud"`
		ProfileVerified bool `json:"profileVerified"`
	} `json:"driverDetail"`
}

// Client calls the driver rating endpoint.
type Client struct {
	http   *http.Client
	url    string
	logger *zap.Logger
}

// New creates a fraud rating client.
func New(url string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{http: httpx.NewClient(timeout), url: url, logger: logger}
}

// Lookup returns the rating key and the raw response payload.
// Any failure returns ("", nil); the caller proceeds without a rating.
func (c *Client) Lookup(ctx context.Context, phone string) (string, map[string]any) {
	var raw json.RawMessage
	if err := httpx.PostJSON(ctx, c.http, c.url, lookupRequest{PhoneNo: phone}, &raw); err != nil {
		c.logger.Error("Fraud lookup failed", zap.Error(err))
		return "", nil
	}

	var parsed lookupResponse
	var payload map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		c.logger.Error("Fraud lookup returned malformed body", zap.Error(err))
		return "", nil
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.logger.Error("Fraud lookup returned malformed body", zap.Error(err))
		return "", nil
	}

	return rate(parsed), payload
}

func rate(r lookupResponse) string {
	switch {
	case !r.Found:
		return RatingNotFound
	case r.DriverDetail.Fraud:
		return RatingFraud
	case r.DriverDetail.ProfileVerified:
		return RatingVerified
	default:
		return RatingUnverified
	}
}
