// Package analytics posts assistant events to the analytics sink.
package analytics

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cabswale/raahi/internal/domain/assistant"
	"github.com/cabswale/raahi/internal/transport/httpx"
)

const eventTypeSearch = "search"

type intentPayload struct {
	DriverID         string  `json:"driverId"`
	Intent           string  `json:"intent"`
	InteractionCount int     `json:"interactionCount"`
	CreatedAt        string  `json:"createdAt"`
	SessionID        string  `json:"sessionId"`
	QueryText        string  `json:"queryText"`
	PickupCity       *string `json:"pickupCity,omitempty"`
	DropCity         *string `json:"dropCity,omitempty"`
}

type searchPayload struct {
	EventType  string `json:"eventType"`
	DriverID   string `json:"driverId"`
	SessionID  string `json:"sessionId"`
	PickupCity string `json:"pickupCity"`
	DropCity   string `json:"dropCity"`
	UsedGeo    bool   `json:"usedGeo"`
	Outcome    string `json:"outcome,omitempty"`
	TripsCount int    `json:"tripsCount"`
	LeadsCount int    `json:"leadsCount"`
	CreatedAt  string `json:"createdAt"`
}

// Client sends events over HTTP. An empty URL disables sending.
type Client struct {
	http   *http.Client
	url    string
	logger *zap.Logger
}

// New creates an analytics client.
func New(url string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{http: httpx.NewClient(timeout), url: url, logger: logger}
}

// LogIntent reports whether the event was accepted. It never fails the caller.
func (c *Client) LogIntent(ctx context.Context, e assistant.IntentEvent) bool {
	return c.post(ctx, "intent", intentPayload{
		DriverID:         e.DriverID,
		Intent:           e.Intent,
		InteractionCount: e.InteractionCount,
		CreatedAt:        timestamp(e.CreatedAt),
		SessionID:        e.SessionID,
		QueryText:        e.QueryText,
		PickupCity:       e.PickupCity,
		DropCity:         e.DropCity,
	})
}

// LogSearch reports whether the event was accepted. It never fails the caller.
func (c *Client) LogSearch(ctx context.Context, e assistant.SearchEvent) bool {
	return c.post(ctx, eventTypeSearch, searchPayload{
		EventType:  eventTypeSearch,
		DriverID:   e.DriverID,
		SessionID:  e.SessionID,
		PickupCity: e.PickupCity,
		DropCity:   e.DropCity,
		UsedGeo:    e.UsedGeo,
		Outcome:    e.Outcome,
		TripsCount: e.TripsCount,
		LeadsCount: e.LeadsCount,
		CreatedAt:  timestamp(e.CreatedAt),
	})
}

func (c *Client) post(ctx context.Context, kind string, payload any) bool {
	if c.url == "" {
		return false
	}
	if err := httpx.PostJSON(ctx, c.http, c.url, payload, nil); err != nil {
		c.logger.Error("Failed to log analytics event",
			zap.String("kind", kind),
			zap.Error(err),
		)
		return false
	}
	c.logger.Debug("Analytics event logged", zap.String("kind", kind))
	return true
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}
