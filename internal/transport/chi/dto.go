package chi

import (
	"github.com/cabswale/raahi/internal/domain/assistant"
	"github.com/cabswale/raahi/internal/domain/driver"
)

// queryRequest is the body of POST /assistant/query, /query-with-audio and /stream.
type queryRequest struct {
	Text              *string          `json:"text"`
	DriverProfile     *driver.Profile  `json:"driver_profile"`
	CurrentLocation   *driver.Location `json:"current_location"`
	SessionID         string           `json:"session_id,omitempty"`
	PreferredLanguage string           `json:"preferred_language,omitempty"` // accepted, responses are always Hinglish
	InteractionCount  *int             `json:"interaction_count,omitempty"`
	IsHome            *bool            `json:"is_home,omitempty"`
	RequestCount      *int             `json:"request_count,omitempty"`
	ChipClick         string           `json:"chip_click,omitempty"`
	PhoneNo           string           `json:"phoneNo,omitempty"`
}

// missingField returns the first absent required field, "" when complete.
func (q *queryRequest) missingField() string {
	switch {
	case q.Text == nil:
		return "text"
	case q.DriverProfile == nil:
		return "driver_profile"
	case q.CurrentLocation == nil:
		return "current_location"
	default:
		return ""
	}
}

func (q *queryRequest) toDomain() assistant.Query {
	out := assistant.Query{
		Text:      *q.Text,
		Profile:   *q.DriverProfile,
		Location:  *q.CurrentLocation,
		SessionID: q.SessionID,
		IsHome:    true,
		ChipClick: q.ChipClick,
		PhoneNo:   q.PhoneNo,
	}
	if q.InteractionCount != nil {
		out.InteractionCount = *q.InteractionCount
	}
	if q.IsHome != nil {
		out.IsHome = *q.IsHome
	}
	if q.RequestCount != nil {
		out.RequestCount = *q.RequestCount
	}
	return out
}

type dutyQuery struct {
	PickupCity *string `json:"pickup_city"`
	DropCity   *string `json:"drop_city"`
	UsedGeo    bool    `json:"used_geo"`
}

type dutyCounts struct {
	Trips int `json:"trips"`
	Leads int `json:"leads"`
}

// assistantResponse is the JSON metadata of one turn. response_text is kept
// for older clients and is always empty: speech is either audio_url or the
// streamed WAV that follows.
type assistantResponse struct {
	SessionID    string         `json:"session_id"`
	Success      bool           `json:"success"`
	Intent       string         `json:"intent"`
	UIAction     string         `json:"ui_action"`
	ResponseText string         `json:"response_text"`
	Query        *dutyQuery     `json:"query"`
	Counts       *dutyCounts    `json:"counts"`
	Data         map[string]any `json:"data"`
	AudioCached  bool           `json:"audio_cached"`
	CacheKey     string         `json:"cache_key"`
	AudioURL     *string        `json:"audio_url"`
}

func responseFromDomain(r assistant.Response) assistantResponse {
	out := assistantResponse{
		SessionID: r.SessionID,
		Success:   true,
		Intent:    string(r.Intent),
		UIAction:  string(r.UIAction),
		Data:      r.Data,
		AudioURL:  optional(r.AudioURL),
	}
	if r.Query != nil {
		out.Query = &dutyQuery{
			PickupCity: optional(r.Query.PickupCity),
			DropCity:   optional(r.Query.DropCity),
			UsedGeo:    r.Query.UsedGeo,
		}
	}
	if r.Counts != nil {
		out.Counts = &dutyCounts{Trips: r.Counts.Trips, Leads: r.Counts.Leads}
	}
	return out
}

type sessionClearedResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
