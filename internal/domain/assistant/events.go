package assistant

import "time"

// IntentEvent records one classified turn for analytics.
type IntentEvent struct {
	DriverID         string
	Intent           string
	InteractionCount int
	SessionID        string
	QueryText        string
	PickupCity       *string
	DropCity         *string
	CreatedAt        time.Time
}

// SearchEvent records one duty search and its result sizes.
type SearchEvent struct {
	DriverID   string
	SessionID  string
	PickupCity string
	DropCity   string
	UsedGeo    bool
	Outcome    string
	TripsCount int
	LeadsCount int
	CreatedAt  time.Time
}
