package assistant

import (
	"github.com/cabswale/raahi/internal/domain/driver"
	"github.com/cabswale/raahi/internal/domain/intent"
)

// Chip clicks that bypass classification.
const (
	ChipFind  = "find"
	ChipTools = "tools"
)

// Pre-recorded prompt keys not derived from an intent.
const (
	AudioFindChip           = "find_chip"
	AudioToolsChip          = "tools_chip"
	AudioIndiaOnly          = "india_only"
	AudioNoDuty             = "no_duty"
	AudioDutiesNoPickupDrop = "duties_no_pickup_drop"
)

// Query is one assistant turn as received from the client.
type Query struct {
	Text             string
	Profile          driver.Profile
	Location         driver.Location
	SessionID        string
	InteractionCount int
	IsHome           bool
	RequestCount     int
	ChipClick        string
	PhoneNo          string
}

// DutyQuery echoes the cities a duty search ran with.
type DutyQuery struct {
	PickupCity string
	DropCity   string
	UsedGeo    bool
}

// Counts holds per-collection result sizes.
type Counts struct {
	Trips int
	Leads int
}

// Response is a fully assembled terminal state of one turn.
type Response struct {
	SessionID    string
	Intent       intent.Type
	UIAction     intent.UIAction
	ResponseText string
	Query        *DutyQuery
	Counts       *Counts
	Data         map[string]any
	AudioURL     string
}

// Outcome is a Response plus the text to synthesize when no
// pre-recorded audio applies.
type Outcome struct {
	Response   Response
	SpeechText string
}
