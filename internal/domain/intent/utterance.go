package intent

import "github.com/cabswale/raahi/internal/domain/driver"

// Utterance is one transcribed user turn plus the context needed to classify it.
type Utterance struct {
	Text      string
	Profile   driver.Profile
	Location  driver.Location
	SessionID string
}
