package audio

import (
	"testing"

	"github.com/cabswale/raahi/internal/domain/intent"
)

func testCatalog() *Catalog {
	return NewCatalog("https://cdn.example.com/audio/", map[string]string{
		"entry":         "entry.mp3",
		"entry_home":    "entry_home.mp3",
		"entry_home_2":  "entry_home_2.mp3",
		"entry_3":       "/entry_3.mp3",
		"get_duties":    "duties.mp3",
		"fraud_low":     "https://other.example.com/fraud_low.mp3",
		"no_duty":       "no_duty.mp3",
		"blank":         "  ",
		"Find_Chip":     "find.mp3",
	})
}

func TestURL_LookupOrder(t *testing.T) {
	c := testCatalog()
	tests := []struct {
		name        string
		interaction int
		home        bool
		request     int
		want        string
	}{
		{"home with exact count", 2, true, 0, "https://cdn.example.com/audio/entry_home_2.mp3"},
		{"home without count variant", 5, true, 0, "https://cdn.example.com/audio/entry_home.mp3"},
		{"not home with count", 3, false, 0, "https://cdn.example.com/audio/entry_3.mp3"},
		{"not home fallback", 7, false, 0, "https://cdn.example.com/audio/entry.mp3"},
		{"request count used when no interaction", 0, false, 3, "https://cdn.example.com/audio/entry_3.mp3"},
		{"interaction wins over request", 2, true, 3, "https://cdn.example.com/audio/entry_home_2.mp3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.URL(intent.Entry, tt.interaction, tt.home, tt.request); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestURL_Missing(t *testing.T) {
	if got := testCatalog().URL(intent.Towing, 1, true, 0); got != "" {
		t.Errorf("expected empty URL, got %q", got)
	}
}

func TestDirect(t *testing.T) {
	c := testCatalog()
	if got := c.Direct("fraud_low"); got != "https://other.example.com/fraud_low.mp3" {
		t.Errorf("absolute URL changed: %q", got)
	}
	if got := c.Direct("find_chip"); got != "https://cdn.example.com/audio/find.mp3" {
		t.Errorf("keys should be case-insensitive, got %q", got)
	}
	if got := c.Direct("blank"); got != "" {
		t.Errorf("blank file should be ignored, got %q", got)
	}
	if got := NewCatalog("", map[string]string{"x": "x.mp3"}).Direct("x"); got != "x.mp3" {
		t.Errorf("no base URL: got %q", got)
	}
}
