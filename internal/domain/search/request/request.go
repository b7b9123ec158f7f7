package request

import (
	"fmt"
	"strings"

	"github.com/cabswale/raahi/internal/domain/geo"
)

// Search parameter limits.
const (
	// MaxCityLength is the maximum accepted city name length.
	MaxCityLength = 256
	DefaultRadius = 50.0
	DefaultLimit  = 50
	MaxLimit      = 250
	AnyDropCity   = "any"
)

// Request is a validated duty search: pickup/drop cities plus optional
// pre-validated pickup coordinates.
type Request struct {
	pickupCity string
	dropCity   string
	pickup     *geo.Point
	radiusKm   float64
	limit      int
}

// New validates and normalizes search parameters.
// Blank cities become absent; drop city "any" means no drop filter.
func New(pickupCity, dropCity string, pickup *geo.Point, radiusKm float64, limit int) (Request, error) {
	pickupCity = strings.TrimSpace(pickupCity)
	dropCity = strings.TrimSpace(dropCity)
	if strings.EqualFold(dropCity, AnyDropCity) {
		dropCity = ""
	}
	if len(pickupCity) > MaxCityLength || len(dropCity) > MaxCityLength {
		return Request{}, fmt.Errorf("city name too long (max %d chars)", MaxCityLength)
	}
	if radiusKm <= 0 {
		return Request{}, fmt.Errorf("radius_km must be positive, got %v", radiusKm)
	}
	if limit <= 0 {
		return Request{}, fmt.Errorf("limit must be positive, got %d", limit)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Request{
		pickupCity: pickupCity,
		dropCity:   dropCity,
		pickup:     pickup,
		radiusKm:   radiusKm,
		limit:      limit,
	}, nil
}

// PickupCity returns the normalized pickup city, empty when absent.
func (r Request) PickupCity() string { return r.pickupCity }

// DropCity returns the normalized drop city, empty when absent.
func (r Request) DropCity() string { return r.dropCity }

// Pickup returns the pre-validated pickup point, nil when not supplied.
func (r Request) Pickup() *geo.Point { return r.pickup }

// RadiusKm returns the geo stage radius.
func (r Request) RadiusKm() float64 { return r.radiusKm }

// Limit returns the per-stage result cap.
func (r Request) Limit() int { return r.limit }

// HasCity reports whether any city name is present.
func (r Request) HasCity() bool { return r.pickupCity != "" || r.dropCity != "" }

// Cities returns the present city names in pickup, drop order.
func (r Request) Cities() []string {
	out := make([]string, 0, 2)
	if r.pickupCity != "" {
		out = append(out, r.pickupCity)
	}
	if r.dropCity != "" {
		out = append(out, r.dropCity)
	}
	return out
}

// TextQuery builds the free-text query from the present city names.
func (r Request) TextQuery() string { return strings.Join(r.Cities(), " ") }
