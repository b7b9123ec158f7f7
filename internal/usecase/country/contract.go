package country

import (
	"context"

	"github.com/cabswale/raahi/internal/domain/geo"
)

// Geocoder resolves a place name. A nil place with a nil error means not found.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (*geo.Place, error)
}
