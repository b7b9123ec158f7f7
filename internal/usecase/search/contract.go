package search

import (
	"context"

	domcol "github.com/cabswale/raahi/internal/domain/collection"
	"github.com/cabswale/raahi/internal/domain/geo"
	"github.com/cabswale/raahi/internal/domain/record"
	"github.com/cabswale/raahi/internal/domain/search/filter"
)

// Repository defines the storage contract for collection queries.
type Repository interface {
	// SearchText runs a fuzzy query over the collection's city fields, newest first.
	SearchText(
		ctx context.Context, schema domcol.Schema,
		text string, filters filter.Expression, limit int,
	) ([]record.Record, error)

	// SearchNear runs a filtered query sorted by distance from center, then newest first.
	SearchNear(
		ctx context.Context, schema domcol.Schema,
		center geo.Point, filters filter.Expression, limit int,
	) ([]record.Record, error)
}

// Resolver classifies a city name (see usecase/country).
type Resolver interface {
	Resolve(ctx context.Context, city string) geo.Resolution
}
