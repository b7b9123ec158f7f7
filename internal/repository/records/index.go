package records

import (
	"github.com/cabswale/raahi/internal/db"
	domcol "github.com/cabswale/raahi/internal/domain/collection"
	"github.com/cabswale/raahi/internal/domain/record"
	"github.com/cabswale/raahi/internal/domain/search/filter"
)

// buildIndex derives the index schema from a collection: city fields as TEXT,
// the pickup point as GEO, createdAt sortable, and every hard filter key as TAG.
func buildIndex(name, keyPrefix string, schema domcol.Schema) (*db.IndexDefinition, error) {
	b := db.NewIndex(name).
		OnJSON().
		Prefix(keyPrefix+schema.Name()+":").
		Text(schema.PickupField()).
		Text(schema.DropField()).
		Geo(schema.GeoField()).
		Numeric(record.FieldCreatedAt).Sortable()

	seen := map[string]bool{}
	hard := schema.HardFilter()
	for _, group := range [][]filter.Condition{hard.Must(), hard.Should(), hard.MustNot()} {
		for _, c := range group {
			if !c.IsMatch() || seen[c.Key()] {
				continue
			}
			seen[c.Key()] = true
			b.Tag(c.Key())
		}
	}
	return b.Build()
}
