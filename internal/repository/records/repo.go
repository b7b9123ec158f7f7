package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/cabswale/raahi/internal/db"
	domcol "github.com/cabswale/raahi/internal/domain/collection"
	"github.com/cabswale/raahi/internal/domain/geo"
	"github.com/cabswale/raahi/internal/domain/record"
	"github.com/cabswale/raahi/internal/domain/search/filter"
)

// store is the consumer interface for record collections (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchRecords(ctx context.Context, q *db.RecordQuery) (*db.RecordResult, error)
}

// Repo implements usecase/search.Repository over a db backend.
type Repo struct {
	store     store
	keyPrefix string
	indexes   map[string]string
}

// New creates a records repository. indexes maps collection name to index
// name; collections missing from it use their own name.
func New(s store, keyPrefix string, indexes map[string]string) *Repo {
	idx := make(map[string]string, len(indexes))
	for k, v := range indexes {
		idx[k] = v
	}
	return &Repo{store: s, keyPrefix: keyPrefix, indexes: idx}
}

// IndexName returns the backend index that holds the collection.
func (r *Repo) IndexName(schema domcol.Schema) string {
	if name, ok := r.indexes[schema.Name()]; ok && name != "" {
		return name
	}
	return schema.Name()
}

// EnsureIndex creates the collection index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context, schema domcol.Schema) error {
	name := r.IndexName(schema)
	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	if exists {
		return nil
	}

	def, err := buildIndex(name, r.keyPrefix, schema)
	if err != nil {
		return fmt.Errorf("build index %s: %w", name, err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}

// SearchText runs a fuzzy query over the collection's city fields, newest first.
func (r *Repo) SearchText(
	ctx context.Context, schema domcol.Schema,
	text string, filters filter.Expression, limit int,
) ([]record.Record, error) {
	q := &db.RecordQuery{
		Index:   r.IndexName(schema),
		Text:    text,
		Fields:  schema.CityFields(),
		Filters: filters,
		Sort:    []db.SortKey{db.ByField(record.FieldCreatedAt, true)},
		Limit:   limit,
	}
	res, err := r.store.SearchRecords(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search text %s: %w", schema.Name(), err)
	}
	return res.Records, nil
}

// SearchNear returns records matching filters, nearest to center first and
// newest first among equals. The radius belongs in filters.
func (r *Repo) SearchNear(
	ctx context.Context, schema domcol.Schema,
	center geo.Point, filters filter.Expression, limit int,
) ([]record.Record, error) {
	q := &db.RecordQuery{
		Index:   r.IndexName(schema),
		Filters: filters,
		Sort: []db.SortKey{
			db.ByDistance(schema.GeoField(), center),
			db.ByField(record.FieldCreatedAt, true),
		},
		Limit: limit,
	}
	res, err := r.store.SearchRecords(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search near %s: %w", schema.Name(), err)
	}
	return res.Records, nil
}
