package db

import (
	"github.com/cabswale/raahi/internal/domain/geo"
	"github.com/cabswale/raahi/internal/domain/record"
	"github.com/cabswale/raahi/internal/domain/search/filter"
)

// SortKey orders results by a field. When Near is set the key is the
// distance from Near to the geo field instead of the field value.
type SortKey struct {
	Field string
	Desc  bool
	Near  *geo.Point
}

// ByField sorts by a field value.
func ByField(field string, desc bool) SortKey {
	return SortKey{Field: field, Desc: desc}
}

// ByDistance sorts by distance from p to the geo field, nearest first.
func ByDistance(field string, p geo.Point) SortKey {
	return SortKey{Field: field, Near: &p}
}

// IsDistance reports whether the key sorts by geo distance.
func (k SortKey) IsDistance() bool { return k.Near != nil }

// RecordQuery is the input for a collection search: optional fuzzy text
// over named fields, a filter expression, compound sort, and a cap.
type RecordQuery struct {
	Index   string
	Text    string
	Fields  []string
	Filters filter.Expression
	Sort    []SortKey
	Limit   int
}

// Validate checks the query is executable.
func (q *RecordQuery) Validate() error {
	if q.Index == "" {
		return &Error{Op: OpSearch, Err: ErrInvalidQuery}
	}
	if q.Text != "" && len(q.Fields) == 0 {
		return &Error{Op: OpSearch, Err: ErrInvalidQuery}
	}
	if q.Limit <= 0 {
		return &Error{Op: OpSearch, Err: ErrInvalidQuery}
	}
	return nil
}

// RecordResult is the output of a collection search.
type RecordResult struct {
	Total   int
	Records []record.Record
}
