package result

import (
	"sort"

	"github.com/cabswale/raahi/internal/domain/record"
)

// MergedSet accumulates records from several stages, unique by id.
// The first occurrence of an id wins. Not safe for concurrent use.
type MergedSet struct {
	seen    map[string]struct{}
	records []record.Record
}

// NewMergedSet creates an empty set.
func NewMergedSet() *MergedSet {
	return &MergedSet{seen: make(map[string]struct{})}
}

// Add merges records in order and returns how many were new.
// Records without an id cannot be deduplicated and are dropped.
func (m *MergedSet) Add(records []record.Record) int {
	added := 0
	for _, rec := range records {
		id := rec.ID()
		if id == "" {
			continue
		}
		if _, dup := m.seen[id]; dup {
			continue
		}
		m.seen[id] = struct{}{}
		m.records = append(m.records, rec)
		added++
	}
	return added
}

// Len returns the number of unique records.
func (m *MergedSet) Len() int { return len(m.records) }

// Sorted returns the records ordered by createdAt descending.
// The sort is stable: equal timestamps keep insertion order.
func (m *MergedSet) Sorted() []record.Record {
	out := make([]record.Record, len(m.records))
	copy(out, m.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortKey() > out[j].SortKey()
	})
	return out
}
