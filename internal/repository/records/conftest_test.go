package records

import (
	"context"
	"testing"

	"github.com/cabswale/raahi/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	createIndexFn   func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn   func(ctx context.Context, name string) (bool, error)
	searchRecordsFn func(ctx context.Context, q *db.RecordQuery) (*db.RecordResult, error)
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) SearchRecords(ctx context.Context, q *db.RecordQuery) (*db.RecordResult, error) {
	if m.searchRecordsFn != nil {
		return m.searchRecordsFn(ctx, q)
	}
	return &db.RecordResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "raahi:", map[string]string{"trips": "raahi-trips"}), ms
}
