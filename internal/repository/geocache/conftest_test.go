package geocache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/cabswale/raahi/internal/db"
	"github.com/cabswale/raahi/internal/domain/geo"
)

type mockGeocoder struct {
	place *geo.Place
	err   error
	calls int
}

func (m *mockGeocoder) Geocode(_ context.Context, _ string) (*geo.Place, error) {
	m.calls++
	return m.place, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedGeocoder(t *testing.T, inner *mockGeocoder) (*CachedGeocoder, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	return New(inner, ms, "raahi:", time.Hour, nil, zap.NewNop()), ms
}

func mustPlace(t *testing.T, lat, lon float64, country string) *geo.Place {
	t.Helper()
	p, err := geo.NewPoint(lat, lon)
	if err != nil {
		t.Fatal(err)
	}
	return &geo.Place{Point: p, CountryCode: country}
}
