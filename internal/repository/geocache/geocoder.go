package geocache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/cabswale/raahi/internal/db"
	"github.com/cabswale/raahi/internal/domain/geo"
)

const keySegment = "geo_cache:"

// geocoder is the decorated lookup.
type geocoder interface {
	Geocode(ctx context.Context, name string) (*geo.Place, error)
}

// store is the consumer interface for the geocode cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// entry is the cached form. Found=false records a confirmed miss.
type entry struct {
	Found   bool    `json:"found"`
	Lat     float64 `json:"lat,omitempty"`
	Lon     float64 `json:"lon,omitempty"`
	Country string  `json:"country,omitempty"`
}

// CachedGeocoder caches geocoder answers, including misses, in a key-value store.
// Transport errors are never cached.
type CachedGeocoder struct {
	inner      geocoder
	store      store
	keyPrefix  string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), may be nil.
func New(
	inner geocoder,
	s store,
	keyPrefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedGeocoder {
	return &CachedGeocoder{
		inner:      inner,
		store:      s,
		keyPrefix:  keyPrefix + keySegment,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Geocode returns a cached answer or calls the inner geocoder.
func (c *CachedGeocoder) Geocode(ctx context.Context, name string) (*geo.Place, error) {
	key := c.cacheKey(name)

	if e, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return e.place(), nil
	}

	c.incCache("miss")

	place, err := c.inner.Geocode(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", name, err)
	}

	c.putToCache(ctx, key, newEntry(place))
	return place, nil
}

func (c *CachedGeocoder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey folds case and surrounding space so "Pune" and " pune" share an entry.
func (c *CachedGeocoder) cacheKey(name string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(name))))
	return c.keyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedGeocoder) getFromCache(ctx context.Context, key string) (entry, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached geocode", zap.String("key", key), zap.Error(err))
		}
		return entry{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.logger.Warn("Failed to parse cached geocode", zap.String("key", key), zap.Error(err))
		return entry{}, false
	}
	if e.Found {
		if _, err := geo.NewPoint(e.Lat, e.Lon); err != nil {
			c.logger.Warn("Cached geocode out of range", zap.String("key", key), zap.Error(err))
			return entry{}, false
		}
	}
	return e, true
}

func (c *CachedGeocoder) putToCache(ctx context.Context, key string, e entry) {
	data, err := json.Marshal(e)
	if err != nil {
		c.logger.Warn("Failed to encode geocode", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache geocode", zap.String("key", key), zap.Error(err))
	}
}

func newEntry(p *geo.Place) entry {
	if p == nil {
		return entry{}
	}
	return entry{Found: true, Lat: p.Point.Lat(), Lon: p.Point.Lon(), Country: p.CountryCode}
}

func (e entry) place() *geo.Place {
	if !e.Found {
		return nil
	}
	pt, err := geo.NewPoint(e.Lat, e.Lon)
	if err != nil {
		return nil
	}
	return &geo.Place{Point: pt, CountryCode: e.Country}
}
