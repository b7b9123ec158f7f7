package elastic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/cabswale/raahi/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// defaultKVIndex holds key-value entries when Config.KVIndex is empty.
const defaultKVIndex = "raahi-kv"

// Config holds connection parameters for an Elasticsearch store.
type Config struct {
	Addresses []string
	Username  string
	Password  string
	// KVIndex is the index backing Get/Set.
	KVIndex string
	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// Store implements db.Store on Elasticsearch 8.
type Store struct {
	client  *elasticsearch.Client
	kvIndex string
	now     func() time.Time
}

// NewStore creates an Elasticsearch store.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("addresses is required")
	}

	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
		Transport: cfg.Transport,
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	kvIndex := cfg.KVIndex
	if kvIndex == "" {
		kvIndex = defaultKVIndex
	}
	return &Store{client: client, kvIndex: kvIndex, now: time.Now}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return &db.Error{Op: db.OpPing, Err: readError(res)}
	}
	return nil
}

// Close is a no-op: the client holds no persistent connections of its own.
func (s *Store) Close() {}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for elasticsearch: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// responseError is a non-2xx Elasticsearch reply.
type responseError struct {
	Status string
	Type   string
	Reason string
}

func (e *responseError) Error() string {
	if e.Type == "" {
		return e.Status
	}
	return e.Status + ": " + e.Type + ": " + e.Reason
}

// readError consumes the response body and extracts the error type and reason.
func readError(res *esapi.Response) *responseError {
	var body struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	e := &responseError{Status: res.Status()}
	data, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err == nil {
		e.Type = body.Error.Type
		e.Reason = body.Error.Reason
	}
	return e
}
