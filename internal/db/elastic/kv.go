package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cabswale/raahi/internal/db"
)

// kvEntry is the document stored per key. ExpiresAt is unix seconds, 0 for none.
type kvEntry struct {
	Value     []byte `json:"value"`
	ExpiresAt int64  `json:"expiresAt,omitempty"`
}

type getResponse struct {
	Found  bool    `json:"found"`
	Source kvEntry `json:"_source"`
}

// Get retrieves a value by key. Expired entries read as missing.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	res, err := s.client.Get(s.kvIndex, key, s.client.Get.WithContext(ctx))
	if err != nil {
		return nil, &db.Error{Op: db.OpESGet, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, db.ErrKeyNotFound
	}
	if res.IsError() {
		return nil, &db.Error{Op: db.OpESGet, Err: readError(res)}
	}

	var doc getResponse
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, &db.Error{Op: db.OpESGet, Err: err}
	}
	if !doc.Found {
		return nil, db.ErrKeyNotFound
	}
	if doc.Source.ExpiresAt > 0 && s.now().Unix() >= doc.Source.ExpiresAt {
		return nil, db.ErrKeyNotFound
	}
	return doc.Source.Value, nil
}

// Set stores a value without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.put(ctx, key, kvEntry{Value: value})
}

// SetWithTTL stores a value that reads as missing after ttl.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := kvEntry{Value: value}
	if ttl > 0 {
		entry.ExpiresAt = s.now().Add(ttl).Unix()
	}
	return s.put(ctx, key, entry)
}

func (s *Store) put(ctx context.Context, key string, entry kvEntry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return &db.Error{Op: db.OpESIndex, Err: err}
	}

	res, err := s.client.Index(s.kvIndex, bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(key),
	)
	if err != nil {
		return &db.Error{Op: db.OpESIndex, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return &db.Error{Op: db.OpESIndex, Err: readError(res)}
	}
	return nil
}
