package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cabswale/raahi/internal/db"
)

// CreateIndex creates an index whose mapping mirrors the definition.
// Prefixes and storage type have no meaning here and are ignored.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	mapping, err := buildMapping(def)
	if err != nil {
		return err
	}
	body, err := json.Marshal(mapping)
	if err != nil {
		return &db.Error{Op: db.OpESCreateIndex, Err: err}
	}

	res, err := s.client.Indices.Create(def.Name,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return &db.Error{Op: db.OpESCreateIndex, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		e := readError(res)
		if e.Type == "resource_already_exists_exception" {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpESCreateIndex, Err: e}
	}
	return nil
}

// IndexExists reports whether the index is present.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	res, err := s.client.Indices.Exists([]string{name}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, &db.Error{Op: db.OpESExists, Err: err}
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, &db.Error{Op: db.OpESExists, Err: readError(res)}
	}
}

func buildMapping(def *db.IndexDefinition) (map[string]any, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	props := make(map[string]any, len(def.Fields))
	for i := range def.Fields {
		f := &def.Fields[i]
		typ, err := fieldType(f.Type)
		if err != nil {
			return nil, err
		}
		props[f.Key()] = map[string]any{"type": typ}
	}
	return map[string]any{
		"mappings": map[string]any{"properties": props},
	}, nil
}

func fieldType(t db.IndexFieldType) (string, error) {
	switch t {
	case db.IndexFieldText:
		return "text", nil
	case db.IndexFieldTag:
		return "keyword", nil
	case db.IndexFieldNumeric:
		return "double", nil
	case db.IndexFieldGeo:
		return "geo_point", nil
	default:
		return "", errors.New("unknown field type")
	}
}
