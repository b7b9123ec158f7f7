package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/cabswale/raahi/internal/db"
	"github.com/cabswale/raahi/internal/domain/geo"
	"github.com/cabswale/raahi/internal/domain/record"
	"github.com/cabswale/raahi/internal/domain/search/filter"
)

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source record.Record `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchRecords runs a collection query as a bool query. Each text token
// is a fuzzy multi_match of its own, so a pickup and drop city may match
// different fields while both are still required.
func (s *Store) SearchRecords(ctx context.Context, q *db.RecordQuery) (*db.RecordResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(buildSearchBody(q))
	if err != nil {
		return nil, &db.Error{Op: db.OpESSearch, Err: err}
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(q.Index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpESSearch, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		e := readError(res)
		if res.StatusCode == http.StatusNotFound || e.Type == "index_not_found_exception" {
			return nil, &db.Error{Op: db.OpESSearch, Err: db.ErrIndexNotFound}
		}
		return nil, &db.Error{Op: db.OpESSearch, Err: e}
	}

	// Numbers stay json.Number so large numeric ids survive decoding.
	var parsed searchResponse
	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	if err := dec.Decode(&parsed); err != nil {
		return nil, &db.Error{Op: db.OpESSearch, Err: err}
	}

	records := make([]record.Record, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		if h.Source != nil {
			records = append(records, h.Source)
		}
	}
	return &db.RecordResult{Total: parsed.Hits.Total.Value, Records: records}, nil
}

func buildSearchBody(q *db.RecordQuery) map[string]any {
	boolQuery := buildBool(q.Filters)
	if tokens := strings.Fields(q.Text); len(tokens) > 0 {
		must := make([]any, 0, len(tokens))
		for _, tok := range tokens {
			must = append(must, map[string]any{
				"multi_match": map[string]any{
					"query":     tok,
					"fields":    q.Fields,
					"fuzziness": "AUTO",
				},
			})
		}
		boolQuery["must"] = must
	}

	body := map[string]any{
		"size":  q.Limit,
		"query": map[string]any{"bool": boolQuery},
	}
	if len(q.Sort) > 0 {
		body["sort"] = buildSort(q.Sort)
	}
	return body
}

// buildBool maps must to filter context since filters never affect scoring.
func buildBool(expr filter.Expression) map[string]any {
	b := map[string]any{}
	if len(expr.Must()) > 0 {
		b["filter"] = buildClauses(expr.Must())
	}
	if len(expr.Should()) > 0 {
		b["should"] = buildClauses(expr.Should())
		b["minimum_should_match"] = 1
	}
	if len(expr.MustNot()) > 0 {
		b["must_not"] = buildClauses(expr.MustNot())
	}
	return b
}

func buildClauses(conds []filter.Condition) []any {
	out := make([]any, 0, len(conds))
	for _, c := range conds {
		out = append(out, buildClause(c))
	}
	return out
}

func buildClause(c filter.Condition) map[string]any {
	switch c.Kind() {
	case filter.Loose:
		return map[string]any{
			"match": map[string]any{
				c.Key(): map[string]any{"query": c.Match(), "operator": "and"},
			},
		}
	case filter.Radius:
		circle := c.Circle()
		return map[string]any{
			"geo_distance": map[string]any{
				"distance": strconv.FormatFloat(circle.RadiusKm, 'f', -1, 64) + "km",
				c.Key():    latLon(circle.Center),
			},
		}
	default:
		return map[string]any{
			"term": map[string]any{c.Key(): c.Match()},
		}
	}
}

func buildSort(keys []db.SortKey) []any {
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		if k.IsDistance() {
			out = append(out, map[string]any{
				"_geo_distance": map[string]any{
					k.Field: latLon(*k.Near),
					"order": "asc",
					"unit":  "km",
				},
			})
			continue
		}
		order := "asc"
		if k.Desc {
			order = "desc"
		}
		out = append(out, map[string]any{
			k.Field: map[string]any{"order": order, "missing": "_last", "unmapped_type": "double"},
		})
	}
	return out
}

func latLon(p geo.Point) map[string]float64 {
	return map[string]float64{"lat": p.Lat(), "lon": p.Lon()}
}
