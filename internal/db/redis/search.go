package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/cabswale/raahi/internal/db"
	"github.com/cabswale/raahi/internal/domain/record"
	"github.com/cabswale/raahi/internal/domain/search/filter"
)

// jsonRootField is the field name the query engine uses for a whole JSON document.
const jsonRootField = "$"

// distanceAlias names the computed distance column in FT.AGGREGATE.
const distanceAlias = "__dist"

// SearchRecords runs a collection query. Queries sorted by distance go
// through FT.AGGREGATE, everything else through FT.SEARCH.
func (s *Store) SearchRecords(ctx context.Context, q *db.RecordQuery) (*db.RecordResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	query := buildQuery(q)
	for _, k := range q.Sort {
		if k.IsDistance() {
			return s.aggregate(ctx, q, query)
		}
	}
	return s.search(ctx, q, query)
}

func (s *Store) search(ctx context.Context, q *db.RecordQuery, query string) (*db.RecordResult, error) {
	args := []string{q.Index, query}
	// FT.SEARCH accepts a single sort key; later keys only break ties in FT.AGGREGATE.
	if len(q.Sort) > 0 {
		args = append(args, "SORTBY", q.Sort[0].Field, sortOrder(q.Sort[0].Desc))
	}
	args = append(args,
		"LIMIT", "0", strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "no such index") || isRedisErr(err, "unknown index name") {
			return nil, &db.Error{Op: db.OpSearch, Err: db.ErrIndexNotFound}
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return parseSearchResult(raw)
}

func (s *Store) aggregate(ctx context.Context, q *db.RecordQuery, query string) (*db.RecordResult, error) {
	args := []string{q.Index, query}

	load := []string{jsonRootField}
	for _, k := range q.Sort {
		load = append(load, "@"+k.Field)
	}
	args = append(args, "LOAD", strconv.Itoa(len(load)))
	args = append(args, load...)

	sortArgs := make([]string, 0, 2*len(q.Sort))
	for _, k := range q.Sort {
		if k.IsDistance() {
			expr := fmt.Sprintf("geodistance(@%s, %s, %s)", k.Field, formatFloat(k.Near.Lon()), formatFloat(k.Near.Lat()))
			args = append(args, "APPLY", expr, "AS", distanceAlias)
			sortArgs = append(sortArgs, "@"+distanceAlias, "ASC")
			continue
		}
		sortArgs = append(sortArgs, "@"+k.Field, sortOrder(k.Desc))
	}

	args = append(args, "SORTBY", strconv.Itoa(len(sortArgs)))
	args = append(args, sortArgs...)
	args = append(args,
		"MAX", strconv.Itoa(q.Limit),
		"LIMIT", "0", strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "no such index") || isRedisErr(err, "unknown index name") {
			return nil, &db.Error{Op: db.OpAggregate, Err: db.ErrIndexNotFound}
		}
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}
	return parseAggregateResult(raw)
}

// --- Result parsing ---

func parseSearchResult(raw []rueidis.RedisMessage) (*db.RecordResult, error) {
	if len(raw) == 0 {
		return &db.RecordResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.RecordResult{}, nil
	}

	records := make([]record.Record, 0, len(raw)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		rec, ok := toRecord(parseFieldPairs(fields))
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	return &db.RecordResult{Total: int(total), Records: records}, nil
}

func parseAggregateResult(raw []rueidis.RedisMessage) (*db.RecordResult, error) {
	if len(raw) == 0 {
		return &db.RecordResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}

	records := make([]record.Record, 0, len(raw)-1)
	// [total, row1, row2, ...], each row a flat field/value list
	for _, row := range raw[1:] {
		fields, err := row.ToArray()
		if err != nil {
			continue
		}
		pairs := parseFieldPairs(fields)
		delete(pairs, distanceAlias)
		rec, ok := toRecord(pairs)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	return &db.RecordResult{Total: int(total), Records: records}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// toRecord decodes the JSON root when present, otherwise keeps hash fields as strings.
func toRecord(pairs map[string]string) (record.Record, bool) {
	if doc, ok := pairs[jsonRootField]; ok {
		var rec record.Record
		if err := decodeJSON(doc, &rec); err != nil {
			// LOAD $ through FT.AGGREGATE wraps the document in an array.
			var wrapped []record.Record
			if err := decodeJSON(doc, &wrapped); err != nil || len(wrapped) == 0 {
				return nil, false
			}
			rec = wrapped[0]
		}
		return rec, rec != nil
	}
	if len(pairs) == 0 {
		return nil, false
	}
	rec := make(record.Record, len(pairs))
	for k, v := range pairs {
		rec[k] = v
	}
	return rec, true
}

// decodeJSON keeps numbers as json.Number so large numeric ids stay exact.
func decodeJSON(doc string, v any) error {
	dec := json.NewDecoder(strings.NewReader(doc))
	dec.UseNumber()
	return dec.Decode(v)
}

// --- Query building ---

// buildQuery combines the filter expression and fuzzy text into one query string.
func buildQuery(q *db.RecordQuery) string {
	var parts []string
	if f := buildFilter(q.Filters); f != "" {
		parts = append(parts, f)
	}
	if t := buildFuzzyText(q.Text, q.Fields); t != "" {
		parts = append(parts, t)
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

// buildFuzzyText matches every token within Levenshtein distance 1 in any of fields.
func buildFuzzyText(text string, fields []string) string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 || len(fields) == 0 {
		return ""
	}
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		terms = append(terms, "%"+escapeQuery(tok)+"%")
	}
	return fmt.Sprintf("@%s:(%s)", fieldSet(fields), strings.Join(terms, " "))
}

func fieldSet(fields []string) string {
	if len(fields) == 1 {
		return fields[0]
	}
	return "(" + strings.Join(fields, "|") + ")"
}

// buildFilter translates filter.Expression into a query-engine pre-filter.
func buildFilter(expr filter.Expression) string {
	if expr.IsEmpty() {
		return ""
	}

	var parts []string

	for _, cond := range expr.Must() {
		parts = append(parts, buildCondition(cond))
	}

	if shouldParts := buildShouldGroup(expr.Should()); shouldParts != "" {
		parts = append(parts, shouldParts)
	}

	for _, cond := range expr.MustNot() {
		parts = append(parts, "-"+buildCondition(cond))
	}

	return strings.Join(parts, " ")
}

func buildCondition(cond filter.Condition) string {
	switch cond.Kind() {
	case filter.Exact:
		return buildTagFilter(cond.Key(), cond.Match())
	case filter.Loose:
		return buildTextFilter(cond.Key(), cond.Match())
	case filter.Radius:
		return buildGeoFilter(cond.Key(), cond.Circle())
	}
	return ""
}

func buildShouldGroup(conditions []filter.Condition) string {
	if len(conditions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(conditions))
	for _, cond := range conditions {
		parts = append(parts, buildCondition(cond))
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

func buildTagFilter(key, value string) string {
	return fmt.Sprintf("@%s:{%s}", key, tagEscaper.Replace(value))
}

func buildTextFilter(key, value string) string {
	tokens := strings.Fields(value)
	for i, tok := range tokens {
		tokens[i] = escapeQuery(tok)
	}
	return fmt.Sprintf("@%s:(%s)", key, strings.Join(tokens, " "))
}

func buildGeoFilter(key string, c filter.Circle) string {
	return fmt.Sprintf("@%s:[%s %s %s km]",
		key, formatFloat(c.Center.Lon()), formatFloat(c.Center.Lat()), formatFloat(c.RadiusKm))
}

func sortOrder(desc bool) string {
	if desc {
		return "DESC"
	}
	return "ASC"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// --- Escaping ---

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	" ", "\\ ",
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`,`, `\,`,
	`.`, `\.`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
)
