package record

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Standard field names present on every indexed record.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
)

// millisThreshold separates unix seconds from unix milliseconds.
// 1e11 seconds is year 5138; 1e11 milliseconds is 1973.
const millisThreshold = 1e11

// Record is an opaque search hit: field name to decoded JSON value.
type Record map[string]any

// ID returns the record identifier, empty if missing.
func (r Record) ID() string {
	switch v := r[FieldID].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// CreatedAt returns the ordering key in unix seconds.
// Accepts unix seconds, unix milliseconds, numeric strings and RFC 3339
// timestamps. ok is false when the field is missing or unparsable.
func (r Record) CreatedAt() (float64, bool) {
	switch v := r[FieldCreatedAt].(type) {
	case float64:
		return normalizeEpoch(v), true
	case int:
		return normalizeEpoch(float64(v)), true
	case int64:
		return normalizeEpoch(float64(v)), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return normalizeEpoch(f), true
	case string:
		return parseTimestamp(v)
	default:
		return 0, false
	}
}

// SortKey returns CreatedAt or -Inf when missing, so undated records sort last.
func (r Record) SortKey() float64 {
	if ts, ok := r.CreatedAt(); ok {
		return ts
	}
	return math.Inf(-1)
}

func normalizeEpoch(v float64) float64 {
	if math.Abs(v) >= millisThreshold {
		return v / 1000
	}
	return v
}

func parseTimestamp(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return normalizeEpoch(f), true
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return float64(t.UnixNano()) / 1e9, true
		}
	}
	return 0, false
}
