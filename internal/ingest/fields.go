package ingest

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// record is one source object decoded field by field. Only the identity
// field is required; a malformed optional field falls back to its zero
// value and is logged.
type record struct {
	raw    map[string]json.RawMessage
	index  int
	id     string
	report *Report
	logger *zap.Logger
}

func decodeRecord(data json.RawMessage, index int, report *Report, logger *zap.Logger) (*record, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return &record{raw: raw, index: index, report: report, logger: logger}, nil
}

// identity returns the required string field key, or missing when it is
// absent or blank.
func (r *record) identity(key string, missing error) (string, error) {
	v, ok := r.raw[key]
	if !ok || isNull(v) {
		return "", missing
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	if strings.TrimSpace(s) == "" {
		return "", missing
	}
	r.id = s
	return s, nil
}

func (r *record) str(key string) string {
	s, _ := field[string](r, key)
	return s
}

func (r *record) strs(key string) []string {
	ss, _ := field[[]string](r, key)
	return ss
}

func (r *record) boolean(key string) bool {
	b, _ := field[bool](r, key)
	return b
}

// field decodes an optional field. It returns the zero value and false when
// the field is absent, null or of the wrong type; a wrong type is logged.
func field[T any](r *record, key string) (T, bool) {
	var zero T
	v, ok := r.raw[key]
	if !ok || isNull(v) {
		return zero, false
	}
	var out T
	if err := json.Unmarshal(v, &out); err != nil {
		r.report.Defaulted++
		r.logger.Warn("defaulting malformed field",
			zap.String("source", r.report.Source),
			zap.Int("index", r.index),
			zap.String("id", r.id),
			zap.String("field", key),
			zap.Error(err),
		)
		return zero, false
	}
	return out, true
}

func isNull(v json.RawMessage) bool {
	return string(v) == "null"
}
