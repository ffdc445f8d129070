package enrichment

import (
	"math"
	"strconv"
	"strings"

	"college-finder/internal/models"
)

// Raw is one decoded JSON object from a model answer. Its accessors are
// total: they never fail and never return nil.
type Raw map[string]interface{}

// legacy placeholders the model (or older cache generations) may use
var missingMarkers = map[string]bool{
	"":              true,
	"n/a":           true,
	"na":            true,
	"null":          true,
	"none":          true,
	"unknown":       true,
	"unlisted":      true,
	"not available": true,
	"not specified": true,
}

func isMissing(s string) bool {
	return missingMarkers[strings.ToLower(strings.TrimSpace(s))]
}

// String returns the first usable value among keys, or NotAvailable.
func (r Raw) String(keys ...string) string {
	return r.StringOr(models.NotAvailable, keys...)
}

// StringOr returns the first usable value among keys, or def.
func (r Raw) StringOr(def string, keys ...string) string {
	for _, k := range keys {
		if s, ok := stringify(r[k]); ok {
			return s
		}
	}
	return def
}

func stringify(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if isMissing(s) {
			return "", false
		}
		return s, true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case []interface{}:
		parts := stringsOf(t)
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, ", "), true
	default:
		return "", false
	}
}

// Strings accepts a JSON array or a comma-delimited string. The result is
// never nil.
func (r Raw) Strings(keys ...string) []string {
	for _, k := range keys {
		switch t := r[k].(type) {
		case []interface{}:
			if out := stringsOf(t); len(out) > 0 {
				return out
			}
		case string:
			var out []string
			for _, p := range strings.Split(t, ",") {
				if !isMissing(p) {
					out = append(out, strings.TrimSpace(p))
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return []string{}
}

func stringsOf(items []interface{}) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, nested := item.([]interface{}); nested {
			continue
		}
		if s, ok := stringify(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// Score reads a confidence in [0,1]. Percentages (1 < v <= 100) are scaled
// down, numeric strings are accepted, anything else is 0.
func (r Raw) Score(keys ...string) float64 {
	v, ok := r.number(keys...)
	if !ok {
		return 0
	}
	if v > 1 && v <= 100 {
		v /= 100
	}
	return math.Max(0, math.Min(1, v))
}

// Number reads a plain number, or 0.
func (r Raw) Number(keys ...string) float64 {
	v, _ := r.number(keys...)
	return v
}

func (r Raw) number(keys ...string) (float64, bool) {
	for _, k := range keys {
		switch t := r[k].(type) {
		case float64:
			if !math.IsNaN(t) && !math.IsInf(t, 0) {
				return t, true
			}
		case string:
			s := strings.TrimSuffix(strings.TrimSpace(t), "%")
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
				return f, true
			}
		}
	}
	return 0, false
}

func (r Raw) Bool(keys ...string) bool {
	for _, k := range keys {
		switch t := r[k].(type) {
		case bool:
			return t
		case float64:
			return t != 0
		case string:
			switch strings.ToLower(strings.TrimSpace(t)) {
			case "true", "yes", "y", "verified":
				return true
			case "false", "no", "n", "unverified":
				return false
			}
		}
	}
	return false
}

// Objects returns the object elements of an array field.
func (r Raw) Objects(keys ...string) []Raw {
	for _, k := range keys {
		items, ok := r[k].([]interface{})
		if !ok {
			continue
		}
		out := make([]Raw, 0, len(items))
		for _, item := range items {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, Raw(m))
			}
		}
		return out
	}
	return []Raw{}
}
