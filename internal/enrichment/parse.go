package enrichment

import (
	"encoding/json"
	"fmt"
	"strings"
)

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag line
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseItems decodes a model answer into objects. A bare object becomes a
// one-element list unless it carries one of listKeys, which must then hold
// an array. A non-empty array without a single object is an error; an empty
// one is not.
func parseItems(text string, listKeys []string) ([]Raw, error) {
	var doc interface{}
	if err := json.Unmarshal([]byte(stripFences(text)), &doc); err != nil {
		return nil, err
	}

	switch t := doc.(type) {
	case []interface{}:
		return objectsOf(t)
	case map[string]interface{}:
		for _, k := range listKeys {
			v, present := t[k]
			if !present {
				continue
			}
			inner, ok := v.([]interface{})
			if !ok {
				return nil, fmt.Errorf("list key %q holds %T, not an array", k, v)
			}
			return objectsOf(inner)
		}
		return []Raw{Raw(t)}, nil
	default:
		return nil, fmt.Errorf("expected a JSON object or array, got %T", doc)
	}
}

func objectsOf(items []interface{}) ([]Raw, error) {
	out := make([]Raw, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, Raw(m))
		}
	}
	if len(items) > 0 && len(out) == 0 {
		return nil, fmt.Errorf("array of %d items holds no objects", len(items))
	}
	return out, nil
}
