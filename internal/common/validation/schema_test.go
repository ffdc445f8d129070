package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var querySchema = MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"state"},
	"properties": map[string]interface{}{
		"state": NonBlankString(),
		"year":  map[string]interface{}{"type": "string", "pattern": `^\d{4}$`},
	},
})

func TestSchema_Validate(t *testing.T) {
	tests := []struct {
		name      string
		doc       map[string]interface{}
		valid     bool
		wantField string
	}{
		{"valid", map[string]interface{}{"state": "Kerala", "year": "2025"}, true, ""},
		{"missing state", map[string]interface{}{"year": "2025"}, false, "(root)"},
		{"blank state", map[string]interface{}{"state": "   "}, false, "state"},
		{"bad year", map[string]interface{}{"state": "Kerala", "year": "25"}, false, "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := querySchema.Validate(tt.doc)
			assert.Equal(t, tt.valid, res.Valid)
			if tt.valid {
				assert.Empty(t, res.Summary())
				return
			}
			require.NotEmpty(t, res.Errors)
			assert.Equal(t, tt.wantField, res.Errors[0].Field)
			assert.Contains(t, res.Summary(), tt.wantField)
		})
	}
}

func TestCompile_RejectsBadSchema(t *testing.T) {
	_, err := Compile(map[string]interface{}{"type": 42})
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile(map[string]interface{}{"type": 42}) })
}
