package prompt

import (
	"fmt"
	"strings"

	"college-finder/internal/models"
)

const (
	NotSpecified = "Not Specified"
	Any          = "Any"
)

// Field is one substituted query value. Blank values render as Default.
type Field struct {
	Label   string
	Value   string
	Default string
}

// Required renders a region or identity input, "Not Specified" when blank.
func Required(label, value string) Field {
	return Field{Label: label, Value: value, Default: NotSpecified}
}

// Filter renders an optional narrowing input, "Any" when blank.
func Filter(label, value string) Field {
	return Field{Label: label, Value: value, Default: Any}
}

// List renders a multi-valued input joined with commas.
func List(label string, values []string, def string) Field {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	return Field{Label: label, Value: strings.Join(kept, ","), Default: def}
}

func (f Field) render() string {
	v := strings.TrimSpace(f.Value)
	if v == "" {
		v = f.Default
	}
	return fmt.Sprintf("%s: %s", f.Label, v)
}

// Output field types as they appear in the schema description.
const (
	String     = "string"
	StringList = "string[]"
	Score      = "number (0-1)"
	Number     = "number"
	Boolean    = "boolean"
	// Object marks a Nested field rendered as a single object rather than
	// an object list.
	Object = "object"
)

// SchemaField names one expected output key. Nested describes the element
// shape of an object list.
type SchemaField struct {
	Name   string
	Type   string
	Nested []SchemaField
}

// Template is a per-variant prompt. Inputs are substituted in order and
// every Schema field is listed by name and type.
type Template struct {
	Intro  string
	Inputs []Field
	Schema []SchemaField
	List   bool
	Rules  []string
}

func (t Template) Build() string {
	var parts []string

	parts = append(parts, t.Intro)
	for _, f := range t.Inputs {
		parts = append(parts, f.render())
	}

	parts = append(parts, fmt.Sprintf("\nRequired JSON structure (use %q for missing data):", models.NotAvailable))
	object := renderObject(t.Schema, "")
	if t.List {
		parts = append(parts, "[\n"+indent(object, "  ")+"\n]")
	} else {
		parts = append(parts, object)
	}

	parts = append(parts, "\nRules:")
	parts = append(parts, fmt.Sprintf("- Include every field above. Use %q for any value you cannot find; never omit a field or invent data.", models.NotAvailable))
	if t.List {
		parts = append(parts, "- Return a JSON array. Omit any entry you cannot verify from a real source instead of fabricating it.")
	}
	for _, r := range t.Rules {
		parts = append(parts, "- "+r)
	}

	return strings.Join(parts, "\n")
}

func renderObject(fields []SchemaField, pad string) string {
	lines := []string{"{"}
	for i, f := range fields {
		sep := ","
		if i == len(fields)-1 {
			sep = ""
		}
		if len(f.Nested) > 0 {
			nested := renderObject(f.Nested, pad+"  ")
			if f.Type != Object {
				nested = "[" + nested + "]"
			}
			lines = append(lines, fmt.Sprintf("%s  %q: %s%s", pad, f.Name, nested, sep))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s  %q: %s%s", pad, f.Name, f.Type, sep))
	}
	lines = append(lines, pad+"}")
	return strings.Join(lines, "\n")
}

func indent(s, pad string) string {
	return pad + strings.ReplaceAll(s, "\n", "\n"+pad)
}
