package r2rconfig

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"r2r/internal/doctype"
)

// Issue is one structural problem found by Lint.
type Issue struct {
	Field   string `json:"field"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return i.Field + ": " + i.Message
}

// Lint checks data against schema and reports every problem at once, unlike
// Validate which stops at the first. Unknown excluded_parsers names are
// reported too.
func Lint(data []byte, schema Schema) ([]Issue, error) {
	if _, err := decodeDocument(data, ""); err != nil {
		return nil, err
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(JSONSchema(schema)))
	if err != nil {
		return nil, fmt.Errorf("CFG_LINT_SCHEMA: %w", err)
	}
	result, err := compiled.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &MalformedJSONError{Err: err}
	}
	issues := make([]Issue, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		issues = append(issues, Issue{Field: e.Field(), Type: e.Type(), Message: e.Description()})
	}
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Field != issues[j].Field {
			return issues[i].Field < issues[j].Field
		}
		return issues[i].Message < issues[j].Message
	})
	return issues, nil
}

// JSONSchema renders schema as a draft-07 JSON Schema document.
func JSONSchema(schema Schema) map[string]any {
	properties := map[string]any{
		SectionApp:    map[string]any{"type": "object"},
		SectionAuth:   map[string]any{"type": "object"},
		SectionCrypto: map[string]any{"type": "object"},
	}
	for _, rule := range schema.rules {
		// Validate lets a null section through when it requires nothing.
		sec := map[string]any{"type": []any{"object", "null"}}
		if len(rule.Keys) > 0 {
			sec["type"] = "object"
			sec["required"] = append([]string(nil), rule.Keys...)
		}
		properties[rule.Name] = sec
	}
	if ingestion, ok := properties[SectionIngestion].(map[string]any); ok {
		name := map[string]any{"type": "string", "pattern": doctypePattern()}
		ingestion["properties"] = map[string]any{
			"excluded_parsers": map[string]any{
				"anyOf": []any{
					map[string]any{"type": "null"},
					name,
					map[string]any{"type": "array", "items": name},
					map[string]any{"type": "object", "propertyNames": name},
				},
			},
		}
	}
	return map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"required":   schema.Sections(),
		"properties": properties,
	}
}

func doctypePattern() string {
	all := doctype.All()
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = t.String()
	}
	return `^\s*(?i:` + strings.Join(names, "|") + `)\s*$`
}
