package content

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var coursesSchema = map[string]any{
	"type":                 "object",
	"required":             []any{"languages"},
	"additionalProperties": false,
	"properties": map[string]any{
		"languages": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":                 "object",
				"required":             []any{"id", "title", "tracked", "lessons"},
				"additionalProperties": false,
				"properties": map[string]any{
					"id":       map[string]any{"type": "string", "minLength": 1},
					"title":    map[string]any{"type": "string", "minLength": 1},
					"subtitle": map[string]any{"type": "string"},
					"tracked":  map[string]any{"type": "boolean"},
					"lessons": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type":                 "object",
							"required":             []any{"id", "title", "body"},
							"additionalProperties": false,
							"properties": map[string]any{
								"id":    map[string]any{"type": "string", "minLength": 1},
								"title": map[string]any{"type": "string", "minLength": 1},
								"body":  map[string]any{"type": "string"},
							},
						},
					},
					"quiz": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":                 "object",
							"required":             []any{"q", "options", "a"},
							"additionalProperties": false,
							"properties": map[string]any{
								"q":       map[string]any{"type": "string", "minLength": 1},
								"options": map[string]any{"type": "array", "minItems": 2, "items": map[string]any{"type": "string"}},
								"a":       map[string]any{"type": "integer", "minimum": 0},
							},
						},
					},
				},
			},
		},
	},
}

var practiceSchema = map[string]any{
	"type": "object",
	"additionalProperties": map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"required":             []any{"id", "title", "difficulty", "prompt", "answer"},
			"additionalProperties": false,
			"properties": map[string]any{
				"id":         map[string]any{"type": "string", "minLength": 1},
				"title":      map[string]any{"type": "string", "minLength": 1},
				"difficulty": map[string]any{"enum": []any{"easy", "medium", "hard"}},
				"prompt":     map[string]any{"type": "string", "minLength": 1},
				"answer":     map[string]any{"type": "string"},
			},
		},
	},
}

func compileSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	// The jsonschema library expects a parsed JSON value (any), not Go maps
	// with typed leaves. Marshal then unmarshal to normalize.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return compiled, nil
}

func validateAgainst(name string, def map[string]any, raw []byte) error {
	compiled, err := compileSchema(name, def)
	if err != nil {
		return fmt.Errorf("schema %q: %w", name, err)
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("parse %s catalog: %w", name, err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("%s catalog invalid: %w", name, err)
	}
	return nil
}

func validateCatalog(courses, practice []byte) error {
	if err := validateAgainst("courses", coursesSchema, courses); err != nil {
		return err
	}
	return validateAgainst("practice", practiceSchema, practice)
}
