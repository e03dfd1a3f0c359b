package opentdb

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var categoriesSchema = map[string]any{
	"type":     "object",
	"required": []any{"trivia_categories"},
	"properties": map[string]any{
		"trivia_categories": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id", "name"},
				"properties": map[string]any{
					"id":   map[string]any{"type": "integer", "minimum": 0},
					"name": map[string]any{"type": "string", "minLength": 1},
				},
			},
		},
	},
}

var questionsSchema = map[string]any{
	"type":     "object",
	"required": []any{"response_code"},
	"properties": map[string]any{
		"response_code": map[string]any{"type": "integer", "minimum": 0},
		"results": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"question", "correct_answer", "incorrect_answers"},
				"properties": map[string]any{
					"type":           map[string]any{"type": "string", "enum": []any{"multiple", "boolean"}},
					"difficulty":     map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
					"category":       map[string]any{"type": "string"},
					"question":       map[string]any{"type": "string", "minLength": 1},
					"correct_answer": map[string]any{"type": "string", "minLength": 1},
					"incorrect_answers": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"uniqueItems": true,
					},
				},
			},
		},
	},
}

var (
	schemaOnce sync.Once
	compiled   map[string]*jsonschema.Schema
	compileErr error
)

func compileSchemas() {
	defs := map[string]map[string]any{
		"categories": categoriesSchema,
		"questions":  questionsSchema,
	}
	c := jsonschema.NewCompiler()
	for name, def := range defs {
		doc, err := normalize(def)
		if err != nil {
			compileErr = fmt.Errorf("encode schema %s: %w", name, err)
			return
		}
		if err := c.AddResource(schemaURL(name), doc); err != nil {
			compileErr = fmt.Errorf("add schema %s: %w", name, err)
			return
		}
	}
	compiled = make(map[string]*jsonschema.Schema, len(defs))
	for name := range defs {
		s, err := c.Compile(schemaURL(name))
		if err != nil {
			compileErr = fmt.Errorf("compile schema %s: %w", name, err)
			return
		}
		compiled[name] = s
	}
}

// normalize round-trips a Go literal through JSON so the compiler sees
// plain decoded values.
func normalize(def map[string]any) (any, error) {
	b, err := json.Marshal(def)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func schemaURL(name string) string {
	return fmt.Sprintf("schema://opentdb/%s.json", name)
}

// validatePayload checks raw against the named schema.
func validatePayload(name string, raw []byte) error {
	schemaOnce.Do(compileSchemas)
	if compileErr != nil {
		return compileErr
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiled[name].Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
