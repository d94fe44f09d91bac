package server

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// bankSchema describes the authored module bank shape. The server
// refuses to start on a bank that does not validate.
var bankSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"modules": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":      map[string]any{"type": "string", "minLength": 1},
					"title":   map[string]any{"type": "string", "minLength": 1},
					"summary": map[string]any{"type": "string"},
					"content": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"type": map[string]any{
									"type": "string",
									"enum": []any{"p", "ul", "tip"},
								},
								"text":  map[string]any{"type": "string"},
								"items": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
							},
							"required": []any{"type"},
						},
					},
					"quiz": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"id":       map[string]any{"type": "string", "minLength": 1},
								"question": map[string]any{"type": "string", "minLength": 1},
								"options": map[string]any{
									"type":     "array",
									"items":    map[string]any{"type": "string"},
									"minItems": 2,
								},
								"answer":      map[string]any{"type": "integer", "minimum": 0},
								"explanation": map[string]any{"type": "string"},
							},
							"required":             []any{"id", "question", "options", "answer"},
							"additionalProperties": false,
						},
					},
				},
				"required": []any{"id", "title", "content"},
			},
		},
	},
	"required": []any{"modules"},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// validateBank checks raw JSON against the bank schema.
func validateBank(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := getCompiledSchema()
	if err != nil {
		return fmt.Errorf("compile bank schema: %w", err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func getCompiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value, not raw
		// bytes. Marshal then unmarshal to get a clean representation.
		defBytes, err := json.Marshal(bankSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://module-bank.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}
