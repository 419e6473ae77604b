package bundle

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const documentSchemaURL = "schema://model-bundle.json"

// documentSchema describes the on-disk artifact. Feature-set rules are not
// expressed here: a wrong feature set must surface as ErrSchemaMismatch.
var documentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"version": map[string]any{
			"type":        "string",
			"description": "Semantic version of the bundle, e.g. v1.2.0",
		},
		"description": map[string]any{
			"type": "string",
		},
		"features": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"description": "Feature names in the classifier's column order",
		},
		"threshold": map[string]any{
			"type":    "number",
			"minimum": 0,
			"maximum": 1,
		},
		"model": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"type": map[string]any{
					"type": "string",
					"enum": []any{modelTypeLogistic},
				},
				"intercept": map[string]any{
					"type": "number",
				},
				"coefficients": numberArray,
				"scaler": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"mean":  numberArray,
						"scale": numberArray,
					},
					"required":             []any{"mean", "scale"},
					"additionalProperties": false,
				},
			},
			"required":             []any{"type", "intercept", "coefficients"},
			"additionalProperties": false,
		},
	},
	"required": []any{"features", "model"},
}

var numberArray = map[string]any{
	"type":     "array",
	"minItems": 1,
	"items": map[string]any{
		"type": "number",
	},
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	// The compiler wants a decoded JSON value, not Go maps with int literals.
	raw, err := json.Marshal(documentSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(documentSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(documentSchemaURL)
})

// validateDocument checks raw artifact JSON against documentSchema.
func validateDocument(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile bundle schema: %w", err)
	}
	if err := sch.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
