// Package schema wraps JSON Schema validation for the YAML documents the
// CLI reads and writes: template manifests, generation records and the
// render data handed to the template engine.
package schema

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonschema"
)

// Schema is a JSON Schema document in map form, declared inline next to the
// data it guards.
type Schema map[string]any

// Result carries the evaluation outcome of a Validate call.
type Result = jsonschema.EvaluationResult

// Compile materializes the document into an evaluatable schema. A nil
// schema compiles to nil, meaning no constraints.
func (s *Schema) Compile() (*jsonschema.Schema, error) {
	if s == nil {
		return nil, nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	compiled, err := jsonschema.NewCompiler().Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return compiled, nil
}

// Validate evaluates value against the schema. A nil schema accepts
// anything and returns a nil result.
func (s *Schema) Validate(_ context.Context, value any) (*Result, error) {
	compiled, err := s.Compile()
	if err != nil {
		return nil, err
	}
	if compiled == nil {
		return nil, nil
	}
	result := compiled.Validate(value)
	if !result.Valid {
		return nil, fmt.Errorf("schema validation failed: %v", result.Errors)
	}
	return result, nil
}
