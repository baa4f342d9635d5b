package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidate(t *testing.T) {
	recordSchema := &Schema{
		"type": "object",
		"properties": map[string]any{
			"project_name": map[string]any{"type": "string", "minLength": 1},
			"python_version": map[string]any{
				"type":    "string",
				"pattern": `^\d+\.\d+$`,
			},
			"create_virtualenv": map[string]any{"type": "boolean"},
		},
		"required": []any{"project_name", "python_version"},
	}

	t.Run("Should accept a conforming document", func(t *testing.T) {
		result, err := recordSchema.Validate(context.Background(), map[string]any{
			"project_name":      "Agent Backend",
			"python_version":    "3.12",
			"create_virtualenv": true,
		})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.Valid)
	})

	t.Run("Should reject a missing required property", func(t *testing.T) {
		_, err := recordSchema.Validate(context.Background(), map[string]any{
			"project_name": "Agent Backend",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema validation failed")
	})

	t.Run("Should reject a version without a minor component", func(t *testing.T) {
		_, err := recordSchema.Validate(context.Background(), map[string]any{
			"project_name":   "Agent Backend",
			"python_version": "3",
		})
		require.Error(t, err)
	})

	t.Run("Should pass through nil schema", func(t *testing.T) {
		var s *Schema
		result, err := s.Validate(context.Background(), map[string]any{"anything": 1})
		require.NoError(t, err)
		assert.Nil(t, result)
	})
}

func TestSchemaCompile(t *testing.T) {
	t.Run("Should compile a valid schema", func(t *testing.T) {
		s := &Schema{"type": "object"}
		compiled, err := s.Compile()
		require.NoError(t, err)
		assert.NotNil(t, compiled)
	})

	t.Run("Should return nil for nil schema", func(t *testing.T) {
		var s *Schema
		compiled, err := s.Compile()
		require.NoError(t, err)
		assert.Nil(t, compiled)
	})
}

func TestCompositeValidator(t *testing.T) {
	t.Run("Should run validators in order and stop at first failure", func(t *testing.T) {
		calls := []string{}
		first := validatorFunc(func(context.Context) error {
			calls = append(calls, "first")
			return nil
		})
		second := validatorFunc(func(context.Context) error {
			calls = append(calls, "second")
			return assert.AnError
		})
		third := validatorFunc(func(context.Context) error {
			calls = append(calls, "third")
			return nil
		})

		v := NewCompositeValidator(first, second)
		v.AddValidator(third)

		err := v.Validate(context.Background())
		require.Error(t, err)
		assert.Equal(t, []string{"first", "second"}, calls)
	})

	t.Run("Should succeed with no validators", func(t *testing.T) {
		v := NewCompositeValidator()
		assert.NoError(t, v.Validate(context.Background()))
	})
}

func TestStructValidator(t *testing.T) {
	type answers struct {
		Name string `validate:"required"`
	}

	t.Run("Should validate struct tags", func(t *testing.T) {
		assert.NoError(t, NewStructValidator(&answers{Name: "backend"}).Validate(context.Background()))
		assert.Error(t, NewStructValidator(&answers{}).Validate(context.Background()))
	})
}

type validatorFunc func(ctx context.Context) error

func (f validatorFunc) Validate(ctx context.Context) error { return f(ctx) }
