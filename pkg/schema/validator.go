package schema

import (
	"context"

	"github.com/go-playground/validator/v10"
)

// Validator is a single validation step run before generation touches the
// disk.
type Validator interface {
	Validate(ctx context.Context) error
}

// CompositeValidator chains validators and stops at the first failure, so
// later steps can assume everything earlier already holds.
type CompositeValidator struct {
	steps []Validator
}

func NewCompositeValidator(steps ...Validator) *CompositeValidator {
	return &CompositeValidator{steps: steps}
}

// AddValidator appends a step to the chain.
func (c *CompositeValidator) AddValidator(step Validator) {
	c.steps = append(c.steps, step)
}

func (c *CompositeValidator) Validate(ctx context.Context) error {
	for _, step := range c.steps {
		if err := step.Validate(ctx); err != nil {
			return err
		}
	}
	return nil
}

// StructValidator checks a value against its validate struct tags.
type StructValidator struct {
	value    any
	validate *validator.Validate
}

func NewStructValidator(value any) *StructValidator {
	return &StructValidator{value: value, validate: validator.New()}
}

func (v *StructValidator) Validate(_ context.Context) error {
	return v.validate.Struct(v.value)
}
