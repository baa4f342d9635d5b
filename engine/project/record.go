package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"
	"github.com/goldirana/agentforge/pkg/schema"
	"github.com/goldirana/agentforge/pkg/tplengine"
	"github.com/google/uuid"
)

// RecordFileName is the answers file written at the root of every generated
// project. Its presence marks a directory as agentforge-generated.
const RecordFileName = ".agentforge.yaml"

// recordSchema validates the persisted shape of a generation record before
// it is decoded. GeneratedAt is deliberately unconstrained; YAML decoders
// disagree on timestamp representations.
var recordSchema = &schema.Schema{
	"type": "object",
	"properties": map[string]any{
		"id":       map[string]any{"type": "string", "minLength": 1},
		"template": map[string]any{"type": "string", "minLength": 1},
		"version":  map[string]any{"type": "string"},
		"answers": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"project_name":      map[string]any{"type": "string", "minLength": 1},
				"project_slug":      map[string]any{"type": "string", "minLength": 1},
				"python_version":    map[string]any{"type": "string", "pattern": `^\d+\.\d+$`},
				"create_virtualenv": map[string]any{"type": "boolean"},
				"venv_name":         map[string]any{"type": "string", "minLength": 1},
			},
			"required": []any{"project_name", "project_slug", "python_version", "venv_name"},
		},
	},
	"required": []any{"id", "template", "answers"},
}

// Record is the generation record persisted as .agentforge.yaml. It carries
// everything needed to re-render the project with the same answers.
type Record struct {
	// ID uniquely identifies one generation run.
	ID string `json:"id"           yaml:"id"           mapstructure:"id"           validate:"required,uuid4"`

	// Template names the template the project was rendered from.
	Template string `json:"template"     yaml:"template"     mapstructure:"template"     validate:"required"`

	// Version is the agentforge build that performed the generation.
	Version string `json:"version"      yaml:"version"      mapstructure:"version"`

	// GeneratedAt is the UTC time of the generation.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at" mapstructure:"generated_at"`

	// Answers holds the template context values the generation rendered from.
	Answers map[string]any `json:"answers"      yaml:"answers"      mapstructure:"answers"      validate:"required"`
}

// NewRecord creates a record for a finished generation.
func NewRecord(templateName, version string, tplCtx *Context) *Record {
	return &Record{
		ID:          uuid.NewString(),
		Template:    templateName,
		Version:     version,
		GeneratedAt: time.Now().UTC(),
		Answers:     tplCtx.AsMap(),
	}
}

// Validate checks the record's structural requirements.
func (r *Record) Validate(ctx context.Context) error {
	if r == nil {
		return fmt.Errorf("generation record cannot be nil")
	}
	if err := schema.NewStructValidator(r).Validate(ctx); err != nil {
		return fmt.Errorf("invalid generation record: %w", err)
	}
	return nil
}

// Write persists the record at the root of the generated project.
func (r *Record) Write(ctx context.Context, projectDir string) error {
	if err := r.Validate(ctx); err != nil {
		return err
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal generation record: %w", err)
	}
	path := filepath.Join(projectDir, RecordFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write generation record %s: %w", path, err)
	}
	return nil
}

// LoadRecord reads and validates the generation record of a project directory.
func LoadRecord(ctx context.Context, projectDir string) (*Record, error) {
	path := filepath.Join(projectDir, RecordFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no generation record found at %s", path)
		}
		return nil, fmt.Errorf("failed to read generation record %s: %w", path, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse generation record %s: %w", path, err)
	}
	if _, err := recordSchema.Validate(ctx, raw); err != nil {
		return nil, fmt.Errorf("generation record %s: %w", path, err)
	}
	var record Record
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode generation record %s: %w", path, err)
	}
	return &record, nil
}

// TemplateContext rebuilds the template context from the recorded answers.
// Answer values may reference each other with template markers; they are
// resolved against the answers map before decoding.
func (r *Record) TemplateContext() (*Context, error) {
	engine := tplengine.NewEngine()
	resolved, err := engine.Resolve(r.Answers, r.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recorded answers: %w", err)
	}
	answers, ok := resolved.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("recorded answers are not a mapping")
	}
	var tplCtx Context
	if err := mapstructure.Decode(answers, &tplCtx); err != nil {
		return nil, fmt.Errorf("failed to decode recorded answers: %w", err)
	}
	return &tplCtx, nil
}
