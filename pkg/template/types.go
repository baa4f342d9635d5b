package template

import (
	"context"
	"fmt"
	"os"
)

// DefaultPythonVersion is used when generation options omit a version.
const DefaultPythonVersion = "3.12"

// DefaultVenvName is used when generation options omit an environment name.
const DefaultVenvName = ".venv"

// Template supplies everything generation needs: descriptive metadata, the
// file set, required empty directories and the raw-copy patterns that must
// never pass through the render engine. Implementations register themselves
// into the global registry.
type Template interface {
	GetMetadata() Metadata
	GetFiles() []File
	GetDirectories() []string
	// GetRawPatterns returns doublestar globs for files copied verbatim.
	GetRawPatterns() []string
	// GetProjectConfig produces the data rendered into every file.
	GetProjectConfig(opts *GenerateOptions) any
}

// Metadata describes a template in listings and the template picker.
type Metadata struct {
	Name        string // registry key, kebab-case
	Description string
	Author      string
	Version     string
}

// File is one generated file. Name may itself contain template expressions
// and is rendered before any path checks.
type File struct {
	Name        string
	Content     string
	Permissions os.FileMode // applied with Chmod when non-zero
}

// GenerateOptions contains configuration for template-based project
// generation. The string fields mirror the recorded answer set so a project
// can be re-rendered from its generation record.
type GenerateOptions struct {
	Context          context.Context // Execution context for logging and cancellation
	Path             string          // Target directory that receives the generated files
	Name             string          // Project name used across generated assets
	Slug             string          // Project slug used for package paths and identifiers
	Description      string          // Project description for documentation and metadata
	Author           string          // Author name for README and metadata files
	PythonVersion    string          // Interpreter version requested for the project
	VenvName         string          // Virtual environment directory name
	CreateVirtualenv bool            // Whether the bootstrap should provision a venv
	GitInit          bool            // Whether the project should be committed to git
	Overwrite        bool            // Re-render into an existing project (dev loop)
}

// RenderData returns the snake_case answer map every template file is
// rendered against. Keys match the generation record so re-renders resolve
// identically.
func (o *GenerateOptions) RenderData(templateName string) map[string]any {
	return map[string]any{
		"project_name":      o.Name,
		"project_slug":      o.Slug,
		"description":       o.Description,
		"author_name":       o.Author,
		"python_version":    o.PythonVersion,
		"create_virtualenv": o.CreateVirtualenv,
		"venv_name":         o.VenvName,
		"git_init":          o.GitInit,
		"template":          templateName,
	}
}

// applyDefaults fills the optional fields generation can run without.
func (o *GenerateOptions) applyDefaults() {
	if o.PythonVersion == "" {
		o.PythonVersion = DefaultPythonVersion
	}
	if o.VenvName == "" {
		o.VenvName = DefaultVenvName
	}
}

func (o *GenerateOptions) validate() error {
	if o == nil {
		return fmt.Errorf("generate options cannot be nil")
	}
	if o.Context == nil {
		return fmt.Errorf("generate options context cannot be nil")
	}
	if o.Path == "" {
		return fmt.Errorf("target path cannot be empty")
	}
	if o.Name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if o.Slug == "" {
		return fmt.Errorf("project slug cannot be empty")
	}
	return nil
}

// Service is the registry-backed API the CLI commands consume.
type Service interface {
	// Register adds template under name, rejecting duplicates.
	Register(name string, template Template) error
	// Get returns the named template.
	Get(name string) (Template, error)
	// List returns the metadata of every registered template, sorted by name.
	List() []Metadata
	// Generate renders the named template with opts.
	Generate(templateName string, opts *GenerateOptions) error
}
