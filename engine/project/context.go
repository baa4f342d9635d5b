package project

import (
	"context"
	"fmt"

	"github.com/goldirana/agentforge/pkg/schema"
	"github.com/mohae/deepcopy"
)

// Context carries every answer a generation renders from. It is assembled
// once, before the pre-check gate runs, and is treated as read-only from
// then on: consumers that need to hold it take a Clone so no step can
// mutate what a later step observes.
type Context struct {
	// ProjectName is the human-readable project name, e.g. "Agent Backend".
	ProjectName string `json:"project_name"      yaml:"project_name"      mapstructure:"project_name"      validate:"required"`

	// ProjectSlug is the directory-safe form of the name; it becomes the
	// generated project's root directory.
	ProjectSlug string `json:"project_slug"      yaml:"project_slug"      mapstructure:"project_slug"      validate:"required"`

	// Description is used in the generated README and server metadata.
	Description string `json:"description"       yaml:"description"       mapstructure:"description"`

	// AuthorName is used in the generated README.
	AuthorName string `json:"author_name"       yaml:"author_name"       mapstructure:"author_name"`

	// PythonVersion is the requested interpreter version as "<major>.<minor>".
	// The pre-check gate rejects anything else before files are written.
	PythonVersion string `json:"python_version"    yaml:"python_version"    mapstructure:"python_version"    validate:"required"`

	// CreateVirtualenv controls whether the bootstrap discovers an
	// interpreter and creates a virtual environment.
	CreateVirtualenv bool `json:"create_virtualenv" yaml:"create_virtualenv" mapstructure:"create_virtualenv"`

	// VenvName is the virtual environment path, relative to the generated
	// project unless absolute; "~" expands to the user's home.
	VenvName string `json:"venv_name"         yaml:"venv_name"         mapstructure:"venv_name"         validate:"required"`

	// GitInit controls whether a git repository is initialized after a
	// successful bootstrap.
	GitInit bool `json:"git_init"          yaml:"git_init"          mapstructure:"git_init"`

	// Template names the registered template the project renders from.
	Template string `json:"template"          yaml:"template"          mapstructure:"template"          validate:"required"`
}

// Clone returns a deep copy of the context.
func (c *Context) Clone() (*Context, error) {
	if c == nil {
		return nil, nil
	}
	copied := deepcopy.Copy(c)
	clone, ok := copied.(*Context)
	if !ok {
		return nil, fmt.Errorf("failed to clone template context")
	}
	return clone, nil
}

// AsMap returns the context as the flat answers mapping templates render
// against and the generation record persists.
func (c *Context) AsMap() map[string]any {
	return map[string]any{
		"project_name":      c.ProjectName,
		"project_slug":      c.ProjectSlug,
		"description":       c.Description,
		"author_name":       c.AuthorName,
		"python_version":    c.PythonVersion,
		"create_virtualenv": c.CreateVirtualenv,
		"venv_name":         c.VenvName,
		"git_init":          c.GitInit,
		"template":          c.Template,
	}
}

// Validate checks the structural requirements of the context. The version
// gate has its own validator; see Precheck.
func (c *Context) Validate(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("template context cannot be nil")
	}
	if err := schema.NewStructValidator(c).Validate(ctx); err != nil {
		return fmt.Errorf("invalid template context: %w", err)
	}
	return nil
}
