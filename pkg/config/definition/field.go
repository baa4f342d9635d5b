// Package definition declares every configuration field once, with its
// default, flag, environment binding and help text. The loader, the flag
// registration and the env mapping all read from this registry instead of
// keeping their own lists.
package definition

import "reflect"

// FieldDef describes a single configuration field.
type FieldDef struct {
	Path      string       // Dot notation path, e.g. "python.version"
	Default   any          // Value used when no source provides one
	CLIFlag   string       // Global flag name, empty when the field has no flag
	Shorthand string       // Single letter flag alias
	EnvVar    string       // Environment variable bound to the field
	Type      reflect.Type // Go type, drives flag registration
	Help      string       // Flag and documentation help text
}

// Registry indexes field definitions by path.
type Registry struct {
	fields map[string]FieldDef
}

// NewRegistry creates an empty field registry.
func NewRegistry() *Registry {
	return &Registry{fields: make(map[string]FieldDef)}
}

// Register adds a field definition, replacing any previous one at the same
// path.
func (r *Registry) Register(field *FieldDef) {
	r.fields[field.Path] = *field
}

// GetDefault returns the default value recorded for path, or nil when the
// path is unknown.
func (r *Registry) GetDefault(path string) any {
	field, ok := r.fields[path]
	if !ok {
		return nil
	}
	return field.Default
}

// GetAllFields returns a copy of every registered field keyed by path.
func (r *Registry) GetAllFields() map[string]FieldDef {
	result := make(map[string]FieldDef, len(r.fields))
	for path, field := range r.fields {
		result[path] = field
	}
	return result
}

// GetCLIFlagMapping returns flag names mapped to their configuration paths,
// covering only fields that declare a flag.
func (r *Registry) GetCLIFlagMapping() map[string]string {
	flagToPath := make(map[string]string)
	for path, field := range r.fields {
		if field.CLIFlag == "" {
			continue
		}
		flagToPath[field.CLIFlag] = path
	}
	return flagToPath
}
