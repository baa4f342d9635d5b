package template

import (
	"fmt"
	"sort"
	"sync"
)

// registry holds all registered templates
type registry struct {
	mu        sync.RWMutex
	templates map[string]Template
}

// globalRegistry is the process-wide template registry
var globalRegistry = newRegistry()

func newRegistry() *registry {
	return &registry{templates: make(map[string]Template)}
}

// Register adds a template to the global registry
func Register(name string, tmpl Template) error {
	return globalRegistry.register(name, tmpl)
}

// Replace installs a template under name, shadowing any existing
// registration. The dev loop uses it to point a template name at the
// directory its author is editing.
func Replace(name string, tmpl Template) error {
	return globalRegistry.replace(name, tmpl)
}

func (r *registry) register(name string, tmpl Template) error {
	if name == "" {
		return fmt.Errorf("template name cannot be empty")
	}
	if tmpl == nil {
		return fmt.Errorf("template cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.templates[name]; exists {
		return fmt.Errorf("template %s is already registered", name)
	}
	r.templates[name] = tmpl
	return nil
}

func (r *registry) replace(name string, tmpl Template) error {
	if name == "" {
		return fmt.Errorf("template name cannot be empty")
	}
	if tmpl == nil {
		return fmt.Errorf("template cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[name] = tmpl
	return nil
}

func (r *registry) get(name string) (Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %s not found", name)
	}
	return tmpl, nil
}

func (r *registry) list() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	metas := make([]Metadata, 0, len(r.templates))
	for _, tmpl := range r.templates {
		metas = append(metas, tmpl.GetMetadata())
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Name < metas[j].Name })
	return metas
}
