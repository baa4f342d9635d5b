package tplengine

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Engine renders inline template strings with the sprig function set. It is
// used to resolve answer values that reference other answers, not to render
// template trees on disk.
type Engine struct {
	funcs template.FuncMap
}

// NewEngine creates a new template engine
func NewEngine() *Engine {
	return &Engine{
		funcs: sprig.TxtFuncMap(),
	}
}

// HasTemplate reports whether s contains template markers.
func HasTemplate(s string) bool {
	return strings.Contains(s, "{{")
}

// Render executes the template string against data. Strings without template
// markers come back unchanged. Referencing a key absent from data is an
// error rather than a silent "<no value>".
func (e *Engine) Render(tpl string, data map[string]any) (string, error) {
	if !HasTemplate(tpl) {
		return tpl, nil
	}
	parsed, err := template.New("inline").Option("missingkey=error").Funcs(e.funcs).Parse(tpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}
	if data == nil {
		data = make(map[string]any)
	}
	var buf bytes.Buffer
	if err := parsed.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return buf.String(), nil
}

// Resolve walks value and renders every string carrying template markers
// against data. Maps and slices are rebuilt with their entries resolved;
// every other type passes through untouched.
func (e *Engine) Resolve(value any, data map[string]any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return e.resolveString(v, data)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, entry := range v {
			resolved, err := e.Resolve(entry, data)
			if err != nil {
				return nil, fmt.Errorf("key %s: %w", key, err)
			}
			out[key] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, entry := range v {
			resolved, err := e.Resolve(entry, data)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return v, nil
	}
}

// resolveString renders v and restores boolean results, so a rendered
// create_virtualenv reference stays a bool instead of becoming "true".
func (e *Engine) resolveString(v string, data map[string]any) (any, error) {
	rendered, err := e.Render(v, data)
	if err != nil {
		return nil, err
	}
	switch rendered {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return rendered, nil
}
