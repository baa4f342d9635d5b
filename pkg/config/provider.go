package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goldirana/agentforge/pkg/config/definition"
)

// cliProvider exposes parsed cobra flag values as a configuration source.
// Only flags the user actually set end up here, so unset flags never shadow
// values from lower-precedence sources.
type cliProvider struct {
	flags map[string]any
}

// NewCLIProvider creates a configuration source from CLI flag values keyed
// by flag name.
func NewCLIProvider(flags map[string]any) Source {
	return &cliProvider{
		flags: flags,
	}
}

// Load translates flag names to configuration paths via the field registry
// and returns the nested result.
func (c *cliProvider) Load() (map[string]any, error) {
	result := make(map[string]any)
	if len(c.flags) == 0 {
		return result, nil
	}
	paths := definition.CreateRegistry().GetCLIFlagMapping()
	for flag, value := range c.flags {
		path, ok := paths[flag]
		if !ok {
			continue
		}
		if err := setNested(result, path, value); err != nil {
			return nil, fmt.Errorf("failed to set CLI flag %s: %w", flag, err)
		}
	}
	return result, nil
}

// Watch is a no-op; flags cannot change while the process runs.
func (c *cliProvider) Watch(_ context.Context, _ func()) error {
	return nil
}

func (c *cliProvider) Type() SourceType {
	return SourceCLI
}

func (c *cliProvider) Close() error {
	return nil
}

// setNested writes value at a dot-notation path, creating intermediate maps
// as needed. A non-map in the middle of the path is a conflict.
func setNested(m map[string]any, path string, value any) error {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	current := m
	for i, part := range parts[:len(parts)-1] {
		child, exists := current[part]
		if !exists {
			next := make(map[string]any)
			current[part] = next
			current = next
			continue
		}
		next, ok := child.(map[string]any)
		if !ok {
			return fmt.Errorf("configuration conflict: key %q is not a map", strings.Join(parts[:i+1], "."))
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
	return nil
}

// yamlProvider reads a YAML configuration file and can watch it for edits.
type yamlProvider struct {
	path      string
	watcher   *Watcher
	watcherMu sync.Mutex
	watchOnce sync.Once
	closeOnce sync.Once
}

// NewYAMLProvider creates a configuration source backed by the YAML file at
// path. A missing file is treated as empty, so a provider can point at a
// config file the user has not created yet.
func NewYAMLProvider(path string) Source {
	return &yamlProvider{
		path: path,
	}
}

func (y *yamlProvider) Load() (map[string]any, error) {
	raw, err := os.ReadFile(y.path)
	if os.IsNotExist(err) {
		return make(map[string]any), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file: %w", err)
	}
	return filterNilValues(doc), nil
}

// filterNilValues strips nil entries so an empty YAML key cannot erase a
// value set by a lower-precedence source. Zero values (false, 0, "") are
// kept because the user wrote them on purpose.
func filterNilValues(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case nil:
		case map[string]any:
			if nested := filterNilValues(val); len(nested) > 0 {
				out[k] = nested
			}
		default:
			out[k] = v
		}
	}
	return out
}

// Watch starts the file watcher on first call and registers callback for
// change notifications. Later calls only add callbacks.
func (y *yamlProvider) Watch(ctx context.Context, callback func()) error {
	if err := y.ensureWatcher(ctx); err != nil {
		return err
	}

	y.watcherMu.Lock()
	defer y.watcherMu.Unlock()
	if y.watcher == nil {
		return nil
	}
	y.watcher.OnChange(callback)
	return nil
}

func (y *yamlProvider) ensureWatcher(ctx context.Context) error {
	var watchErr error
	y.watchOnce.Do(func() {
		w, err := NewWatcher()
		if err != nil {
			watchErr = fmt.Errorf("failed to create watcher: %w", err)
			return
		}
		if err := w.Watch(ctx, y.path); err != nil {
			watchErr = fmt.Errorf("failed to watch YAML file: %w", err)
			return
		}
		y.watcherMu.Lock()
		y.watcher = w
		y.watcherMu.Unlock()
	})
	return watchErr
}

func (y *yamlProvider) Type() SourceType {
	return SourceYAML
}

func (y *yamlProvider) Close() error {
	var err error
	y.closeOnce.Do(func() {
		y.watcherMu.Lock()
		defer y.watcherMu.Unlock()
		if y.watcher == nil {
			return
		}
		err = y.watcher.Close()
		y.watcher = nil
	})
	return err
}
