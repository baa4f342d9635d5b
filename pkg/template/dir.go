package template

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/goldirana/agentforge/pkg/schema"
)

// ManifestFileName is the manifest every template directory carries at its
// root. It declares the template identity plus the directory and raw-copy
// lists that embedded templates declare in code.
const ManifestFileName = "template.yaml"

// manifestSchema guards the manifest before it is decoded.
var manifestSchema = &schema.Schema{
	"type": "object",
	"properties": map[string]any{
		"name":         map[string]any{"type": "string", "minLength": 1},
		"description":  map[string]any{"type": "string"},
		"author":       map[string]any{"type": "string"},
		"version":      map[string]any{"type": "string"},
		"directories":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"raw_patterns": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	},
	"required": []any{"name"},
}

// manifest mirrors template.yaml.
type manifest struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Author      string   `yaml:"author"`
	Version     string   `yaml:"version"`
	Directories []string `yaml:"directories"`
	RawPatterns []string `yaml:"raw_patterns"`
}

// skippedDirs are never part of a directory template's file set.
var skippedDirs = map[string]bool{
	".git":        true,
	".idea":       true,
	".vscode":     true,
	"__pycache__": true,
}

// DirTemplate is a Template backed by a directory on disk. Template authors
// edit the directory and the dev loop calls Reload before each re-render, so
// GetFiles always serves the latest tree.
type DirTemplate struct {
	dir string

	mu       sync.RWMutex
	meta     Metadata
	files    []File
	dirs     []string
	rawGlobs []string
}

// LoadDir reads a template directory and its manifest.
func LoadDir(ctx context.Context, dir string) (*DirTemplate, error) {
	t := &DirTemplate{dir: dir}
	if err := t.Reload(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Dir returns the directory the template is loaded from.
func (t *DirTemplate) Dir() string {
	return t.dir
}

// Reload re-reads the manifest and the file tree from disk.
func (t *DirTemplate) Reload(ctx context.Context) error {
	m, err := t.readManifest(ctx)
	if err != nil {
		return err
	}
	files, err := t.collectFiles()
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.meta = Metadata{
		Name:        m.Name,
		Description: m.Description,
		Author:      m.Author,
		Version:     m.Version,
	}
	t.files = files
	t.dirs = append([]string(nil), m.Directories...)
	t.rawGlobs = append([]string(nil), m.RawPatterns...)
	return nil
}

// GetMetadata returns template information
func (t *DirTemplate) GetMetadata() Metadata {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.meta
}

// GetFiles returns all template files
func (t *DirTemplate) GetFiles() []File {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]File(nil), t.files...)
}

// GetDirectories returns required directories
func (t *DirTemplate) GetDirectories() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.dirs...)
}

// GetRawPatterns returns patterns copied verbatim
func (t *DirTemplate) GetRawPatterns() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.rawGlobs...)
}

// GetProjectConfig generates the render data for every file
func (t *DirTemplate) GetProjectConfig(opts *GenerateOptions) any {
	return opts.RenderData(t.GetMetadata().Name)
}

func (t *DirTemplate) readManifest(ctx context.Context) (*manifest, error) {
	path := filepath.Join(t.dir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("template directory %s has no %s manifest", t.dir, ManifestFileName)
		}
		return nil, fmt.Errorf("failed to read template manifest %s: %w", path, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse template manifest %s: %w", path, err)
	}
	if _, err := manifestSchema.Validate(ctx, raw); err != nil {
		return nil, fmt.Errorf("template manifest %s: %w", path, err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode template manifest %s: %w", path, err)
	}
	return &m, nil
}

// collectFiles walks the template directory. Every regular file except the
// manifest becomes a template file named by its slash-separated relative
// path, so file names can carry template expressions the same way embedded
// templates do.
func (t *DirTemplate) collectFiles() ([]File, error) {
	var files []File
	err := filepath.WalkDir(t.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] && path != t.dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(t.dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if name == ManifestFileName || name == markerFileName {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, File{
			Name:        name,
			Content:     string(content),
			Permissions: info.Mode().Perm(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk template directory %s: %w", t.dir, err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
