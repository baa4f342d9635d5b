package template

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"

	"github.com/goldirana/agentforge/pkg/schema"
)

// markerFileName matches the generation record written after a successful
// run; its presence means a project already lives at the target.
const markerFileName = ".agentforge.yaml"

// renderDataSchema guards the answer map rendered into template files.
var renderDataSchema = &schema.Schema{
	"type":     "object",
	"required": []string{"project_name", "project_slug", "python_version", "venv_name"},
	"properties": map[string]any{
		"project_name":      map[string]any{"type": "string", "minLength": 1},
		"project_slug":      map[string]any{"type": "string", "minLength": 1},
		"python_version":    map[string]any{"type": "string", "pattern": `^\d+\.\d+$`},
		"venv_name":         map[string]any{"type": "string", "minLength": 1},
		"create_virtualenv": map[string]any{"type": "boolean"},
		"git_init":          map[string]any{"type": "boolean"},
	},
}

type generator struct {
	registry *registry
}

func newGenerator() *generator {
	return &generator{registry: globalRegistry}
}

// Generate materializes a registered template into opts.Path. Render data is
// validated before anything touches the disk, so a bad answer set cannot
// leave a half-scaffolded directory behind.
func (g *generator) Generate(templateName string, opts *GenerateOptions) error {
	tmpl, err := g.registry.get(templateName)
	if err != nil {
		return fmt.Errorf("failed to get template: %w", err)
	}
	if err := g.guardExisting(opts); err != nil {
		return err
	}
	data := tmpl.GetProjectConfig(opts)
	if err := g.validateRenderData(opts, data); err != nil {
		return err
	}
	if err := os.MkdirAll(opts.Path, 0o755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	for _, dir := range tmpl.GetDirectories() {
		if err := os.MkdirAll(filepath.Join(opts.Path, dir), 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	rawPatterns := tmpl.GetRawPatterns()
	for _, file := range tmpl.GetFiles() {
		if err := g.createFile(opts, file, data, rawPatterns); err != nil {
			return fmt.Errorf("failed to create file %s: %w", file.Name, err)
		}
	}
	return nil
}

// guardExisting aborts when a previous run's record is present and the
// caller did not ask for an overwrite.
func (g *generator) guardExisting(opts *GenerateOptions) error {
	if opts.Overwrite {
		return nil
	}
	if _, err := os.Stat(filepath.Join(opts.Path, markerFileName)); err == nil {
		return fmt.Errorf("project already exists at %s (found %s)", opts.Path, markerFileName)
	}
	return nil
}

// validateRenderData checks map-shaped template data against the answer
// schema; non-map configs are template-specific and pass through.
func (g *generator) validateRenderData(opts *GenerateOptions, data any) error {
	m, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	if _, err := renderDataSchema.Validate(opts.Context, m); err != nil {
		return fmt.Errorf("invalid template data: %w", err)
	}
	return nil
}

// yamlNeedsQuoting reports whether a scalar would change meaning if emitted
// bare into a YAML document.
func yamlNeedsQuoting(s string) bool {
	if s == "" || strings.ContainsAny(s, "\"'\\:\n\r\t|>{}[]!#@*&") {
		return true
	}
	if strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		return true
	}
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no", "on", "off", "null", "~":
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	return false
}

// yamlEscape double-quotes values that YAML would otherwise reinterpret.
// Exposed to template files as the yamlEscape function.
func yamlEscape(s string) string {
	if !yamlNeedsQuoting(s) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// templateFuncs returns the sprig function map extended with the escape
// helpers template files rely on.
func templateFuncs() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["jsEscape"] = template.JSEscapeString
	funcs["htmlEscape"] = html.EscapeString
	funcs["yamlEscape"] = yamlEscape
	return funcs
}

func parseTemplate(name, content string) (*template.Template, error) {
	return template.New(name).
		Funcs(templateFuncs()).
		Option("missingkey=error").
		Parse(content)
}

// renderFileName resolves template expressions inside a file name before any
// path safety checks run.
func renderFileName(name string, data any) (string, error) {
	if !strings.Contains(name, "{{") {
		return name, nil
	}
	tmpl, err := parseTemplate("filename", name)
	if err != nil {
		return "", fmt.Errorf("failed to parse file name template: %w", err)
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render file name %s: %w", name, err)
	}
	return buf.String(), nil
}

// isRawFile reports whether the rendered name matches a raw-copy pattern.
func isRawFile(name string, patterns []string) bool {
	slashName := filepath.ToSlash(name)
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, slashName); err == nil && matched {
			return true
		}
	}
	return false
}

// isTextContent walks the detected MIME hierarchy; anything outside the
// text/plain ancestry is copied verbatim instead of rendered.
func isTextContent(content []byte) bool {
	if len(content) == 0 {
		return true
	}
	for mtype := mimetype.Detect(content); mtype != nil; mtype = mtype.Parent() {
		if mtype.Is("text/plain") {
			return true
		}
	}
	return false
}

// createFile renders a single template file into the project directory.
func (g *generator) createFile(opts *GenerateOptions, file File, data any, rawPatterns []string) error {
	name, err := renderFileName(file.Name, data)
	if err != nil {
		return err
	}
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) || strings.Contains(clean, "..") {
		return fmt.Errorf("invalid file name: %s escapes the project directory", name)
	}
	target := filepath.Join(opts.Path, clean)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", clean, err)
	}
	if isRawFile(clean, rawPatterns) || !isTextContent([]byte(file.Content)) {
		return writeProjectFile(target, []byte(file.Content), file.Permissions)
	}
	tmpl, err := parseTemplate(clean, file.Content)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	// Files a user plausibly maintains by hand get collision handling
	// instead of a blind replace.
	if !opts.Overwrite {
		switch clean {
		case ".gitignore":
			if _, err := os.Stat(target); err == nil {
				return appendGitignore(target, tmpl, data)
			}
		case "env.example":
			if _, err := os.Stat(target); err == nil {
				target = filepath.Join(opts.Path, "env-agentforge.example")
			}
		}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", clean, err)
	}
	return writeProjectFile(target, buf.Bytes(), file.Permissions)
}

// appendGitignore renders the template's ignore rules under a marker comment
// at the end of the user's existing file.
func appendGitignore(path string, tmpl *template.Template, data any) error {
	var buf strings.Builder
	buf.WriteString("\n# Added by Agentforge\n")
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render .gitignore additions: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open .gitignore for appending: %w", err)
	}
	if _, err := f.WriteString(buf.String()); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to .gitignore: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close .gitignore: %w", err)
	}
	return nil
}

// writeProjectFile writes fully materialized content. WriteFile's mode is
// masked by the umask, so explicit permission bits are applied with Chmod.
func writeProjectFile(path string, content []byte, perms os.FileMode) error {
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if perms != 0 {
		if err := os.Chmod(path, perms); err != nil {
			return fmt.Errorf("failed to set permissions: %w", err)
		}
	}
	return nil
}
