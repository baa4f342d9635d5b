package components

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/goldirana/agentforge/pkg/template"
)

// pythonVersionPattern mirrors the generation pre-check: exactly
// "<major>.<minor>", nothing else.
var pythonVersionPattern = regexp.MustCompile(`^\d+\.\d+$`)

// ProjectFormData holds the project initialization answers
type ProjectFormData struct {
	Name             string
	Description      string
	Author           string
	PythonVersion    string
	CreateVirtualenv bool
	VenvName         string
	Template         string
	GitInit          bool
}

// NewProjectForm assembles the interactive questionnaire for a new project.
func NewProjectForm(data *ProjectFormData, templates []template.Metadata) *huh.Form {
	setDefaults(data, templates)
	fields := createBaseFields(data)
	fields = append(fields, createTemplateField(data, templates))
	fields = append(fields, createVenvConfirmField(data), createVenvNameField(data))
	fields = append(fields, createGitField(data))
	return huh.NewForm(huh.NewGroup(fields...))
}

// setDefaults fills unanswered fields before the form is shown.
func setDefaults(data *ProjectFormData, templates []template.Metadata) {
	if data.PythonVersion == "" {
		data.PythonVersion = template.DefaultPythonVersion
	}
	if data.VenvName == "" {
		data.VenvName = template.DefaultVenvName
	}
	if !isKnownTemplate(data.Template, templates) && len(templates) > 0 {
		data.Template = templates[0].Name
	}
}

// createBaseFields builds the inputs every project answers regardless of the
// chosen template.
func createBaseFields(data *ProjectFormData) []huh.Field {
	return []huh.Field{
		huh.NewInput().
			Title("Project Name").
			Description("Display name; the project directory uses its slugified form").
			Value(&data.Name).
			Validate(validateProjectName),
		huh.NewInput().
			Title("Description").
			Description("One line recorded in the generated README").
			Value(&data.Description).
			Validate(validateDescription),
		huh.NewInput().
			Title("Author").
			Description("Written into pyproject.toml and the generation record").
			Value(&data.Author),
		huh.NewInput().
			Title("Python Version").
			Description("Interpreter version as <major>.<minor>, for example 3.12").
			Value(&data.PythonVersion).
			Validate(validatePythonVersion),
	}
}

func createTemplateField(data *ProjectFormData, templates []template.Metadata) huh.Field {
	options := make([]huh.Option[string], 0, len(templates))
	help := make(map[string]string, len(templates))
	for _, meta := range templates {
		options = append(options, huh.NewOption(meta.Name, meta.Name))
		help[meta.Name] = fmt.Sprintf("%s (v%s)", meta.Description, meta.Version)
	}
	selectField := huh.NewSelect[string]().
		Title("Template").
		Description(templateHelpText(help, data.Template)).
		Options(options...).
		Value(&data.Template).
		Validate(func(name string) error {
			if _, ok := help[name]; !ok {
				return fmt.Errorf("unknown template: %s", name)
			}
			return nil
		})
	selectField.DescriptionFunc(func() string {
		return templateHelpText(help, data.Template)
	}, data)
	return selectField
}

func createVenvConfirmField(data *ProjectFormData) huh.Field {
	return huh.NewConfirm().
		Title("Create virtual environment?").
		Description("Provision a virtualenv once the project files are generated").
		WithButtonAlignment(lipgloss.Left).
		Value(&data.CreateVirtualenv).
		Affirmative("Yes").
		Negative("No")
}

// createVenvNameField creates the virtualenv name field. The field stays
// visible when virtualenv creation is off so the saved answer set is
// complete, but it is greyed out and its value ignored.
func createVenvNameField(data *ProjectFormData) huh.Field {
	input := huh.NewInput().
		Title("Virtualenv Name").
		Value(&data.VenvName).
		Validate(func(name string) error {
			return validateVenvName(name, data)
		})
	themeState := huh.ThemeCharm()
	enabledTheme := cloneTheme(themeState)
	disabledTheme := deriveDisabledFieldTheme(themeState)
	input.WithTheme(themeState)
	applyVenvNameState(data, themeState, enabledTheme, disabledTheme)
	input.Description(venvNameHelpText(data.CreateVirtualenv))
	input.DescriptionFunc(func() string {
		applyVenvNameState(data, themeState, enabledTheme, disabledTheme)
		return venvNameHelpText(data.CreateVirtualenv)
	}, data)
	return input
}

func createGitField(data *ProjectFormData) huh.Field {
	return huh.NewConfirm().
		Title("Initialize git repository?").
		Description("Create a repository and an initial commit after bootstrap").
		WithButtonAlignment(lipgloss.Left).
		Value(&data.GitInit).
		Affirmative("Yes").
		Negative("No")
}

func applyVenvNameState(data *ProjectFormData, themeState, enabledTheme, disabledTheme *huh.Theme) {
	if !data.CreateVirtualenv {
		*themeState = *disabledTheme
		return
	}
	*themeState = *enabledTheme
}

func deriveDisabledFieldTheme(enabled *huh.Theme) *huh.Theme {
	muted := lipgloss.Color("240")
	disabled := cloneTheme(enabled)
	disabled.Focused.Title = disabled.Focused.Title.Foreground(muted)
	disabled.Focused.Description = disabled.Focused.Description.Foreground(muted)
	disabled.Blurred = disabled.Focused
	return disabled
}

func cloneTheme(src *huh.Theme) *huh.Theme {
	dup := *src
	return &dup
}

func templateHelpText(help map[string]string, name string) string {
	if text, ok := help[name]; ok {
		return text
	}
	return "Project template to use"
}

func venvNameHelpText(enabled bool) string {
	if enabled {
		return "Directory for the virtual environment; \"~\" expands to your home"
	}
	return "Ignored while virtualenv creation is disabled"
}

func isKnownTemplate(name string, templates []template.Metadata) bool {
	for _, meta := range templates {
		if meta.Name == name {
			return true
		}
	}
	return false
}

const (
	maxProjectNameLen = 50
	maxDescriptionLen = 200
)

func validateProjectName(s string) error {
	trimmed := strings.TrimSpace(s)
	switch {
	case trimmed == "":
		return fmt.Errorf("project name is required")
	case len(trimmed) > maxProjectNameLen:
		return fmt.Errorf("keep the project name under %d characters", maxProjectNameLen)
	}
	return nil
}

func validateDescription(s string) error {
	if len(s) > maxDescriptionLen {
		return fmt.Errorf("keep the description under %d characters", maxDescriptionLen)
	}
	return nil
}

func validatePythonVersion(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("python version is required")
	}
	if !pythonVersionPattern.MatchString(s) {
		return fmt.Errorf("must be like '3.12', got: %s", s)
	}
	return nil
}

func validateVenvName(name string, data *ProjectFormData) error {
	if !data.CreateVirtualenv {
		return nil
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("virtualenv name is required")
	}
	return nil
}
