package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/goldirana/agentforge/cli/tui/components"
	"github.com/goldirana/agentforge/pkg/template"
)

// Fallback dimensions used until the first WindowSizeMsg arrives.
const (
	initialFormWidth  = 80
	initialFormHeight = 24
	minViewportHeight = 10
	// horizontal padding around the form plus separator and spacing rows
	chromeRows    = 4
	chromeColumns = 4
)

var separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#333333"))

// InitModel hosts the project setup form inside a scrolling viewport with
// the banner pinned above it. The form writes its answers through the
// pointers bound in NewProjectForm, so callers read results from the
// ProjectFormData they passed in.
type InitModel struct {
	form     *huh.Form
	viewport viewport.Model

	header      string
	headerWidth int

	width    int
	height   int
	quitting bool
}

// NewInitModel builds the interactive setup model for the given answer set
// and the templates available for selection.
func NewInitModel(formData *ProjectFormData, templates []template.Metadata) *InitModel {
	vp := viewport.New(initialFormWidth, initialFormHeight-chromeRows)
	vp.MouseWheelEnabled = true
	return &InitModel{
		form:     NewProjectForm(formData, templates),
		viewport: vp,
		width:    initialFormWidth,
		height:   initialFormHeight,
	}
}

// Init implements tea.Model.
func (m *InitModel) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), tea.WindowSize())
}

// Update implements tea.Model.
func (m *InitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(typed.Width, typed.Height)
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if updated, ok := form.(*huh.Form); ok {
		m.form = updated
	}
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	m.viewport.SetContent(m.renderForm())
	var viewportCmd tea.Cmd
	m.viewport, viewportCmd = m.viewport.Update(msg)
	cmds = append(cmds, viewportCmd)

	if m.form.State == huh.StateCompleted || m.form.State == huh.StateAborted {
		m.quitting = true
		cmds = append(cmds, tea.Quit)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m *InitModel) View() string {
	if m.quitting {
		return ""
	}
	header := m.banner()
	separator := separatorStyle.Render(strings.Repeat("─", max(m.width, 1)))
	return header + "\n" + separator + "\n\n" + m.viewport.View()
}

// IsCompleted reports whether every form field was filled in and accepted.
func (m *InitModel) IsCompleted() bool {
	return m.form.State == huh.StateCompleted
}

// IsCanceled reports whether the user backed out before completing the form.
func (m *InitModel) IsCanceled() bool {
	return m.form.State == huh.StateAborted || (m.quitting && !m.IsCompleted())
}

func (m *InitModel) resize(width, height int) {
	m.width = width
	m.height = height

	headerLines := strings.Count(m.banner(), "\n") + 1
	m.viewport.Width = width
	m.viewport.Height = max(height-headerLines-chromeRows, minViewportHeight)
	m.form.WithWidth(width - chromeColumns)
	m.viewport.SetContent(m.renderForm())
}

// banner returns the ASCII header for the current width, re-rendering only
// when the width changed since the last call.
func (m *InitModel) banner() string {
	if m.header != "" && m.headerWidth == m.width {
		return m.header
	}
	m.header = components.RenderASCIIHeader(m.width)
	m.headerWidth = m.width
	return m.header
}

func (m *InitModel) renderForm() string {
	container := lipgloss.NewStyle().Width(m.width - chromeColumns).Align(lipgloss.Left)
	return container.Render(m.form.View())
}
