// Package styles centralizes the lipgloss palette shared by the CLI's
// terminal components.
package styles

import "github.com/charmbracelet/lipgloss"

// Brand palette
var (
	Primary   = lipgloss.Color("#04B575")
	Highlight = lipgloss.Color("#7D56F4")
	Border    = lipgloss.Color("#444444")
	Surface   = lipgloss.Color("#2B2B2B")
	Muted     = lipgloss.Color("#626262")
)

// Semantic colors
var (
	SuccessColor = lipgloss.Color("#04B575")
	ErrorColor   = lipgloss.Color("#FF5F87")
	WarningColor = lipgloss.Color("#F5A623")
	InfoColor    = lipgloss.Color("#2D9CDB")
)

// Shared text styles
var (
	TitleStyle      = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	InfoStyle       = lipgloss.NewStyle().Foreground(InfoColor)
	SuccessStyle    = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle    = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle      = lipgloss.NewStyle().Foreground(ErrorColor)
	HelpStyle       = lipgloss.NewStyle().Foreground(Muted)
	PaginationStyle = lipgloss.NewStyle().Foreground(Muted).Italic(true)
)

// RenderTitle renders a section title in the brand style.
func RenderTitle(title string) string {
	return TitleStyle.Render(title)
}
