package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"
)

// Figlet output for AGENTFORGE needs roughly this many columns before it
// starts wrapping into garbage.
const minFigletWidth = 64

var headerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#04B575")).
	Bold(true).
	Align(lipgloss.Left)

// RenderASCIIHeader renders the agentforge banner for a terminal of the given
// width. Narrow terminals get a single styled line instead of figlet art.
func RenderASCIIHeader(width int) string {
	style := headerStyle.Width(width)
	if width > 0 && width < minFigletWidth {
		return style.Render("agentforge")
	}
	art := figure.NewFigure("AGENTFORGE", "standard", true).String()
	return style.Render(strings.TrimRight(art, "\n"))
}
