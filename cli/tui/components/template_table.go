package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	cliutils "github.com/goldirana/agentforge/cli/helpers"
	"github.com/goldirana/agentforge/cli/tui/styles"
	"github.com/goldirana/agentforge/pkg/template"
)

const defaultTemplateTableWidth = 100

// TemplateTableComponent renders the registered project templates as a
// styled table. The template set is fixed at compile time, so the component
// only needs width-aware layout, not filtering or pagination.
type TemplateTableComponent struct {
	table     table.Model
	templates []template.Metadata
	width     int
}

// NewTemplateTableComponent creates a table listing the given templates
func NewTemplateTableComponent(templates []template.Metadata) TemplateTableComponent {
	columns := buildTemplateTableColumns(defaultTemplateTableWidth)
	tableModel := table.New(
		table.WithColumns(columns),
		table.WithHeight(max(1, len(templates))),
	)
	tableModel.SetStyles(defaultTemplateTableStyles())
	component := TemplateTableComponent{
		table:     tableModel,
		templates: templates,
		width:     defaultTemplateTableWidth,
	}
	component.updateRows()
	return component
}

func buildTemplateTableColumns(width int) []table.Column {
	if width < 60 {
		return []table.Column{
			{Title: "Name", Width: max(10, width/3)},
			{Title: "Description", Width: max(16, width/2)},
		}
	}
	availableWidth := width - 8 // Reserve space for borders and padding
	nameWidth := max(12, min(24, availableWidth/5))
	versionWidth := 9
	authorWidth := max(10, min(20, availableWidth/6))
	descriptionWidth := max(20, availableWidth-nameWidth-versionWidth-authorWidth)
	return []table.Column{
		{Title: "Name", Width: nameWidth},
		{Title: "Version", Width: versionWidth},
		{Title: "Author", Width: authorWidth},
		{Title: "Description", Width: descriptionWidth},
	}
}

func defaultTemplateTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Border).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.Highlight).
		Background(styles.Surface).
		Bold(true)
	return s
}

// SetWidth resizes the table columns for the given terminal width
func (tt *TemplateTableComponent) SetWidth(width int) *TemplateTableComponent {
	if width <= 0 {
		return tt
	}
	tt.width = width
	tt.table.SetColumns(buildTemplateTableColumns(width))
	tt.updateRows()
	return tt
}

// View renders the table with a trailing count line
func (tt *TemplateTableComponent) View() string {
	if len(tt.templates) == 0 {
		return styles.HelpStyle.Render("No templates registered")
	}
	count := fmt.Sprintf("%d template(s) available", len(tt.templates))
	return lipgloss.JoinVertical(
		lipgloss.Left,
		tt.table.View(),
		styles.PaginationStyle.Render(count),
	)
}

func (tt *TemplateTableComponent) updateRows() {
	columns := buildTemplateTableColumns(tt.width)
	rows := make([]table.Row, 0, len(tt.templates))
	for i := range tt.templates {
		meta := &tt.templates[i]
		if len(columns) == 2 {
			rows = append(rows, table.Row{
				cliutils.Truncate(meta.Name, columns[0].Width-2),
				cliutils.Truncate(meta.Description, columns[1].Width-2),
			})
			continue
		}
		rows = append(rows, table.Row{
			cliutils.Truncate(meta.Name, columns[0].Width-2),
			meta.Version,
			cliutils.Truncate(meta.Author, columns[2].Width-2),
			cliutils.Truncate(meta.Description, columns[3].Width-2),
		})
	}
	tt.table.SetRows(rows)
}
