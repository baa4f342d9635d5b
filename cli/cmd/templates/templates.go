package templates

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/goldirana/agentforge/cli/cmd"
	"github.com/goldirana/agentforge/cli/helpers"
	"github.com/goldirana/agentforge/cli/tui/components"
	"github.com/goldirana/agentforge/cli/tui/styles"
	"github.com/goldirana/agentforge/pkg/logger"
)

// NewTemplatesCommand creates the templates command using the unified command pattern
func NewTemplatesCommand() *cobra.Command {
	templatesCmd := &cobra.Command{
		Use:   "templates",
		Short: "List available project templates",
		Long:  `List every registered project template with its version, author and description.`,
		Args:  cobra.NoArgs,
		RunE:  executeTemplatesCommand,
	}
	return templatesCmd
}

// executeTemplatesCommand handles the templates command execution
func executeTemplatesCommand(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
		RequireTemplates: true,
	}, cmd.ModeHandlers{
		JSON: handleTemplatesJSON,
		TUI:  handleTemplatesTUI,
	}, args)
}

// templateInfo is the machine-readable template listing entry
type templateInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Author      string `json:"author"`
	Description string `json:"description"`
}

// handleTemplatesJSON handles templates in JSON mode
func handleTemplatesJSON(
	ctx context.Context,
	_ *cobra.Command,
	executor *cmd.CommandExecutor,
	_ []string,
) error {
	log := logger.FromContext(ctx)
	log.Debug("executing templates command in JSON mode")
	metas := executor.GetTemplateService().List()
	infos := make([]templateInfo, 0, len(metas))
	for _, meta := range metas {
		infos = append(infos, templateInfo{
			Name:        meta.Name,
			Version:     meta.Version,
			Author:      meta.Author,
			Description: meta.Description,
		})
	}
	writer := helpers.NewOutputWriter(os.Stdout, helpers.OutputFormatJSON)
	return writer.WriteData(map[string]any{"templates": infos})
}

// handleTemplatesTUI handles templates in TUI mode
func handleTemplatesTUI(
	ctx context.Context,
	_ *cobra.Command,
	executor *cmd.CommandExecutor,
	_ []string,
) error {
	log := logger.FromContext(ctx)
	log.Debug("executing templates command in TUI mode")
	component := components.NewTemplateTableComponent(executor.GetTemplateService().List())
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		component.SetWidth(width)
	}
	fmt.Println(styles.RenderTitle("Available Templates"))
	fmt.Println(component.View())
	return nil
}
