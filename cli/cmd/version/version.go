package version

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goldirana/agentforge/cli/cmd"
	"github.com/goldirana/agentforge/cli/helpers"
	"github.com/goldirana/agentforge/cli/tui/styles"
	"github.com/goldirana/agentforge/pkg/config"
	"github.com/goldirana/agentforge/pkg/logger"
	"github.com/goldirana/agentforge/pkg/release"
	"github.com/goldirana/agentforge/pkg/version"
)

// NewVersionCommand creates the version command using the unified command pattern
func NewVersionCommand() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show build information, optionally checking GitHub for a newer release.`,
		Args:  cobra.NoArgs,
		RunE:  executeVersionCommand,
	}

	versionCmd.Flags().Bool("check", false, "Check GitHub for a newer release")

	return versionCmd
}

// executeVersionCommand handles the version command execution
func executeVersionCommand(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
		JSON: handleVersionJSON,
		TUI:  handleVersionTUI,
	}, args)
}

// handleVersionJSON handles version in JSON mode
func handleVersionJSON(ctx context.Context, cobraCmd *cobra.Command, _ *cmd.CommandExecutor, _ []string) error {
	check, err := cobraCmd.Flags().GetBool("check")
	if err != nil {
		return fmt.Errorf("failed to get check flag: %w", err)
	}
	payload := map[string]any{"build": version.Get()}
	if check {
		// Update-check failures are reported inside the payload; the
		// command still exits zero.
		if result, checkErr := runUpdateCheck(ctx); checkErr != nil {
			payload["update_check"] = map[string]any{"error": checkErr.Error()}
		} else {
			payload["update_check"] = result
		}
	}
	writer := helpers.NewOutputWriter(os.Stdout, helpers.OutputFormatJSON)
	return writer.WriteData(payload)
}

// handleVersionTUI handles version in TUI mode
func handleVersionTUI(ctx context.Context, cobraCmd *cobra.Command, _ *cmd.CommandExecutor, _ []string) error {
	info := version.Get()
	fmt.Println(info.String())

	check, err := cobraCmd.Flags().GetBool("check")
	if err != nil {
		return fmt.Errorf("failed to get check flag: %w", err)
	}
	if !check {
		return nil
	}
	result, err := runUpdateCheck(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("Update check failed", "error", err)
		fmt.Println(styles.WarningStyle.Render("⚠️ Update check failed: " + err.Error()))
		return nil
	}
	if result.UpdateAvailable {
		fmt.Println(styles.SuccessStyle.Render(fmt.Sprintf(
			"⬆ Update available: %s → %s", result.CurrentVersion, result.LatestVersion,
		)))
		if result.ReleaseURL != "" {
			fmt.Println(styles.HelpStyle.Render(result.ReleaseURL))
		}
	} else {
		fmt.Println(styles.InfoStyle.Render("✓ You are on the latest release"))
	}
	return nil
}

// runUpdateCheck queries the configured releases endpoint for the newest
// published version.
func runUpdateCheck(ctx context.Context) (*release.CheckResult, error) {
	checker := release.NewChecker(config.FromContext(ctx))
	result, err := checker.Check(ctx, version.Get().Version)
	if err != nil {
		return nil, helpers.NewNetworkError("update check", err)
	}
	return result, nil
}
