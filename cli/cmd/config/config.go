package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/goldirana/agentforge/cli/cmd"
	"github.com/goldirana/agentforge/cli/helpers"
	"github.com/goldirana/agentforge/cli/tui/styles"
	"github.com/goldirana/agentforge/pkg/config"
	"github.com/goldirana/agentforge/pkg/logger"
)

// NewConfigCommand groups the configuration inspection subcommands.
func NewConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate the resolved configuration",
		Long:  "Show the resolved configuration, check it against the validation rules and trace which source each value came from.",
	}
	configCmd.AddCommand(
		newShowCommand(),
		newDiagnosticsCommand(),
		newValidateCommand(),
	)
	return configCmd
}

func newShowCommand() *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Long:  "Print every configuration key with its resolved value. Secrets are redacted in all formats.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(c, cmd.ExecutorOptions{}, cmd.ModeHandlers{
				JSON: handleShow,
				TUI:  handleShow,
			}, args)
		},
	}
	showCmd.Flags().StringP("format", "f", "table", "Output format (json, yaml, table)")
	return showCmd
}

// handleShow serves both modes; the format flag already pins the output
// shape.
func handleShow(ctx context.Context, cobraCmd *cobra.Command, _ *cmd.CommandExecutor, _ []string) error {
	logger.FromContext(ctx).Debug("showing resolved configuration")
	format, err := cobraCmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	return formatConfigOutput(config.FromContext(ctx), format)
}

func newDiagnosticsCommand() *cobra.Command {
	diagCmd := &cobra.Command{
		Use:   "diagnostics",
		Short: "Run configuration diagnostics",
		Long:  "Resolve the configuration, run validation and report the outcome together with the source precedence. With --verbose, the winning source of every key is listed.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(c, cmd.ExecutorOptions{}, cmd.ModeHandlers{
				JSON: diagnosticsHandler(true),
				TUI:  diagnosticsHandler(false),
			}, args)
		},
	}
	diagCmd.Flags().BoolP("verbose", "v", false, "Show the winning source for every key")
	return diagCmd
}

// diagnosticsHandler builds the mode handler for one output shape. Both
// modes collect the same report and differ only in rendering.
func diagnosticsHandler(asJSON bool) cmd.HandlerFunc {
	return func(ctx context.Context, cobraCmd *cobra.Command, _ *cmd.CommandExecutor, _ []string) error {
		logger.FromContext(ctx).Debug("running configuration diagnostics", "json", asJSON)
		verbose, err := cobraCmd.Flags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("failed to get verbose flag: %w", err)
		}
		report, err := collectDiagnostics(ctx, config.FromContext(ctx), verbose)
		if err != nil {
			return err
		}
		if asJSON {
			return report.writeJSON()
		}
		return report.writeTUI()
	}
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the resolved configuration",
		Long:  "Check the resolved configuration against every validation rule and report the verdict.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(c, cmd.ExecutorOptions{}, cmd.ModeHandlers{
				JSON: handleValidateJSON,
				TUI:  handleValidateTUI,
			}, args)
		},
	}
}

func handleValidateJSON(ctx context.Context, _ *cobra.Command, _ *cmd.CommandExecutor, _ []string) error {
	logger.FromContext(ctx).Debug("validating configuration", "mode", "json")
	cfg := config.FromContext(ctx)
	if err := config.ManagerFromContext(ctx).Service.Validate(cfg); err != nil {
		return outputValidationJSON(false, err.Error())
	}
	return outputValidationJSON(true, "Configuration is valid")
}

func handleValidateTUI(ctx context.Context, _ *cobra.Command, _ *cmd.CommandExecutor, _ []string) error {
	logger.FromContext(ctx).Debug("validating configuration", "mode", "tui")
	cfg := config.FromContext(ctx)
	if err := config.ManagerFromContext(ctx).Service.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	fmt.Println(styles.SuccessStyle.Render("✅ Configuration is valid"))
	return nil
}

// formatConfigOutput renders the configuration in the requested format. The
// machine-readable formats go through the shared output writer; the table is
// rendered locally.
func formatConfigOutput(cfg *config.Config, format string) error {
	switch helpers.OutputFormat(format) {
	case helpers.OutputFormatJSON, helpers.OutputFormatYAML:
		writer := helpers.NewOutputWriter(os.Stdout, helpers.OutputFormat(format))
		return writer.WriteData(map[string]any{"config": flattenConfig(cfg)})
	case helpers.OutputFormatTable:
		writeTable(os.Stdout, "KEY", "VALUE", flattenConfig(cfg))
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// diagnosticsReport is the resolved diagnostics payload; both output modes
// render the same report.
type diagnosticsReport struct {
	workingDir    string
	config        map[string]string
	sources       map[string]string // nil unless verbose
	validationErr error
}

func collectDiagnostics(ctx context.Context, cfg *config.Config, verbose bool) (*diagnosticsReport, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	service := config.ManagerFromContext(ctx).Service
	report := &diagnosticsReport{
		workingDir:    cwd,
		config:        flattenConfig(cfg),
		validationErr: service.Validate(cfg),
	}
	if verbose {
		report.sources = make(map[string]string, len(report.config))
		for key := range report.config {
			report.sources[key] = string(service.GetSource(key))
		}
	}
	return report, nil
}

func (r *diagnosticsReport) writeJSON() error {
	validation := map[string]any{"valid": r.validationErr == nil, "error": nil}
	if r.validationErr != nil {
		validation["error"] = r.validationErr.Error()
	}
	payload := map[string]any{
		"working_directory": r.workingDir,
		"configuration":     r.config,
		"validation":        validation,
	}
	if r.sources != nil {
		payload["sources"] = r.sources
	}
	writer := helpers.NewOutputWriter(os.Stdout, helpers.OutputFormatJSON)
	return writer.WriteData(payload)
}

func (r *diagnosticsReport) writeTUI() error {
	fmt.Println(styles.RenderTitle("Configuration Diagnostics"))
	fmt.Printf("Working directory: %s\n", r.workingDir)

	fmt.Println("\n" + styles.RenderTitle("Validation"))
	if r.validationErr != nil {
		fmt.Println(styles.ErrorStyle.Render("❌ Validation errors:"))
		fmt.Println(r.validationErr)
	} else {
		fmt.Println(styles.SuccessStyle.Render("✅ Configuration is valid"))
	}

	if r.sources != nil {
		fmt.Println("\n" + styles.RenderTitle("Configuration Sources"))
		writeTable(os.Stdout, "KEY", "SOURCE", r.sources)
	}

	fmt.Println("\n" + styles.RenderTitle("Source Precedence"))
	fmt.Println("Configuration sources (highest to lowest precedence):")
	fmt.Println("1. CLI flags")
	fmt.Println("2. Environment variables")
	fmt.Println("3. YAML configuration file")
	fmt.Println("4. Default values")
	return nil
}

// writeTable prints a two-column table sorted by key.
func writeTable(w io.Writer, left, right string, rows map[string]string) {
	keys := make([]string, 0, len(rows))
	for key := range rows {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", left, right)
	fmt.Fprintf(tw, "%s\t%s\n", strings.Repeat("-", len(left)), strings.Repeat("-", len(right)))
	for _, key := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", key, rows[key])
	}
	tw.Flush()
}

// flattenConfig renders the configuration as a flat path-to-value map in the
// same dot notation the loader uses, with secrets redacted. Round-tripping
// through koanf keeps the listing in sync with the struct, so new fields show
// up here without a matching edit.
func flattenConfig(cfg *config.Config) map[string]string {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(cfg, "koanf"), nil); err != nil {
		return map[string]string{}
	}
	result := make(map[string]string)
	for _, path := range k.Keys() {
		result[path] = renderValue(path, k.Get(path))
	}
	return result
}

// renderValue formats one configuration value for display. Typed secrets
// redact themselves through String(); paths tagged sensitive are redacted
// here as a second layer for plain string fields.
func renderValue(path string, value any) string {
	switch v := value.(type) {
	case config.SensitiveString:
		return v.String()
	case time.Duration:
		return v.String()
	}
	rendered := fmt.Sprintf("%v", value)
	if rendered != "" && config.IsSensitiveConfigPath(path) {
		return "[REDACTED]"
	}
	return rendered
}

// outputValidationJSON encodes the validation verdict for scripting.
func outputValidationJSON(valid bool, message string) error {
	writer := helpers.NewOutputWriter(os.Stdout, helpers.OutputFormatJSON)
	return writer.WriteData(map[string]any{
		"valid":   valid,
		"message": message,
	})
}
