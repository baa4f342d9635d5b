package cli

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	configcmd "github.com/goldirana/agentforge/cli/cmd/config"
	devcmd "github.com/goldirana/agentforge/cli/cmd/dev"
	initcmd "github.com/goldirana/agentforge/cli/cmd/init"
	templatescmd "github.com/goldirana/agentforge/cli/cmd/templates"
	versioncmd "github.com/goldirana/agentforge/cli/cmd/version"
	"github.com/goldirana/agentforge/cli/helpers"
	"github.com/goldirana/agentforge/pkg/config"
	"github.com/goldirana/agentforge/pkg/logger"
	"github.com/goldirana/agentforge/pkg/template/templates/agentbackend"
)

// RootCmd builds the agentforge root command with all subcommands and the
// shared configuration pipeline attached.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "agentforge",
		Short: "Scaffold and maintain Python agent projects",
		Long: `Agentforge generates Python agent projects from registered templates and
keeps them in sync while their templates evolve.

Every command runs in one of two modes: an interactive TUI when a terminal
is attached, or JSON on stdout for scripts and CI. Configuration comes from
defaults, environment variables, an optional YAML file and CLI flags, in
that order of precedence.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return SetupGlobalConfig(cmd)
		},
	}

	addGlobalFlags(root)

	root.AddCommand(
		initcmd.NewInitCommand(),
		templatescmd.NewTemplatesCommand(),
		configcmd.NewConfigCommand(),
		devcmd.NewDevCommand(),
		versioncmd.NewVersionCommand(),
	)

	return root
}

// addGlobalFlags registers the persistent flags shared by every command.
// Flag names match the CLI flag names in the configuration registry so
// extractCLIFlags can feed them into configuration with CLI precedence.
func addGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "Path to the configuration file")
	flags.String("cwd", "", "Working directory for the command")
	flags.String("env-file", ".env", "Path to a .env file exported before the command runs")
	flags.String("mode", "auto", "Output mode: auto|json|tui")
	flags.Bool("no-color", false, "Disable colored output")
	flags.Bool("quiet", false, "Suppress non-essential output")
	flags.Bool("debug", false, "Enable debug output")
	flags.Bool("interactive", false, "Force interactive prompts even when CI or a missing terminal is detected")
	flags.String("log-level", "info", "Log level: debug|info|warn|error|disabled")
	flags.Bool("log-json", false, "Emit logs as JSON")
	flags.Bool("log-source", false, "Include source file positions in logs")
}

// SetupGlobalConfig runs the shared pre-command pipeline: it exports the env
// file, resolves configuration from all sources, installs the logger and
// registers the builtin templates. The resolved configuration and its manager
// are injected into the command context for every downstream handler.
func SetupGlobalConfig(cmd *cobra.Command) error {
	// PersistentPreRunE runs with flags parsed and merged; direct callers
	// such as tests may not have parsed yet.
	if err := cmd.ParseFlags(nil); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	envPath, envLoaded, err := loadEnvFile(cmd)
	if err != nil {
		return fmt.Errorf("failed to load environment file: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cliFlags, err := extractCLIFlags(cmd)
	if err != nil {
		return fmt.Errorf("failed to extract CLI flags: %w", err)
	}

	// The service layers defaults and environment variables itself; only the
	// YAML file and parsed flags arrive as sources. Resolved precedence is
	// defaults < file < environment < flags.
	var sources []config.Source
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	if configFile != "" {
		sources = append(sources, config.NewYAMLProvider(configFile))
	}
	if len(cliFlags) > 0 {
		sources = append(sources, config.NewCLIProvider(cliFlags))
	}

	manager := config.NewManager(config.NewService())
	cfg, err := manager.Load(ctx, sources...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx = config.ContextWithManager(ctx, manager)
	ctx = context.WithValue(ctx, helpers.ConfigKey, cfg)

	// The log-level flag already reached cfg through the CLI provider, so
	// the resolved value honors flag > env > file precedence.
	logLevel := cfg.Runtime.LogLevel
	if cfg.CLI.Quiet {
		logLevel = string(logger.DisabledLevel)
	} else if cfg.CLI.Debug {
		logLevel = string(logger.DebugLevel)
	}
	logOpts, err := logger.OptionsFromCommand(cmd)
	if err != nil {
		return err
	}
	logOpts.Level = logLevel
	logOpts.Install()
	log := logger.GetDefault()
	if envPath != "" && !envLoaded {
		log.Debug("No env file found; continuing without it", "path", envPath)
	}
	ctx = logger.ContextWithLogger(ctx, log)

	cmd.SetContext(ctx)

	// The charm libraries read NO_COLOR, so exporting it once here strips
	// styling from every downstream component in one place.
	if !helpers.ShouldUseColor(cmd) {
		if err := os.Setenv("NO_COLOR", "1"); err != nil {
			return fmt.Errorf("failed to disable colored output: %w", err)
		}
	}

	return registerBuiltinTemplates()
}

var registerTemplatesOnce sync.Once

// registerBuiltinTemplates installs the compiled-in templates exactly once,
// so repeated RootCmd construction in tests stays safe.
func registerBuiltinTemplates() error {
	var err error
	registerTemplatesOnce.Do(func() {
		if regErr := agentbackend.Register(); regErr != nil {
			err = fmt.Errorf("failed to register builtin templates: %w", regErr)
		}
	})
	return err
}
