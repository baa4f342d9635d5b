package helpers

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/goldirana/agentforge/cli/tui/models"
	"github.com/goldirana/agentforge/pkg/config"
)

// ContextKey types the keys this package stores on command contexts.
type ContextKey string

// ConfigKey is the context key under which the resolved configuration is
// stored. Mode detection and color handling read it back from there.
const ConfigKey ContextKey = "config"

// ciEnvVars are set by the CI systems agentforge is expected to run under.
// Any one of them being present forces non-interactive behavior.
var ciEnvVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"BUILDKITE",
	"DRONE",
	"JENKINS_HOME",
	"JENKINS_URL",
	"TEAMCITY_VERSION",
	"TF_BUILD",
	"APPVEYOR",
	"BITBUCKET_COMMIT",
	"CODEBUILD_BUILD_ID",
}

// DetectMode resolves the output mode for a command. An explicit cli.mode of
// "json" or "tui" wins; "auto" falls back to terminal detection, and commands
// running without a resolved configuration default to JSON so scripted use
// never blocks on a prompt.
func DetectMode(cmd *cobra.Command) models.Mode {
	cfg, ok := cmd.Context().Value(ConfigKey).(*config.Config)
	if !ok || cfg == nil {
		return models.ModeJSON
	}

	switch cfg.CLI.Mode {
	case string(OutputFormatJSON):
		return models.ModeJSON
	case string(OutputFormatTUI):
		return models.ModeTUI
	}

	if interactiveSession(cfg) {
		return models.ModeTUI
	}
	return models.ModeJSON
}

// ShouldUseColor reports whether styled output is appropriate for this
// command invocation. The result feeds the NO_COLOR export that the charm
// libraries honor.
func ShouldUseColor(cmd *cobra.Command) bool {
	cfg, ok := cmd.Context().Value(ConfigKey).(*config.Config)
	if ok && cfg != nil && cfg.CLI.NoColor {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || runningInCI() {
		return false
	}
	if !stdoutIsTerminal() {
		return false
	}
	return termSupportsStyling()
}

// interactiveSession reports whether prompting the user is acceptable.
func interactiveSession(cfg *config.Config) bool {
	if cfg.CLI.Interactive {
		return true
	}
	if runningInCI() {
		return false
	}
	if !stdinIsTerminal() || !stdoutIsTerminal() {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return termSupportsStyling()
}

func runningInCI() bool {
	for _, name := range ciEnvVars {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func termSupportsStyling() bool {
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}
