package definition

import (
	"reflect"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// CreateRegistry returns the registry holding every configuration field the
// CLI knows about.
func CreateRegistry() *Registry {
	registry := NewRegistry()
	registerRuntimeFields(registry)
	registerProjectFields(registry)
	registerPythonFields(registry)
	registerTemplatesFields(registry)
	registerCLIFields(registry)
	registerReleaseFields(registry)
	return registry
}

func registerRuntimeFields(registry *Registry) {
	registry.Register(&FieldDef{
		Path:    "runtime.environment",
		Default: "development",
		CLIFlag: "",
		EnvVar:  "AGENTFORGE_ENVIRONMENT",
		Type:    reflect.TypeOf(""),
		Help:    "Runtime environment: development|staging|production",
	})
	registry.Register(&FieldDef{
		Path:    "runtime.log_level",
		Default: "info",
		CLIFlag: "log-level",
		EnvVar:  "AGENTFORGE_LOG_LEVEL",
		Type:    reflect.TypeOf(""),
		Help:    "Log level: debug|info|warn|error|disabled",
	})
}

func registerProjectFields(registry *Registry) {
	registry.Register(&FieldDef{
		Path:    "project.author",
		Default: "goldirana",
		CLIFlag: "author",
		EnvVar:  "AGENTFORGE_AUTHOR",
		Type:    reflect.TypeOf(""),
		Help:    "Default author recorded in generated projects",
	})
	registry.Register(&FieldDef{
		Path:    "project.default_template",
		Default: "agent-backend",
		CLIFlag: "template",
		EnvVar:  "AGENTFORGE_DEFAULT_TEMPLATE",
		Type:    reflect.TypeOf(""),
		Help:    "Template used when init is not given one explicitly",
	})
	registry.Register(&FieldDef{
		Path:    "project.git_init",
		Default: false,
		CLIFlag: "git",
		EnvVar:  "AGENTFORGE_GIT_INIT",
		Type:    reflect.TypeOf(true),
		Help:    "Initialize a git repository in generated projects",
	})
}

func registerPythonFields(registry *Registry) {
	registry.Register(&FieldDef{
		Path:    "python.version",
		Default: "3.12",
		CLIFlag: "python-version",
		EnvVar:  "AGENTFORGE_PYTHON_VERSION",
		Type:    reflect.TypeOf(""),
		Help:    "Requested Python major.minor version, e.g. 3.12",
	})
	registry.Register(&FieldDef{
		Path:    "python.create_virtualenv",
		Default: true,
		CLIFlag: "venv",
		EnvVar:  "AGENTFORGE_CREATE_VIRTUALENV",
		Type:    reflect.TypeOf(true),
		Help:    "Create a virtual environment after generation",
	})
	registry.Register(&FieldDef{
		Path:    "python.venv_name",
		Default: ".venv",
		CLIFlag: "venv-name",
		EnvVar:  "AGENTFORGE_VENV_NAME",
		Type:    reflect.TypeOf(""),
		Help:    "Virtual environment path, ~ is expanded",
	})
	registry.Register(&FieldDef{
		Path:    "python.probe_timeout",
		Default: time.Duration(0),
		CLIFlag: "",
		EnvVar:  "AGENTFORGE_PYTHON_PROBE_TIMEOUT",
		Type:    durationType,
		Help:    "Timeout for interpreter version probes, 0 waits indefinitely",
	})
}

func registerTemplatesFields(registry *Registry) {
	registry.Register(&FieldDef{
		Path:    "templates.dir",
		Default: "",
		CLIFlag: "templates-dir",
		EnvVar:  "AGENTFORGE_TEMPLATES_DIR",
		Type:    reflect.TypeOf(""),
		Help:    "Directory holding template sources for the dev command",
	})
	registry.Register(&FieldDef{
		Path:    "templates.dev_debounce",
		Default: 200 * time.Millisecond,
		CLIFlag: "debounce",
		EnvVar:  "AGENTFORGE_DEV_DEBOUNCE",
		Type:    durationType,
		Help:    "Debounce window for the dev watcher",
	})
}

func registerCLIFields(registry *Registry) {
	registry.Register(&FieldDef{
		Path:    "cli.mode",
		Default: "auto",
		CLIFlag: "mode",
		EnvVar:  "AGENTFORGE_MODE",
		Type:    reflect.TypeOf(""),
		Help:    "Output mode: auto|json|tui",
	})
	registry.Register(&FieldDef{
		Path:    "cli.no_color",
		Default: false,
		CLIFlag: "no-color",
		EnvVar:  "AGENTFORGE_NO_COLOR",
		Type:    reflect.TypeOf(true),
		Help:    "Disable colored output",
	})
	registry.Register(&FieldDef{
		Path:    "cli.quiet",
		Default: false,
		CLIFlag: "quiet",
		EnvVar:  "AGENTFORGE_QUIET",
		Type:    reflect.TypeOf(true),
		Help:    "Suppress non-essential output",
	})
	registry.Register(&FieldDef{
		Path:    "cli.debug",
		Default: false,
		CLIFlag: "debug",
		EnvVar:  "AGENTFORGE_DEBUG",
		Type:    reflect.TypeOf(true),
		Help:    "Enable debug output",
	})
	registry.Register(&FieldDef{
		Path:    "cli.interactive",
		Default: false,
		CLIFlag: "interactive",
		EnvVar:  "AGENTFORGE_INTERACTIVE",
		Type:    reflect.TypeOf(true),
		Help:    "Force interactive prompts even when CI or a missing terminal is detected",
	})
	registry.Register(&FieldDef{
		Path:    "cli.config_file",
		Default: "",
		CLIFlag: "config",
		EnvVar:  "AGENTFORGE_CONFIG_FILE",
		Type:    reflect.TypeOf(""),
		Help:    "Path to the configuration file",
	})
	registry.Register(&FieldDef{
		Path:    "cli.cwd",
		Default: "",
		CLIFlag: "cwd",
		EnvVar:  "AGENTFORGE_CWD",
		Type:    reflect.TypeOf(""),
		Help:    "Working directory for the command",
	})
	registry.Register(&FieldDef{
		Path:    "cli.env_file",
		Default: "",
		CLIFlag: "env-file",
		EnvVar:  "AGENTFORGE_ENV_FILE",
		Type:    reflect.TypeOf(""),
		Help:    "Path to a .env file exported before the command runs",
	})
}

func registerReleaseFields(registry *Registry) {
	registry.Register(&FieldDef{
		Path:    "release.repo_owner",
		Default: "goldirana",
		CLIFlag: "",
		EnvVar:  "AGENTFORGE_RELEASE_REPO_OWNER",
		Type:    reflect.TypeOf(""),
		Help:    "GitHub owner queried by the update check",
	})
	registry.Register(&FieldDef{
		Path:    "release.repo_name",
		Default: "agentforge",
		CLIFlag: "",
		EnvVar:  "AGENTFORGE_RELEASE_REPO_NAME",
		Type:    reflect.TypeOf(""),
		Help:    "GitHub repository queried by the update check",
	})
	registry.Register(&FieldDef{
		Path:    "release.timeout",
		Default: 10 * time.Second,
		CLIFlag: "",
		EnvVar:  "AGENTFORGE_RELEASE_TIMEOUT",
		Type:    durationType,
		Help:    "HTTP timeout for the update check",
	})
	registry.Register(&FieldDef{
		Path:    "release.max_retries",
		Default: 2,
		CLIFlag: "",
		EnvVar:  "AGENTFORGE_RELEASE_MAX_RETRIES",
		Type:    reflect.TypeOf(0),
		Help:    "Retries for transient update check failures",
	})
	registry.Register(&FieldDef{
		Path:    "release.token",
		Default: "",
		CLIFlag: "",
		EnvVar:  "AGENTFORGE_GITHUB_TOKEN",
		Type:    reflect.TypeOf(""),
		Help:    "Optional GitHub token used to avoid API rate limits",
	})
}
