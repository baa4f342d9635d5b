package config

import (
	"context"
	"fmt"
	"time"

	"github.com/knadh/koanf/v2"

	"github.com/goldirana/agentforge/pkg/config/definition"
)

// Config represents the complete configuration for the agentforge CLI.
// It provides type-safe access to all configuration values with validation.
type Config struct {
	Runtime   RuntimeConfig   `koanf:"runtime"   validate:"required"`
	Project   ProjectConfig   `koanf:"project"   validate:"required"`
	Python    PythonConfig    `koanf:"python"    validate:"required"`
	Templates TemplatesConfig `koanf:"templates"`
	CLI       CLIConfig       `koanf:"cli"`
	Release   ReleaseConfig   `koanf:"release"`
}

// RuntimeConfig contains runtime behavior configuration.
type RuntimeConfig struct {
	Environment string `koanf:"environment" validate:"oneof=development staging production" env:"AGENTFORGE_ENVIRONMENT"`
	LogLevel    string `koanf:"log_level"   validate:"oneof=debug info warn error disabled" env:"AGENTFORGE_LOG_LEVEL"`
}

// ProjectConfig contains defaults applied to generated projects.
type ProjectConfig struct {
	Author          string `koanf:"author"           env:"AGENTFORGE_AUTHOR"`
	DefaultTemplate string `koanf:"default_template" validate:"required" env:"AGENTFORGE_DEFAULT_TEMPLATE"`
	GitInit         bool   `koanf:"git_init"         env:"AGENTFORGE_GIT_INIT"`
}

// PythonConfig contains interpreter and virtualenv configuration for the
// bootstrap step of generated projects.
type PythonConfig struct {
	Version          string        `koanf:"version"           validate:"python_version" env:"AGENTFORGE_PYTHON_VERSION"`
	CreateVirtualenv bool          `koanf:"create_virtualenv" env:"AGENTFORGE_CREATE_VIRTUALENV"`
	VenvName         string        `koanf:"venv_name"         validate:"required"       env:"AGENTFORGE_VENV_NAME"`
	ProbeTimeout     time.Duration `koanf:"probe_timeout"     env:"AGENTFORGE_PYTHON_PROBE_TIMEOUT"`
}

// TemplatesConfig contains template development configuration.
type TemplatesConfig struct {
	Dir         string        `koanf:"dir"          env:"AGENTFORGE_TEMPLATES_DIR"`
	DevDebounce time.Duration `koanf:"dev_debounce" validate:"min=0" env:"AGENTFORGE_DEV_DEBOUNCE"`
}

// CLIConfig contains CLI-specific configuration.
type CLIConfig struct {
	Mode        string `koanf:"mode"        validate:"omitempty,oneof=auto json tui" env:"AGENTFORGE_MODE"`
	NoColor     bool   `koanf:"no_color"    env:"AGENTFORGE_NO_COLOR"`
	Quiet       bool   `koanf:"quiet"       env:"AGENTFORGE_QUIET"`
	Debug       bool   `koanf:"debug"       env:"AGENTFORGE_DEBUG"`
	Interactive bool   `koanf:"interactive" env:"AGENTFORGE_INTERACTIVE"`
	ConfigFile  string `koanf:"config_file" env:"AGENTFORGE_CONFIG_FILE"`
	CWD         string `koanf:"cwd"         env:"AGENTFORGE_CWD"`
	EnvFile     string `koanf:"env_file"    env:"AGENTFORGE_ENV_FILE"`
}

// ReleaseConfig contains configuration for the update check.
type ReleaseConfig struct {
	RepoOwner  string          `koanf:"repo_owner"  validate:"required" env:"AGENTFORGE_RELEASE_REPO_OWNER"`
	RepoName   string          `koanf:"repo_name"   validate:"required" env:"AGENTFORGE_RELEASE_REPO_NAME"`
	Timeout    time.Duration   `koanf:"timeout"     env:"AGENTFORGE_RELEASE_TIMEOUT"`
	MaxRetries int             `koanf:"max_retries" validate:"min=0,max=5" env:"AGENTFORGE_RELEASE_MAX_RETRIES"`
	Token      SensitiveString `koanf:"token"       env:"AGENTFORGE_GITHUB_TOKEN" sensitive:"true"`
}

// Service resolves and validates the configuration. Change notification is
// the Manager's job; the service itself is a stateless resolver apart from
// the per-key source metadata it records on each Load.
type Service interface {
	// Load merges the given sources over the registry defaults and the
	// environment, decodes the result and validates it.
	Load(ctx context.Context, sources ...Source) (*Config, error)
	// Validate runs the struct tags plus the custom checks against cfg.
	Validate(cfg *Config) error
	// GetSource reports which layer supplied the value at key during the
	// most recent Load.
	GetSource(key string) SourceType
}

// Source is one layer of the configuration stack. Implementations hand the
// loader a nested key tree; watching is optional and may be a no-op.
type Source interface {
	Load() (map[string]any, error)
	Watch(ctx context.Context, callback func()) error
	Type() SourceType
	Close() error
}

// SourceType names a configuration layer, lowest precedence first.
type SourceType string

const (
	SourceDefault SourceType = "default"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceCLI     SourceType = "cli"
)

// Metadata records where each resolved key came from and when the load
// happened.
type Metadata struct {
	Sources  map[string]SourceType `json:"sources"`
	LoadedAt time.Time             `json:"loaded_at"`
}

// Default returns a Config holding the registry defaults. The registry map
// is unmarshaled through koanf exactly like a real load, so defaults pass
// through the same decoding as every other source.
func Default() *Config {
	k := koanf.New(".")
	for path, field := range definition.CreateRegistry().GetAllFields() {
		if err := k.Set(path, field.Default); err != nil {
			panic(fmt.Sprintf("invalid default for %s: %v", path, err))
		}
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		panic(fmt.Sprintf("registry defaults do not decode: %v", err))
	}
	return &cfg
}
