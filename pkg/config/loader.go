package config

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// loader implements Service on top of a koanf instance. Each Load starts
// from a clean tree, so the loader never carries state between resolutions
// beyond the per-key source metadata.
type loader struct {
	koanf      *koanf.Koanf
	validator  *validator.Validate
	metadata   Metadata
	metadataMu sync.RWMutex
}

var sensitiveStringType = reflect.TypeOf(SensitiveString(""))

// decodeHooks cover duration strings, comma-separated slices and sensitive
// values during unmarshaling.
var decodeHooks = mapstructure.ComposeDecodeHookFunc(
	mapstructure.StringToTimeDurationHookFunc(),
	mapstructure.StringToSliceHookFunc(","),
	sensitiveStringDecodeHook,
)

// sensitiveStringDecodeHook converts plain strings into SensitiveString
// fields.
func sensitiveStringDecodeHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != sensitiveStringType {
		return data, nil
	}
	if s, ok := data.(string); ok {
		return SensitiveString(s), nil
	}
	if b, ok := data.([]byte); ok {
		return SensitiveString(b), nil
	}
	return data, nil
}

// NewService creates a new configuration service with validation support.
func NewService() Service {
	v := validator.New()
	// Registration only fails for empty tag names; the tags here are fixed.
	if err := RegisterCustomValidators(v); err != nil {
		panic(fmt.Sprintf("config: failed to register validators: %v", err))
	}
	return &loader{
		koanf:     koanf.New("."),
		validator: v,
		metadata: Metadata{
			Sources: make(map[string]SourceType),
		},
	}
}

// Load resolves the configuration in precedence order: defaults, then the
// given sources, then environment variables, then CLI flag sources on top.
func (l *loader) Load(_ context.Context, sources ...Source) (*Config, error) {
	l.reset()

	if err := l.loadDefaults(); err != nil {
		return nil, err
	}
	err := l.applySources(sources, func(t SourceType) bool { return t != SourceCLI && t != SourceEnv })
	if err != nil {
		return nil, err
	}
	if err := l.loadEnvironment(); err != nil {
		return nil, err
	}
	if err := l.applySources(sources, func(t SourceType) bool { return t == SourceCLI }); err != nil {
		return nil, err
	}

	return l.unmarshalAndValidate()
}

// reset drops the key tree and starts fresh metadata for the next load.
func (l *loader) reset() {
	l.koanf.Cut("")
	l.metadataMu.Lock()
	defer l.metadataMu.Unlock()
	l.metadata = Metadata{
		Sources:  make(map[string]SourceType),
		LoadedAt: time.Now(),
	}
}

// loadDefaults seeds the tree from the Default() struct via the structs
// provider, so defaults live in one place.
func (l *loader) loadDefaults() error {
	if err := l.koanf.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}
	for _, key := range l.koanf.Keys() {
		l.trackSource(key, SourceDefault)
	}
	return nil
}

// transformEnvKey converts an environment variable name to a koanf path.
// The first underscore becomes the section separator and the remaining ones
// stay part of the field name: PYTHON_CREATE_VIRTUALENV maps to
// python.create_virtualenv.
func transformEnvKey(s string) string {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '_'
	})

	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return parts[0] + "." + strings.Join(parts[1:], "_")
	}
}

// loadEnvironment applies environment variables on top of the current tree.
// Variables with an explicit env struct tag are mapped through it; unmapped
// AGENTFORGE_* variables fall back to the generic key transform. Everything
// else in the process environment is ignored.
func (l *loader) loadEnvironment() error {
	keysBefore := l.snapshotKeys()

	envToPath := make(map[string]string)
	for _, mapping := range GenerateEnvMappings() {
		envToPath[mapping.EnvVar] = mapping.ConfigPath
	}

	if err := l.koanf.Load(env.Provider(".", env.Opt{
		Prefix: "",
		TransformFunc: func(key string, value string) (string, any) {
			if configPath, exists := envToPath[key]; exists {
				return configPath, value
			}
			if rest, ok := strings.CutPrefix(key, "AGENTFORGE_"); ok {
				return transformEnvKey(rest), value
			}
			return "", nil
		},
	}), nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}

	l.trackChangedKeys(keysBefore, SourceEnv)
	return nil
}

// applySources merges the sources selected by keep, in the order given.
// CLI flag sources go through a second pass after the environment so flags
// always win.
func (l *loader) applySources(sources []Source, keep func(SourceType) bool) error {
	for _, source := range sources {
		if source == nil || !keep(source.Type()) {
			continue
		}
		if err := l.loadSource(source); err != nil {
			return fmt.Errorf("failed to apply %s source: %w", source.Type(), err)
		}
	}
	return nil
}

// loadSource merges one source into the tree. Only the keys the source
// mentions are touched; everything else keeps its current value.
func (l *loader) loadSource(source Source) error {
	data, err := source.Load()
	if err != nil {
		return fmt.Errorf("failed to load from source %s: %w", source.Type(), err)
	}
	if len(data) == 0 {
		return nil
	}

	keysBefore := l.snapshotKeys()

	flat := make(map[string]any)
	flattenInto("", data, flat)
	for key, value := range flat {
		if err := l.koanf.Set(key, value); err != nil {
			return fmt.Errorf("failed to set key %s from source %s: %w", key, source.Type(), err)
		}
	}

	l.trackChangedKeys(keysBefore, source.Type())
	return nil
}

// snapshotKeys captures the current value of every key so a later pass can
// tell which ones a source changed.
func (l *loader) snapshotKeys() map[string]any {
	snapshot := make(map[string]any)
	for _, key := range l.koanf.Keys() {
		snapshot[key] = l.koanf.Get(key)
	}
	return snapshot
}

// trackChangedKeys attributes every added or changed key to the source.
func (l *loader) trackChangedKeys(before map[string]any, source SourceType) {
	for _, key := range l.koanf.Keys() {
		valBefore, existed := before[key]
		if !existed || valBefore != l.koanf.Get(key) {
			l.trackSource(key, source)
		}
	}
}

// flattenInto writes a nested map into out under dot-notation keys.
func flattenInto(prefix string, m map[string]any, out map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flattenInto(key, nested, out)
			continue
		}
		out[key] = v
	}
}

// unmarshalAndValidate decodes the merged tree into a Config and validates
// it.
func (l *loader) unmarshalAndValidate() (*Config, error) {
	var cfg Config
	err := l.koanf.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook:       decodeHooks,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := l.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the struct tags first, then the constraints tags cannot
// express.
func (l *loader) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if err := l.validator.Struct(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := l.validateCustom(cfg); err != nil {
		return fmt.Errorf("custom validation failed: %w", err)
	}
	return nil
}

// GetSource returns the winning source for a configuration key.
func (l *loader) GetSource(key string) SourceType {
	l.metadataMu.RLock()
	defer l.metadataMu.RUnlock()
	source, ok := l.metadata.Sources[key]
	if !ok {
		return SourceDefault
	}
	return source
}

func (l *loader) trackSource(key string, source SourceType) {
	l.metadataMu.Lock()
	l.metadata.Sources[key] = source
	l.metadataMu.Unlock()
}

func (l *loader) validateCustom(cfg *Config) error {
	if cfg.Python.ProbeTimeout < 0 {
		return fmt.Errorf("python probe_timeout cannot be negative")
	}
	if cfg.Release.Timeout <= 0 {
		return fmt.Errorf("release timeout must be positive")
	}
	// A venv name that resolves outside the project is allowed (~ expansion),
	// but an empty one after trimming is not.
	if strings.TrimSpace(cfg.Python.VenvName) == "" {
		return fmt.Errorf("python venv_name cannot be blank")
	}
	return nil
}
