package config

import (
	"reflect"
	"strings"
	"sync"
)

// EnvMapping binds an environment variable to the configuration path it feeds.
type EnvMapping struct {
	EnvVar     string
	ConfigPath string
}

// envIndex is built once from the Config struct tags and answers every
// env-mapping question without walking the struct again.
type envIndex struct {
	mappings  []EnvMapping
	pathToEnv map[string]string
	sensitive map[string]bool
}

var (
	index     *envIndex
	indexOnce sync.Once
)

func getEnvIndex() *envIndex {
	indexOnce.Do(func() {
		idx := &envIndex{
			pathToEnv: make(map[string]string),
			sensitive: make(map[string]bool),
		}
		idx.walk(reflect.TypeOf(Config{}), "")
		index = idx
	})
	return index
}

// walk visits every exported field, recording `env` tag mappings and which
// paths hold secrets. Koanf tags name the path segments.
func (idx *envIndex) walk(t reflect.Type, prefix string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		koanfTag := field.Tag.Get("koanf")
		if koanfTag == "" || koanfTag == "-" {
			continue
		}

		path := koanfTag
		if prefix != "" {
			path = prefix + "." + koanfTag
		}

		if envTag := field.Tag.Get("env"); envTag != "" && envTag != "-" {
			idx.mappings = append(idx.mappings, EnvMapping{EnvVar: envTag, ConfigPath: path})
			idx.pathToEnv[path] = envTag
		}
		if field.Type.Name() == "SensitiveString" || field.Tag.Get("sensitive") == "true" {
			idx.sensitive[path] = true
		}

		// time.Duration is an int64 and time.Time carries no config tags.
		if field.Type.Kind() == reflect.Struct && field.Type.PkgPath() != "time" {
			idx.walk(field.Type, path)
		}
	}
}

// GenerateEnvMappings returns all environment variable mappings declared via
// struct tags on Config.
func GenerateEnvMappings() []EnvMapping {
	return getEnvIndex().mappings
}

// GenerateEnvToConfigMap returns a map from env var name to config path.
func GenerateEnvToConfigMap() map[string]string {
	idx := getEnvIndex()
	result := make(map[string]string, len(idx.mappings))
	for _, m := range idx.mappings {
		result[m.EnvVar] = m.ConfigPath
	}
	return result
}

// GetEnvVarForConfigPath returns the environment variable bound to a config
// path, or "" when the path has no env binding.
func GetEnvVarForConfigPath(configPath string) string {
	return getEnvIndex().pathToEnv[configPath]
}

// IsSensitiveConfigPath reports whether the value at a config path is a
// secret that must stay out of logs and rendered output.
func IsSensitiveConfigPath(configPath string) bool {
	idx := getEnvIndex()
	if idx.sensitive[configPath] {
		return true
	}
	// Children of a sensitive subtree inherit the marking.
	for path := range idx.sensitive {
		if strings.HasPrefix(configPath, path+".") {
			return true
		}
	}
	return false
}
