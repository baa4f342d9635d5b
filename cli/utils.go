package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/goldirana/agentforge/pkg/config/definition"
)

// extractCLIFlags collects every registry-backed flag the user explicitly
// changed on the running command into a map keyed by flag name. The CLI
// configuration provider translates flag names into config paths, so
// command-local flags like init's --python-version flow into configuration
// the same way the global flags do.
func extractCLIFlags(cmd *cobra.Command) (map[string]any, error) {
	flags := make(map[string]any)
	for _, field := range definition.CreateRegistry().GetAllFields() {
		// Changed reports false for flags the command never registered.
		if field.CLIFlag == "" || !cmd.Flags().Changed(field.CLIFlag) {
			continue
		}
		value, err := flagValue(cmd, field.CLIFlag, field.Type)
		if err != nil {
			return nil, err
		}
		flags[field.CLIFlag] = value
	}
	return flags, nil
}

// flagValue reads a changed flag with the type the registry declares for it.
func flagValue(cmd *cobra.Command, name string, fieldType reflect.Type) (any, error) {
	if fieldType == reflect.TypeOf(time.Duration(0)) {
		value, err := cmd.Flags().GetDuration(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		return value, nil
	}
	switch fieldType.Kind() {
	case reflect.Bool:
		value, err := cmd.Flags().GetBool(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		return value, nil
	case reflect.Int:
		value, err := cmd.Flags().GetInt(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		return value, nil
	default:
		value, err := cmd.Flags().GetString(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		return value, nil
	}
}

// loadEnvFile exports variables from the env file named by the env-file flag
// after validating the path. It reports the resolved path and whether any
// pairs were exported; a missing file is not an error.
func loadEnvFile(cmd *cobra.Command) (string, bool, error) {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return "", false, fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if envFile == "" {
		return "", false, nil
	}
	pwd, err := os.Getwd()
	if err != nil {
		return "", false, fmt.Errorf("failed to get current working directory: %w", err)
	}
	if !filepath.IsAbs(envFile) {
		envFile = filepath.Join(pwd, envFile)
	}
	cleanPath := filepath.Clean(envFile)
	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve env file path: %w", err)
	}
	if !isPathWithinDirectory(absPath, pwd) {
		return "", false, fmt.Errorf("env file path '%s' is outside the project directory", envFile)
	}
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return absPath, false, nil
		}
		return "", false, fmt.Errorf("failed to stat env file: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return "", false, fmt.Errorf("env file path '%s' is not a regular file", envFile)
	}
	if err := exportEnvFile(absPath); err != nil {
		return "", false, err
	}
	return absPath, true, nil
}

// exportEnvFile merges the file's pairs under the current environment view
// and exports the result. Variables already set in the environment win.
func exportEnvFile(absPath string) error {
	filePairs, err := godotenv.Read(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read env file %s: %w", absPath, err)
	}
	merged := environView()
	if err := mergo.Merge(&merged, filePairs); err != nil {
		return fmt.Errorf("failed to merge env file %s: %w", absPath, err)
	}
	for key, value := range merged {
		if current, ok := os.LookupEnv(key); ok && current == value {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to export %s from env file: %w", key, err)
		}
	}
	return nil
}

// environView snapshots the process environment as a map.
func environView() map[string]string {
	env := make(map[string]string)
	for _, pair := range os.Environ() {
		if key, value, ok := strings.Cut(pair, "="); ok {
			env[key] = value
		}
	}
	return env
}

// isPathWithinDirectory reports whether path sits inside dir, or is dir
// itself, once both are made absolute.
func isPathWithinDirectory(path, dir string) bool {
	absPath, errPath := filepath.Abs(filepath.Clean(path))
	absDir, errDir := filepath.Abs(filepath.Clean(dir))
	if errPath != nil || errDir != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
