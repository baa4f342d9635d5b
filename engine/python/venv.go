package python

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveVenvPath expands a leading "~" and resolves relative paths against
// the project directory, mirroring how the environment name is interpreted
// from inside a freshly generated project.
func ResolveVenvPath(projectDir, target string) (string, error) {
	if strings.TrimSpace(target) == "" {
		return "", errors.New("venv path cannot be empty")
	}
	if target == "~" || strings.HasPrefix(target, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		target = filepath.Join(home, strings.TrimPrefix(target, "~"))
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(projectDir, target)
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("failed to resolve venv path: %w", err)
	}
	return abs, nil
}

// CreateVenv provisions a virtual environment at target using the given
// interpreter and returns the resolved absolute path for guidance output.
func CreateVenv(ctx context.Context, runner CommandRunner, interpreter, projectDir, target string) (string, error) {
	path, err := ResolveVenvPath(projectDir, target)
	if err != nil {
		return "", err
	}
	if err := runner.Run(ctx, interpreter, "-m", "venv", path); err != nil {
		return "", fmt.Errorf("failed to create virtual environment at %s: %w", path, err)
	}
	return path, nil
}
