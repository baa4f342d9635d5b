package project

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/goldirana/agentforge/pkg/logger"
	"github.com/goldirana/agentforge/pkg/schema"
)

// pythonVersionGate is the shape every requested interpreter version must
// have before anything is written: exactly "<major>.<minor>". Bare majors,
// patch releases and wildcards are rejected.
var pythonVersionGate = regexp.MustCompile(`^\d+\.\d+$`)

// ProbeFunc reports the interpreter version available on the host, if any.
type ProbeFunc func(ctx context.Context) (version string, ok bool)

// VersionGateValidator rejects malformed python_version values.
type VersionGateValidator struct {
	version string
}

// NewVersionGateValidator constructs a VersionGateValidator for the provided version.
func NewVersionGateValidator(version string) *VersionGateValidator {
	return &VersionGateValidator{version: version}
}

// Validate fails the generation when the version does not match the gate pattern.
func (v *VersionGateValidator) Validate(_ context.Context) error {
	if !pythonVersionGate.MatchString(v.version) {
		return fmt.Errorf("python_version must be like '3.12', got: %s", v.version)
	}
	return nil
}

// TargetDirValidator refuses to generate into an existing non-empty directory.
type TargetDirValidator struct {
	path string
}

// NewTargetDirValidator constructs a TargetDirValidator for the provided path.
func NewTargetDirValidator(path string) *TargetDirValidator {
	return &TargetDirValidator{path: path}
}

// Validate accepts a missing or empty target directory and rejects everything else.
func (v *TargetDirValidator) Validate(_ context.Context) error {
	if v.path == "" {
		return fmt.Errorf("target directory cannot be empty")
	}
	info, err := os.Stat(v.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat target directory %s: %w", v.path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("target %s exists and is not a directory", v.path)
	}
	entries, err := os.ReadDir(v.path)
	if err != nil {
		return fmt.Errorf("failed to read target directory %s: %w", v.path, err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("target directory %s is not empty", v.path)
	}
	return nil
}

// Precheck gates a generation before anything is written: the version gate
// and the target directory check must both pass. A well-formed version that
// differs from the host's interpreter only produces a warning.
func (c *Context) Precheck(ctx context.Context, targetDir string, probe ProbeFunc) error {
	validator := schema.NewCompositeValidator(
		NewVersionGateValidator(c.PythonVersion),
		NewTargetDirValidator(targetDir),
	)
	if err := validator.Validate(ctx); err != nil {
		return err
	}
	warnOnVersionMismatch(ctx, c.PythonVersion, probe)
	return nil
}

// warnOnVersionMismatch compares the requested version against the host's
// interpreter. Advisory only; a missing interpreter skips the check.
func warnOnVersionMismatch(ctx context.Context, requested string, probe ProbeFunc) {
	if probe == nil {
		return
	}
	host, ok := probe(ctx)
	if !ok || host == requested {
		return
	}
	logger.FromContext(ctx).Warn(
		"host Python differs from the requested version; the bootstrap can still create a matching venv",
		"host", host,
		"requested", requested,
	)
}
