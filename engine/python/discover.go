package python

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goldirana/agentforge/pkg/logger"
)

// ErrNoInterpreter is returned when no candidate executable exists on PATH.
var ErrNoInterpreter = errors.New("no python interpreter found on PATH")

// versionProbe prints the interpreter's own major.minor on stdout.
const versionProbe = "import sys; print(f'{sys.version_info.major}.{sys.version_info.minor}')"

// Interpreter describes a Python executable resolved from PATH.
type Interpreter struct {
	Path    string
	Version string
}

// Candidates returns the executable names tried during discovery, most
// specific first.
func Candidates(version string) []string {
	return []string{"python" + version, "python3", "python"}
}

// Discover returns the first candidate whose reported version matches the
// requested major.minor. Probe failures on individual candidates are
// swallowed. When nothing matches, the first interpreter present on PATH is
// used regardless of version, with a logged note; when PATH has none at all,
// ErrNoInterpreter is returned.
func Discover(ctx context.Context, runner CommandRunner, version string) (*Interpreter, error) {
	log := logger.FromContext(ctx)
	var fallback *Interpreter
	for _, candidate := range Candidates(version) {
		path, err := runner.LookPath(candidate)
		if err != nil {
			continue
		}
		probed, err := ProbeVersion(ctx, runner, path)
		if err != nil {
			if fallback == nil {
				fallback = &Interpreter{Path: path}
			}
			continue
		}
		if probed == version {
			log.Debug("Found matching python interpreter", "path", path, "version", probed)
			return &Interpreter{Path: path, Version: probed}, nil
		}
		if fallback == nil {
			fallback = &Interpreter{Path: path, Version: probed}
		}
	}
	if fallback != nil {
		log.Info("No interpreter matches the requested version, using the first one on PATH",
			"requested", version,
			"path", fallback.Path,
			"found", fallback.Version,
		)
		return fallback, nil
	}
	return nil, ErrNoInterpreter
}

// ProbeVersion asks the interpreter at path to report its own major.minor.
func ProbeVersion(ctx context.Context, runner CommandRunner, path string) (string, error) {
	out, err := runner.Output(ctx, path, "-c", versionProbe)
	if err != nil {
		return "", fmt.Errorf("failed to probe %s: %w", path, err)
	}
	return strings.TrimSpace(out), nil
}

// HostProbe adapts discovery into the advisory pre-check probe. It reports
// the version of the first generic interpreter on PATH and never fails hard.
func HostProbe(runner CommandRunner) func(ctx context.Context) (string, bool) {
	return func(ctx context.Context) (string, bool) {
		for _, candidate := range []string{"python3", "python"} {
			path, err := runner.LookPath(candidate)
			if err != nil {
				continue
			}
			version, err := ProbeVersion(ctx, runner, path)
			if err == nil && version != "" {
				return version, true
			}
		}
		return "", false
	}
}
