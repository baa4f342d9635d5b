package python

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	paths     map[string]string
	versions  map[string]string
	probeErrs map[string]error
	runErr    error
	runCalls  [][]string
}

func (s *stubRunner) LookPath(file string) (string, error) {
	if path, ok := s.paths[file]; ok {
		return path, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

func (s *stubRunner) Output(_ context.Context, name string, _ ...string) (string, error) {
	if err, ok := s.probeErrs[name]; ok {
		return "", err
	}
	if version, ok := s.versions[name]; ok {
		return version + "\n", nil
	}
	return "", errors.New("unexpected probe")
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) error {
	s.runCalls = append(s.runCalls, append([]string{name}, args...))
	return s.runErr
}

func TestCandidates(t *testing.T) {
	t.Run("Should try the versioned name first", func(t *testing.T) {
		assert.Equal(t, []string{"python3.12", "python3", "python"}, Candidates("3.12"))
	})
}

func TestDiscover(t *testing.T) {
	t.Run("Should accept the first exact version match", func(t *testing.T) {
		runner := &stubRunner{
			paths:    map[string]string{"python3.12": "/usr/bin/python3.12"},
			versions: map[string]string{"/usr/bin/python3.12": "3.12"},
		}
		found, err := Discover(t.Context(), runner, "3.12")
		require.NoError(t, err)
		assert.Equal(t, "/usr/bin/python3.12", found.Path)
		assert.Equal(t, "3.12", found.Version)
	})

	t.Run("Should skip candidates whose probe fails", func(t *testing.T) {
		runner := &stubRunner{
			paths: map[string]string{
				"python3.12": "/usr/bin/python3.12",
				"python3":    "/usr/bin/python3",
			},
			versions:  map[string]string{"/usr/bin/python3": "3.12"},
			probeErrs: map[string]error{"/usr/bin/python3.12": errors.New("exec format error")},
		}
		found, err := Discover(t.Context(), runner, "3.12")
		require.NoError(t, err)
		assert.Equal(t, "/usr/bin/python3", found.Path)
	})

	t.Run("Should fall back to the first interpreter on PATH when nothing matches", func(t *testing.T) {
		runner := &stubRunner{
			paths:    map[string]string{"python3": "/usr/bin/python3"},
			versions: map[string]string{"/usr/bin/python3": "3.12"},
		}
		found, err := Discover(t.Context(), runner, "3.11")
		require.NoError(t, err)
		assert.Equal(t, "/usr/bin/python3", found.Path)
		assert.Equal(t, "3.12", found.Version)
	})

	t.Run("Should fall back even when every probe fails", func(t *testing.T) {
		runner := &stubRunner{
			paths:     map[string]string{"python": "/usr/bin/python"},
			probeErrs: map[string]error{"/usr/bin/python": errors.New("boom")},
		}
		found, err := Discover(t.Context(), runner, "3.12")
		require.NoError(t, err)
		assert.Equal(t, "/usr/bin/python", found.Path)
		assert.Empty(t, found.Version)
	})

	t.Run("Should report when PATH has no interpreter at all", func(t *testing.T) {
		runner := &stubRunner{paths: map[string]string{}}
		_, err := Discover(t.Context(), runner, "3.12")
		assert.ErrorIs(t, err, ErrNoInterpreter)
	})
}

func TestProbeVersion(t *testing.T) {
	t.Run("Should trim the trailing newline", func(t *testing.T) {
		runner := &stubRunner{versions: map[string]string{"/usr/bin/python3": "3.12"}}
		version, err := ProbeVersion(t.Context(), runner, "/usr/bin/python3")
		require.NoError(t, err)
		assert.Equal(t, "3.12", version)
	})

	t.Run("Should wrap probe failures with the interpreter path", func(t *testing.T) {
		runner := &stubRunner{probeErrs: map[string]error{"/usr/bin/python3": errors.New("boom")}}
		_, err := ProbeVersion(t.Context(), runner, "/usr/bin/python3")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/usr/bin/python3")
	})
}

func TestHostProbe(t *testing.T) {
	t.Run("Should report the generic interpreter version", func(t *testing.T) {
		runner := &stubRunner{
			paths:    map[string]string{"python3": "/usr/bin/python3"},
			versions: map[string]string{"/usr/bin/python3": "3.11"},
		}
		version, ok := HostProbe(runner)(t.Context())
		assert.True(t, ok)
		assert.Equal(t, "3.11", version)
	})

	t.Run("Should report absence without an error", func(t *testing.T) {
		runner := &stubRunner{paths: map[string]string{}}
		_, ok := HostProbe(runner)(t.Context())
		assert.False(t, ok)
	})
}
