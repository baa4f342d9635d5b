package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionGateValidator(t *testing.T) {
	t.Run("Should accept major.minor versions", func(t *testing.T) {
		for _, version := range []string{"3.12", "3.9", "3.10", "10.0"} {
			assert.NoError(t, NewVersionGateValidator(version).Validate(t.Context()), version)
		}
	})

	t.Run("Should reject anything that is not major.minor", func(t *testing.T) {
		for _, version := range []string{"", "3", "3.x", "3.12.1", "abc", "3.12 ", "v3.12"} {
			err := NewVersionGateValidator(version).Validate(t.Context())
			require.Error(t, err, version)
			assert.Contains(t, err.Error(), "python_version must be like '3.12'")
		}
	})
}

func TestTargetDirValidator(t *testing.T) {
	t.Run("Should accept a missing directory", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "fresh")
		assert.NoError(t, NewTargetDirValidator(target).Validate(t.Context()))
	})

	t.Run("Should accept an empty directory", func(t *testing.T) {
		assert.NoError(t, NewTargetDirValidator(t.TempDir()).Validate(t.Context()))
	})

	t.Run("Should reject a non-empty directory", func(t *testing.T) {
		target := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(target, "README.md"), []byte("hi"), 0o644))
		err := NewTargetDirValidator(target).Validate(t.Context())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not empty")
	})

	t.Run("Should reject a target that is a file", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "occupied")
		require.NoError(t, os.WriteFile(target, []byte("hi"), 0o644))
		err := NewTargetDirValidator(target).Validate(t.Context())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not a directory")
	})

	t.Run("Should reject an empty path", func(t *testing.T) {
		assert.Error(t, NewTargetDirValidator("").Validate(t.Context()))
	})
}

func TestContext_Precheck(t *testing.T) {
	t.Run("Should pass with a valid version and a fresh target", func(t *testing.T) {
		c := testContext()
		target := filepath.Join(t.TempDir(), "out")
		assert.NoError(t, c.Precheck(t.Context(), target, nil))
	})

	t.Run("Should fail on a malformed version before touching the target", func(t *testing.T) {
		c := testContext()
		c.PythonVersion = "3.12.1"
		err := c.Precheck(t.Context(), filepath.Join(t.TempDir(), "out"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "python_version must be like '3.12'")
	})

	t.Run("Should fail on an occupied target", func(t *testing.T) {
		c := testContext()
		target := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(target, "stale"), []byte("x"), 0o644))
		assert.Error(t, c.Precheck(t.Context(), target, nil))
	})

	t.Run("Should not fail when the host interpreter differs", func(t *testing.T) {
		c := testContext()
		probe := func(_ context.Context) (string, bool) { return "3.11", true }
		target := filepath.Join(t.TempDir(), "out")
		assert.NoError(t, c.Precheck(t.Context(), target, probe))
	})

	t.Run("Should not fail when no interpreter can be probed", func(t *testing.T) {
		c := testContext()
		probe := func(_ context.Context) (string, bool) { return "", false }
		target := filepath.Join(t.TempDir(), "out")
		assert.NoError(t, c.Precheck(t.Context(), target, probe))
	})
}
