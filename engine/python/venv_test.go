package python

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveVenvPath(t *testing.T) {
	t.Run("Should resolve relative names against the project directory", func(t *testing.T) {
		projectDir := t.TempDir()
		path, err := ResolveVenvPath(projectDir, ".venv")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(projectDir, ".venv"), path)
	})

	t.Run("Should keep absolute paths", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "envs", "agent")
		path, err := ResolveVenvPath(t.TempDir(), target)
		require.NoError(t, err)
		assert.Equal(t, target, path)
	})

	t.Run("Should expand a leading tilde", func(t *testing.T) {
		home, err := os.UserHomeDir()
		require.NoError(t, err)
		path, err := ResolveVenvPath(t.TempDir(), "~/envs/agent")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "envs", "agent"), path)
	})

	t.Run("Should reject an empty name", func(t *testing.T) {
		_, err := ResolveVenvPath(t.TempDir(), "  ")
		assert.Error(t, err)
	})
}

func TestCreateVenv(t *testing.T) {
	t.Run("Should invoke the interpreter's venv module with the resolved path", func(t *testing.T) {
		runner := &stubRunner{}
		projectDir := t.TempDir()
		path, err := CreateVenv(t.Context(), runner, "/usr/bin/python3", projectDir, ".venv")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(projectDir, ".venv"), path)
		require.Len(t, runner.runCalls, 1)
		assert.Equal(t, []string{"/usr/bin/python3", "-m", "venv", path}, runner.runCalls[0])
	})

	t.Run("Should surface creation failures with the target path", func(t *testing.T) {
		runner := &stubRunner{runErr: errors.New("exit status 1: permission denied")}
		_, err := CreateVenv(t.Context(), runner, "/usr/bin/python3", t.TempDir(), ".venv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create virtual environment")
	})
}
