package bootstrap

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvisionDirs(t *testing.T) {
	t.Run("Should create every placeholder directory with the exact gitkeep content", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		created, err := ProvisionDirs(fs, "proj")
		require.NoError(t, err)
		assert.Len(t, created, len(PlaceholderDirs))
		for _, dir := range PlaceholderDirs {
			content, err := afero.ReadFile(fs, filepath.Join("proj", dir, ".gitkeep"))
			require.NoError(t, err, dir)
			assert.Equal(t, GitkeepContent, string(content))
		}
	})

	t.Run("Should be idempotent across runs", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		_, err := ProvisionDirs(fs, "proj")
		require.NoError(t, err)
		_, err = ProvisionDirs(fs, "proj")
		require.NoError(t, err)
		content, err := afero.ReadFile(fs, filepath.Join("proj", "backend/artifacts", ".gitkeep"))
		require.NoError(t, err)
		assert.Equal(t, GitkeepContent, string(content))
	})

	t.Run("Should propagate filesystem errors", func(t *testing.T) {
		fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
		_, err := ProvisionDirs(fs, "proj")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create directory")
	})
}
