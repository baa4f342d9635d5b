package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldirana/agentforge/cli/helpers"
	"github.com/goldirana/agentforge/pkg/config"
)

func TestSetupGlobalConfig(t *testing.T) {
	t.Run("Should apply YAML overrides and inject the config into context", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := filepath.Join(dir, "agentforge.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("python:\n  version: \"3.11\"\n"), 0o600))

		cmd := RootCmd()
		require.NoError(t, cmd.PersistentFlags().Set("env-file", ""))
		require.NoError(t, cmd.PersistentFlags().Set("config", cfgPath))

		require.NoError(t, SetupGlobalConfig(cmd))

		cfg := config.FromContext(cmd.Context())
		require.NotNil(t, cfg)
		assert.Equal(t, "3.11", cfg.Python.Version)
		injected, ok := cmd.Context().Value(helpers.ConfigKey).(*config.Config)
		require.True(t, ok, "resolved config must be reachable for mode detection")
		assert.Equal(t, "3.11", injected.Python.Version)
	})

	t.Run("Should let changed flags win over the YAML file", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := filepath.Join(dir, "agentforge.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("cli:\n  mode: json\n"), 0o600))

		cmd := RootCmd()
		require.NoError(t, cmd.PersistentFlags().Set("env-file", ""))
		require.NoError(t, cmd.PersistentFlags().Set("config", cfgPath))
		require.NoError(t, cmd.PersistentFlags().Set("mode", "tui"))

		require.NoError(t, SetupGlobalConfig(cmd))

		cfg := config.FromContext(cmd.Context())
		require.NotNil(t, cfg)
		assert.Equal(t, "tui", cfg.CLI.Mode)
	})

	t.Run("Should record the config file path in the resolved config", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := filepath.Join(dir, "agentforge.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("project:\n  author: rana\n"), 0o600))

		cmd := RootCmd()
		require.NoError(t, cmd.PersistentFlags().Set("env-file", ""))
		require.NoError(t, cmd.PersistentFlags().Set("config", cfgPath))

		require.NoError(t, SetupGlobalConfig(cmd))

		cfg := config.FromContext(cmd.Context())
		require.NotNil(t, cfg)
		assert.Equal(t, "rana", cfg.Project.Author)
		assert.Equal(t, cfgPath, cfg.CLI.ConfigFile)
	})
}

func TestExtractCLIFlags(t *testing.T) {
	newFlagCommand := func() *cobra.Command {
		cmd := &cobra.Command{Use: "probe"}
		cmd.Flags().String("python-version", "", "")
		cmd.Flags().Bool("git", false, "")
		cmd.Flags().Duration("debounce", 0, "")
		cmd.Flags().String("name", "", "")
		return cmd
	}

	t.Run("Should collect only changed registry-backed flags", func(t *testing.T) {
		cmd := newFlagCommand()
		require.NoError(t, cmd.Flags().Set("python-version", "3.13"))
		require.NoError(t, cmd.Flags().Set("git", "true"))

		flags, err := extractCLIFlags(cmd)
		require.NoError(t, err)

		assert.Equal(t, map[string]any{
			"python-version": "3.13",
			"git":            true,
		}, flags)
	})

	t.Run("Should read durations with their registry type", func(t *testing.T) {
		cmd := newFlagCommand()
		require.NoError(t, cmd.Flags().Set("debounce", "750ms"))

		flags, err := extractCLIFlags(cmd)
		require.NoError(t, err)

		assert.Equal(t, map[string]any{"debounce": 750 * time.Millisecond}, flags)
	})

	t.Run("Should ignore flags outside the registry", func(t *testing.T) {
		// The name flag belongs to the init command, not to configuration.
		cmd := newFlagCommand()
		require.NoError(t, cmd.Flags().Set("name", "demo"))

		flags, err := extractCLIFlags(cmd)
		require.NoError(t, err)

		assert.Empty(t, flags)
	})

	t.Run("Should return nothing when no flags changed", func(t *testing.T) {
		flags, err := extractCLIFlags(newFlagCommand())
		require.NoError(t, err)
		assert.Empty(t, flags)
	})
}

func TestLoadEnvFile(t *testing.T) {
	newEnvCommand := func() *cobra.Command {
		cmd := &cobra.Command{Use: "probe"}
		cmd.Flags().String("env-file", "", "")
		return cmd
	}

	t.Run("Should be a no-op for an empty flag", func(t *testing.T) {
		path, loaded, err := loadEnvFile(newEnvCommand())
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.False(t, loaded)
	})

	t.Run("Should tolerate a missing env file inside the working directory", func(t *testing.T) {
		cmd := newEnvCommand()
		require.NoError(t, cmd.Flags().Set("env-file", ".env"))

		path, loaded, err := loadEnvFile(cmd)
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(path))
		assert.False(t, loaded)
	})

	t.Run("Should reject env files outside the working directory", func(t *testing.T) {
		cmd := newEnvCommand()
		require.NoError(t, cmd.Flags().Set("env-file", filepath.Join(t.TempDir(), ".env")))

		_, _, err := loadEnvFile(cmd)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outside the project directory")
	})

	t.Run("Should export variables from an env file without clobbering the environment", func(t *testing.T) {
		originalWd, err := os.Getwd()
		require.NoError(t, err)
		tempDir := t.TempDir()
		require.NoError(t, os.Chdir(tempDir))
		defer func() {
			require.NoError(t, os.Chdir(originalWd))
		}()

		content := "AGENTFORGE_TEST_FRESH=from-file\nAGENTFORGE_TEST_TAKEN=from-file\n"
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".env"), []byte(content), 0o600))
		// Register both with the test for restoration, then unset the one the
		// file must be allowed to fill.
		t.Setenv("AGENTFORGE_TEST_TAKEN", "from-env")
		t.Setenv("AGENTFORGE_TEST_FRESH", "placeholder")
		require.NoError(t, os.Unsetenv("AGENTFORGE_TEST_FRESH"))

		cmd := newEnvCommand()
		require.NoError(t, cmd.Flags().Set("env-file", ".env"))

		_, loaded, err := loadEnvFile(cmd)
		require.NoError(t, err)
		assert.True(t, loaded)
		assert.Equal(t, "from-file", os.Getenv("AGENTFORGE_TEST_FRESH"))
		assert.Equal(t, "from-env", os.Getenv("AGENTFORGE_TEST_TAKEN"))
	})
}

func TestIsPathWithinDirectory(t *testing.T) {
	t.Run("Should accept children and the directory itself", func(t *testing.T) {
		assert.True(t, isPathWithinDirectory("/srv/app/.env", "/srv/app"))
		assert.True(t, isPathWithinDirectory("/srv/app", "/srv/app"))
	})

	t.Run("Should reject siblings and traversal escapes", func(t *testing.T) {
		assert.False(t, isPathWithinDirectory("/srv/app-data/.env", "/srv/app"))
		assert.False(t, isPathWithinDirectory("/srv/app/../other/.env", "/srv/app"))
	})
}
