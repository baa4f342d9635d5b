package helpers

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/goldirana/agentforge/cli/tui/models"
	"github.com/goldirana/agentforge/pkg/config"
)

func commandWithConfig(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	ctx := context.WithValue(context.Background(), ConfigKey, cfg)
	cmd.SetContext(ctx)
	return cmd
}

func TestDetectMode(t *testing.T) {
	t.Run("Should honor explicit json mode", func(t *testing.T) {
		cmd := commandWithConfig(&config.Config{CLI: config.CLIConfig{Mode: "json"}})
		assert.Equal(t, models.ModeJSON, DetectMode(cmd))
	})

	t.Run("Should honor explicit tui mode", func(t *testing.T) {
		cmd := commandWithConfig(&config.Config{CLI: config.CLIConfig{Mode: "tui"}})
		assert.Equal(t, models.ModeTUI, DetectMode(cmd))
	})

	t.Run("Should default to JSON without a resolved configuration", func(t *testing.T) {
		cmd := &cobra.Command{Use: "test"}
		cmd.SetContext(context.Background())
		assert.Equal(t, models.ModeJSON, DetectMode(cmd))
	})

	t.Run("Should pick JSON for auto mode under CI", func(t *testing.T) {
		t.Setenv("CI", "true")
		cmd := commandWithConfig(&config.Config{CLI: config.CLIConfig{Mode: "auto"}})
		assert.Equal(t, models.ModeJSON, DetectMode(cmd))
	})

	t.Run("Should let the interactive override beat CI detection", func(t *testing.T) {
		t.Setenv("CI", "true")
		cmd := commandWithConfig(&config.Config{CLI: config.CLIConfig{Mode: "auto", Interactive: true}})
		assert.Equal(t, models.ModeTUI, DetectMode(cmd))
	})
}

func TestShouldUseColor(t *testing.T) {
	t.Run("Should respect the no_color setting", func(t *testing.T) {
		cmd := commandWithConfig(&config.Config{CLI: config.CLIConfig{NoColor: true}})
		assert.False(t, ShouldUseColor(cmd))
	})

	t.Run("Should respect the NO_COLOR convention", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		cmd := commandWithConfig(&config.Config{})
		assert.False(t, ShouldUseColor(cmd))
	})

	t.Run("Should disable color under CI", func(t *testing.T) {
		t.Setenv("GITHUB_ACTIONS", "true")
		cmd := commandWithConfig(&config.Config{})
		assert.False(t, ShouldUseColor(cmd))
	})
}
