package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldirana/agentforge/cli/helpers"
	"github.com/goldirana/agentforge/cli/tui/models"
)

func newTestExecutor(t *testing.T) *CommandExecutor {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.SetContext(context.Background())
	executor, err := NewCommandExecutor(cmd, ExecutorOptions{})
	require.NoError(t, err)
	return executor
}

func TestCommandExecutor_Execute(t *testing.T) {
	t.Run("Should dispatch to the handler for the detected mode", func(t *testing.T) {
		executor := newTestExecutor(t)
		require.Equal(t, models.ModeJSON, executor.GetMode())

		called := false
		handlers := ModeHandlers{
			JSON: func(_ context.Context, _ *cobra.Command, _ *CommandExecutor, _ []string) error {
				called = true
				return nil
			},
		}

		cmd := &cobra.Command{Use: "test"}
		cmd.SetContext(context.Background())
		require.NoError(t, executor.Execute(context.Background(), cmd, handlers, nil))
		assert.True(t, called)
	})

	t.Run("Should fail when the mode has no handler", func(t *testing.T) {
		executor := newTestExecutor(t)

		cmd := &cobra.Command{Use: "test"}
		cmd.SetContext(context.Background())
		err := executor.Execute(context.Background(), cmd, ModeHandlers{TUI: func(_ context.Context, _ *cobra.Command, _ *CommandExecutor, _ []string) error {
			return nil
		}}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not implemented")
	})

	t.Run("Should propagate handler errors", func(t *testing.T) {
		executor := newTestExecutor(t)

		boom := errors.New("handler failed")
		handlers := ModeHandlers{
			JSON: func(_ context.Context, _ *cobra.Command, _ *CommandExecutor, _ []string) error {
				return boom
			},
		}

		cmd := &cobra.Command{Use: "test"}
		cmd.SetContext(context.Background())
		assert.ErrorIs(t, executor.Execute(context.Background(), cmd, handlers, nil), boom)
	})
}

func TestHandleCommonErrors(t *testing.T) {
	t.Run("Should pass nil through", func(t *testing.T) {
		assert.NoError(t, HandleCommonErrors(nil, models.ModeJSON))
	})

	t.Run("Should categorize cancellation", func(t *testing.T) {
		err := HandleCommonErrors(fmt.Errorf("run: %w", context.Canceled), models.ModeJSON)

		var cliErr *helpers.CliError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, "OPERATION_CANCELED", cliErr.Code)
	})

	t.Run("Should categorize deadline expiry", func(t *testing.T) {
		err := HandleCommonErrors(fmt.Errorf("run: %w", context.DeadlineExceeded), models.ModeJSON)

		var cliErr *helpers.CliError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, "OPERATION_TIMEOUT", cliErr.Code)
	})

	t.Run("Should categorize network failures", func(t *testing.T) {
		cause := helpers.NewNetworkError("update check", errors.New("connection refused"))
		err := HandleCommonErrors(cause, models.ModeJSON)

		var cliErr *helpers.CliError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, "NETWORK_ERROR", cliErr.Code)
		assert.Contains(t, cliErr.Details, "connection refused")
	})

	t.Run("Should categorize generation failures", func(t *testing.T) {
		cause := helpers.NewGenerationError("agent-backend", errors.New("target directory already exists"))
		err := HandleCommonErrors(cause, models.ModeJSON)

		var cliErr *helpers.CliError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, "GENERATION_ERROR", cliErr.Code)
	})

	t.Run("Should return uncategorized errors unchanged", func(t *testing.T) {
		boom := errors.New("flag parse failure")
		assert.ErrorIs(t, HandleCommonErrors(boom, models.ModeJSON), boom)
	})
}
