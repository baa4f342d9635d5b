package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldirana/agentforge/cli/tui/models"
)

func TestNewCliError(t *testing.T) {
	t.Run("Should create error with code and message", func(t *testing.T) {
		err := NewCliError("TEST_ERROR", "Test message")
		assert.Equal(t, "TEST_ERROR", err.Code)
		assert.Equal(t, "Test message", err.Message)
		assert.Empty(t, err.Details)
		assert.False(t, err.Timestamp.IsZero())
	})

	t.Run("Should create error with details", func(t *testing.T) {
		err := NewCliError("TEST_ERROR", "Test message", "Additional details")
		assert.Equal(t, "Additional details", err.Details)
	})

	t.Run("Should implement error interface", func(t *testing.T) {
		err := NewCliError("TEST_ERROR", "Test message")
		assert.Equal(t, "TEST_ERROR: Test message", err.Error())

		errWithDetails := NewCliError("TEST_ERROR", "Test message", "Details")
		assert.Equal(t, "TEST_ERROR: Test message (Details)", errWithDetails.Error())
	})
}

func TestNetworkError(t *testing.T) {
	t.Run("Should include operation and cause in message", func(t *testing.T) {
		err := NewNetworkError("update check", errors.New("connection refused"))
		assert.Equal(t, "network error during update check: connection refused", err.Error())
	})

	t.Run("Should match the network sentinel", func(t *testing.T) {
		err := NewNetworkError("update check", errors.New("connection refused"))
		assert.True(t, errors.Is(err, ErrNetwork))
		assert.False(t, errors.Is(err, ErrGeneration))
	})

	t.Run("Should unwrap to the cause", func(t *testing.T) {
		cause := errors.New("tls handshake failed")
		err := NewNetworkError("release lookup", cause)
		assert.Equal(t, cause, errors.Unwrap(err))
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("Should include template and cause in message", func(t *testing.T) {
		err := NewGenerationError("agent-backend", errors.New("target exists"))
		assert.Equal(t, "generation from template agent-backend failed: target exists", err.Error())
	})

	t.Run("Should match the generation sentinel", func(t *testing.T) {
		err := NewGenerationError("agent-backend", errors.New("target exists"))
		assert.True(t, errors.Is(err, ErrGeneration))
		assert.False(t, errors.Is(err, ErrNetwork))
	})

	t.Run("Should survive wrapping", func(t *testing.T) {
		err := fmt.Errorf("init failed: %w", NewGenerationError("agent-backend", errors.New("boom")))
		assert.True(t, errors.Is(err, ErrGeneration))
	})
}

func TestIsTimeoutError(t *testing.T) {
	t.Run("Should detect expired context deadlines", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		<-ctx.Done()
		assert.True(t, IsTimeoutError(ctx.Err()))
	})

	t.Run("Should detect timeouts by message", func(t *testing.T) {
		assert.True(t, IsTimeoutError(NewCliError("TIMEOUT", "operation timeout")))
		assert.True(t, IsTimeoutError(NewCliError("TIMEOUT", "request timed out")))
	})

	t.Run("Should reject everything else", func(t *testing.T) {
		assert.False(t, IsTimeoutError(nil))
		assert.False(t, IsTimeoutError(NewCliError("OTHER", "not a deadline problem")))
	})
}

func TestIsNetworkError(t *testing.T) {
	t.Run("Should detect wrapped network errors", func(t *testing.T) {
		err := fmt.Errorf("check failed: %w", NewNetworkError("update check", errors.New("boom")))
		assert.True(t, IsNetworkError(err))
	})

	t.Run("Should detect network errors by message", func(t *testing.T) {
		for _, msg := range []string{
			"connection refused",
			"connection timeout",
			"no route to host",
			"dns resolution failed",
		} {
			assert.True(t, IsNetworkError(errors.New(msg)), "message: %s", msg)
		}
	})

	t.Run("Should reject everything else", func(t *testing.T) {
		assert.False(t, IsNetworkError(nil))
		assert.False(t, IsNetworkError(NewCliError("OTHER", "not remote at all")))
	})
}

func TestIsGenerationError(t *testing.T) {
	t.Run("Should detect wrapped generation errors", func(t *testing.T) {
		err := fmt.Errorf("init failed: %w", NewGenerationError("agent-backend", errors.New("boom")))
		assert.True(t, IsGenerationError(err))
	})

	t.Run("Should detect generation errors by message", func(t *testing.T) {
		assert.True(t, IsGenerationError(errors.New(`template not found: "missing"`)))
		assert.True(t, IsGenerationError(errors.New("target directory already exists")))
	})

	t.Run("Should reject everything else", func(t *testing.T) {
		assert.False(t, IsGenerationError(nil))
		assert.False(t, IsGenerationError(errors.New("flag parse failure")))
	})
}

func TestFormatError(t *testing.T) {
	t.Run("Should format structured errors as JSON", func(t *testing.T) {
		err := NewCliError("TEST_ERROR", "Test message", "Test details")
		formatted := FormatError(err, models.ModeJSON)

		var payload map[string]string
		require.NoError(t, json.Unmarshal([]byte(formatted), &payload))
		assert.Equal(t, "Test message", payload["error"])
		assert.Equal(t, "Test details", payload["details"])
	})

	t.Run("Should format plain errors as JSON without details", func(t *testing.T) {
		formatted := FormatError(errors.New("plain failure"), models.ModeJSON)

		var payload map[string]string
		require.NoError(t, json.Unmarshal([]byte(formatted), &payload))
		assert.Equal(t, "plain failure", payload["error"])
		assert.Empty(t, payload["details"])
	})

	t.Run("Should format errors for the terminal", func(t *testing.T) {
		err := NewCliError("TEST_ERROR", "Test message", "Test details")
		formatted := FormatError(err, models.ModeTUI)
		assert.Contains(t, formatted, "❌")
		assert.Contains(t, formatted, "Test message")
		assert.Contains(t, formatted, "Details: Test details")
	})

	t.Run("Should pick the icon from the error category", func(t *testing.T) {
		network := NewNetworkError("update check", errors.New("boom"))
		assert.Contains(t, FormatError(network, models.ModeTUI), "🌐")

		generation := NewGenerationError("agent-backend", errors.New("boom"))
		assert.Contains(t, FormatError(generation, models.ModeTUI), "📦")

		timeout := NewCliError("TIMEOUT", "operation timed out")
		assert.Contains(t, FormatError(timeout, models.ModeTUI), "⏰")
	})

	t.Run("Should handle nil error", func(t *testing.T) {
		assert.Empty(t, FormatError(nil, models.ModeJSON))
		assert.Empty(t, FormatError(nil, models.ModeTUI))
	})
}
