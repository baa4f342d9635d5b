package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/goldirana/agentforge/cli/tui/models"
)

// Sentinel errors the executor's error categorization matches against.
var (
	// ErrNetwork marks errors caused by unreachable remote services
	ErrNetwork = errors.New("network error")

	// ErrGeneration marks errors raised while rendering a project
	ErrGeneration = errors.New("generation error")
)

// NetworkError wraps a failure to reach a remote service, such as the GitHub
// releases endpoint used by the update check.
type NetworkError struct {
	Operation string // human description of the attempted call
	Cause     error
}

func (e *NetworkError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("network error during %s", e.Operation)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match any NetworkError against the ErrNetwork sentinel.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// GenerationError wraps a failed project generation with the template that
// produced it.
type GenerationError struct {
	Template string
	Cause    error
}

func (e *GenerationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("generation from template %s failed", e.Template)
	}
	return fmt.Sprintf("generation from template %s failed: %v", e.Template, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match any GenerationError against ErrGeneration.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

// NewNetworkError wraps cause as a NetworkError for the given operation.
func NewNetworkError(operation string, cause error) error {
	return &NetworkError{Operation: operation, Cause: cause}
}

// NewGenerationError wraps cause as a GenerationError for template.
func NewGenerationError(template string, cause error) error {
	return &GenerationError{Template: template, Cause: cause}
}

// CliError is the structured error surfaced to users. In JSON mode it is
// rendered verbatim, so its fields are part of the CLI's output contract.
type CliError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *CliError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewCliError creates a structured CLI error. The first detail string, when
// given, becomes the error's Details field.
func NewCliError(code, message string, details ...string) *CliError {
	err := &CliError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// IsTimeoutError reports whether an error represents an expired deadline.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "timeout") || strings.Contains(lower, "timed out")
}

// IsNetworkError reports whether an error stems from a failed remote call.
// Errors from libraries that do not wrap ErrNetwork are caught by message
// inspection.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNetwork) {
		return true
	}
	lower := strings.ToLower(err.Error())
	for _, keyword := range []string{
		"connection refused", "connection reset", "connection timeout",
		"no route to host", "network unreachable", "dns",
		"name resolution failed", "temporary failure",
	} {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// IsGenerationError reports whether an error came from a failed project
// generation.
func IsGenerationError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrGeneration) {
		return true
	}
	lower := strings.ToLower(err.Error())
	for _, keyword := range []string{
		"template not found", "generation failed", "render",
		"target directory", "python_version",
	} {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// OutputError writes an error to stderr, formatted for the active mode.
func OutputError(err error, mode models.Mode) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err, mode))
}

// FormatError renders an error for the given output mode.
func FormatError(err error, mode models.Mode) string {
	if err == nil {
		return ""
	}
	if mode == models.ModeJSON {
		return formatErrorJSON(err)
	}
	return formatErrorTUI(err)
}

func formatErrorJSON(err error) string {
	message, details := splitErrorParts(err)
	payload := map[string]any{
		"error":   SanitizeForJSON(message),
		"details": SanitizeForJSON(details),
	}
	data, marshalErr := json.MarshalIndent(payload, "", "  ")
	if marshalErr != nil {
		return `{"error": "JSON marshaling failed", "details": ""}`
	}
	return string(data)
}

func formatErrorTUI(err error) string {
	message, details := splitErrorParts(err)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	out := fmt.Sprintf("%s %s", errorIcon(err), style.Render(message))
	if details != "" {
		detailStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
		out += "\n" + detailStyle.Render("Details: "+details)
	}
	return out
}

// splitErrorParts separates the headline from supporting detail. Structured
// CLI errors carry the split already; plain errors have no detail part.
func splitErrorParts(err error) (message, details string) {
	var cliErr *CliError
	if errors.As(err, &cliErr) {
		return cliErr.Message, cliErr.Details
	}
	return err.Error(), ""
}

func errorIcon(err error) string {
	switch {
	case IsNetworkError(err):
		return "🌐"
	case IsGenerationError(err):
		return "📦"
	case IsTimeoutError(err):
		return "⏰"
	default:
		return "❌"
	}
}
