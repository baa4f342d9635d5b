package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/goldirana/agentforge/cli/helpers"
	"github.com/goldirana/agentforge/cli/tui/models"
	"github.com/goldirana/agentforge/pkg/logger"
	"github.com/goldirana/agentforge/pkg/template"
	"github.com/spf13/cobra"
)

// CommandExecutor carries the setup every command needs before it can run:
// the detected output mode and, when requested, the template registry. It
// keeps that boilerplate out of the individual command packages.
type CommandExecutor struct {
	mode models.Mode

	// templates is populated only when ExecutorOptions asks for it
	templates template.Service
}

// HandlerFunc defines the signature for command handlers.
type HandlerFunc func(ctx context.Context, cmd *cobra.Command, executor *CommandExecutor, args []string) error

// ModeHandlers pairs a command's JSON and TUI implementations. A nil handler
// means the command does not support that mode.
type ModeHandlers struct {
	JSON HandlerFunc
	TUI  HandlerFunc
}

// ExecutorOptions selects which services the executor resolves up front.
type ExecutorOptions struct {
	RequireTemplates bool
}

// NewCommandExecutor resolves the per-invocation setup commands share.
func NewCommandExecutor(cmd *cobra.Command, opts ExecutorOptions) (*CommandExecutor, error) {
	mode := helpers.DetectMode(cmd)
	logger.FromContext(cmd.Context()).Debug("detected execution mode", "mode", mode)
	executor := &CommandExecutor{mode: mode}
	if opts.RequireTemplates {
		service := template.GetService()
		if len(service.List()) == 0 {
			return nil, fmt.Errorf("no project templates are registered")
		}
		executor.templates = service
	}
	return executor, nil
}

// Execute runs the handler matching the detected mode.
func (e *CommandExecutor) Execute(ctx context.Context, cmd *cobra.Command, handlers ModeHandlers, args []string) error {
	var handler HandlerFunc
	switch e.mode {
	case models.ModeJSON:
		handler = handlers.JSON
	case models.ModeTUI:
		handler = handlers.TUI
	default:
		return fmt.Errorf("unsupported mode: %s", e.mode)
	}
	if handler == nil {
		return fmt.Errorf("%s mode not implemented for this command", e.mode)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	return handler(ctx, cmd, e, args)
}

// GetTemplateService returns the configured template service.
func (e *CommandExecutor) GetTemplateService() template.Service {
	return e.templates
}

// GetMode reports which output mode the executor resolved at startup.
func (e *CommandExecutor) GetMode() models.Mode {
	return e.mode
}

// ExecuteCommand is the entry point command packages call from their RunE.
// It builds the executor, dispatches to the right mode handler and reports
// any failure on stderr in the active mode's format.
func ExecuteCommand(cmd *cobra.Command, opts ExecutorOptions, handlers ModeHandlers, args []string) error {
	executor, err := NewCommandExecutor(cmd, opts)
	if err != nil {
		return HandleCommonErrors(err, helpers.DetectMode(cmd))
	}
	runErr := executor.Execute(cmd.Context(), cmd, handlers, args)
	return HandleCommonErrors(runErr, executor.GetMode())
}

// HandleCommonErrors reports an error to the user and normalizes it into a
// structured CLI error when it falls into a known category.
func HandleCommonErrors(err error, mode models.Mode) error {
	if err == nil {
		return nil
	}
	reported := err
	if cliErr := categorizeError(err); cliErr != nil {
		reported = cliErr
	}
	helpers.OutputError(reported, mode)
	return reported
}

// categorizeError maps known failure classes to structured CLI errors.
// Cancellation and deadline checks come first so a canceled network call is
// reported as a cancellation, not a network failure.
func categorizeError(err error) *helpers.CliError {
	switch {
	case errors.Is(err, context.Canceled):
		return helpers.NewCliError("OPERATION_CANCELED", "Operation was canceled by user")
	case errors.Is(err, context.DeadlineExceeded):
		return helpers.NewCliError("OPERATION_TIMEOUT", "Operation timed out")
	case helpers.IsNetworkError(err):
		return helpers.NewCliError("NETWORK_ERROR", "Network connection failed", err.Error())
	case helpers.IsGenerationError(err):
		return helpers.NewCliError("GENERATION_ERROR", "Project generation failed", err.Error())
	case helpers.IsTimeoutError(err):
		return helpers.NewCliError("OPERATION_TIMEOUT", "Operation timed out", err.Error())
	default:
		return nil
	}
}
