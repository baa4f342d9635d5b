package dev

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/goldirana/agentforge/cli/cmd"
	cliutils "github.com/goldirana/agentforge/cli/helpers"
	"github.com/goldirana/agentforge/engine/project"
	"github.com/goldirana/agentforge/pkg/config"
	"github.com/goldirana/agentforge/pkg/logger"
	"github.com/goldirana/agentforge/pkg/template"
)

// NewDevCommand creates the dev command using the unified command pattern
func NewDevCommand() *cobra.Command {
	devCmd := &cobra.Command{
		Use:   "dev [directory]",
		Short: "Re-render a generated project while its template changes",
		Long: `Development loop for template authors. Loads the generation record of an
existing project, re-renders it with the recorded answers, and when a
template directory is configured (templates.dir) keeps watching that
directory and re-rendering on every change.`,
		Args: cobra.MaximumNArgs(1),
		RunE: executeDevCommand,
	}

	devCmd.Flags().String("exec", "", "Command to run after each re-render (parsed like a shell)")
	devCmd.Flags().Bool("once", false, "Re-render once and exit without watching")
	// Both flags feed configuration through the CLI provider, so they share
	// names with templates.dir and templates.dev_debounce in the registry.
	devCmd.Flags().String("templates-dir", "", "Directory holding the template source to watch")
	devCmd.Flags().Duration("debounce", 0, "Debounce window for the file watcher")

	return devCmd
}

// executeDevCommand dispatches through the shared executor. The watch loop is
// identical in both modes; mode only changes how failures are reported.
func executeDevCommand(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
		RequireTemplates: true,
	}, cmd.ModeHandlers{JSON: runDevLoop, TUI: runDevLoop}, args)
}

// runDevLoop loads the project's generation record and re-renders it from the
// recorded answers. With a configured template directory the loop watches it
// and re-renders on changes until interrupted; without one the re-render runs
// once against the registered template.
func runDevLoop(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	log := logger.FromContext(ctx)
	cfg := config.FromContext(ctx)

	projectDir, err := resolveTargetDir(cfg, args)
	if err != nil {
		return err
	}
	record, err := project.LoadRecord(ctx, projectDir)
	if err != nil {
		return fmt.Errorf("cannot start dev loop: %w", err)
	}
	tplCtx, err := record.TemplateContext()
	if err != nil {
		return err
	}
	if err := tplCtx.Validate(ctx); err != nil {
		return err
	}
	execCommand, err := cobraCmd.Flags().GetString("exec")
	if err != nil {
		return fmt.Errorf("failed to get exec flag: %w", err)
	}
	once, err := cobraCmd.Flags().GetBool("once")
	if err != nil {
		return fmt.Errorf("failed to get once flag: %w", err)
	}

	templateDir := ""
	if cfg != nil {
		templateDir = cfg.Templates.Dir
	}
	var dirTemplate *template.DirTemplate
	if templateDir != "" {
		dirTemplate, err = template.LoadDir(ctx, templateDir)
		if err != nil {
			return err
		}
		if name := dirTemplate.GetMetadata().Name; name != record.Template {
			return fmt.Errorf(
				"template directory %s provides %q but the project was generated from %q",
				templateDir, name, record.Template,
			)
		}
		if err := template.Replace(record.Template, dirTemplate); err != nil {
			return err
		}
		log.Info("Using template directory", "dir", templateDir, "template", record.Template)
	}

	service := executor.GetTemplateService()
	render := func(ctx context.Context) error {
		start := time.Now()
		if dirTemplate != nil {
			if err := dirTemplate.Reload(ctx); err != nil {
				return fmt.Errorf("failed to reload template directory: %w", err)
			}
		}
		if err := service.Generate(record.Template, renderOptions(ctx, projectDir, tplCtx)); err != nil {
			return cliutils.NewGenerationError(record.Template, err)
		}
		log.Info("Project re-rendered",
			"dir", projectDir,
			"template", record.Template,
			"took", cliutils.FormatDuration(time.Since(start)),
		)
		return runExec(ctx, projectDir, execCommand)
	}

	if err := render(ctx); err != nil {
		return err
	}
	if once || templateDir == "" {
		if templateDir == "" {
			log.Info("No template directory configured; re-rendered once from the recorded answers")
		}
		return nil
	}
	return watchAndRender(ctx, templateDir, cfg.Templates.DevDebounce, render)
}

// renderOptions rebuilds generation options from the recorded template context.
func renderOptions(ctx context.Context, projectDir string, tplCtx *project.Context) *template.GenerateOptions {
	return &template.GenerateOptions{
		Context:          ctx,
		Path:             projectDir,
		Name:             tplCtx.ProjectName,
		Slug:             tplCtx.ProjectSlug,
		Description:      tplCtx.Description,
		Author:           tplCtx.AuthorName,
		PythonVersion:    tplCtx.PythonVersion,
		VenvName:         tplCtx.VenvName,
		CreateVirtualenv: tplCtx.CreateVirtualenv,
		GitInit:          tplCtx.GitInit,
		Overwrite:        true,
	}
}

// resolveTargetDir resolves the project directory argument against the
// configured working directory.
func resolveTargetDir(cfg *config.Config, args []string) (string, error) {
	target := "."
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target), nil
	}
	base := ""
	if cfg != nil {
		base = cfg.CLI.CWD
	}
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current working directory: %w", err)
		}
		base = wd
	}
	return filepath.Join(base, target), nil
}

// runExec runs the user-supplied command inside the project directory after a
// re-render. The command string is parsed with a shell lexer so quoted
// arguments survive.
func runExec(ctx context.Context, dir, command string) error {
	if command == "" {
		return nil
	}
	parts, err := shlex.Split(command)
	if err != nil {
		return fmt.Errorf("failed to parse exec command: %w", err)
	}
	if len(parts) == 0 {
		return fmt.Errorf("exec command cannot be empty")
	}
	execCmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	execCmd.Dir = dir
	execCmd.Stdout = os.Stdout
	execCmd.Stderr = os.Stderr
	if err := execCmd.Run(); err != nil {
		return fmt.Errorf("exec command failed: %w", err)
	}
	return nil
}
