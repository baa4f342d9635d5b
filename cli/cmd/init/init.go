package initcmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/goldirana/agentforge/cli/cmd"
	initcomponents "github.com/goldirana/agentforge/cli/cmd/init/components"
	"github.com/goldirana/agentforge/cli/helpers"
	"github.com/goldirana/agentforge/cli/tui/styles"
	"github.com/goldirana/agentforge/engine/bootstrap"
	"github.com/goldirana/agentforge/engine/project"
	"github.com/goldirana/agentforge/engine/python"
	"github.com/goldirana/agentforge/engine/vcs"
	"github.com/goldirana/agentforge/pkg/config"
	"github.com/goldirana/agentforge/pkg/logger"
	"github.com/goldirana/agentforge/pkg/template"
)

// NewInitCommand creates the init command using the unified command pattern
func NewInitCommand() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Generate a new Python project from a template",
		Long: `Generate a new Python project from a registered template.

Runs an interactive form in a terminal; in non-interactive mode every answer
comes from flags and configuration. The target directory defaults to the
project slug and must be empty or absent.`,
		Args: cobra.MaximumNArgs(1),
		RunE: executeInitCommand,
	}
	initCmd.Flags().StringP("name", "n", "", "Project name")
	initCmd.Flags().StringP("description", "d", "", "Project description")
	initCmd.Flags().StringP("author", "a", "", "Author name")
	initCmd.Flags().String("python-version", "", "Python interpreter version, e.g. 3.12")
	initCmd.Flags().Bool("venv", false, "Create a virtual environment after generation")
	initCmd.Flags().Bool("no-venv", false, "Skip virtual environment creation")
	initCmd.Flags().String("venv-name", "", "Virtual environment directory name")
	initCmd.Flags().StringP("template", "t", "", "Template to generate from")
	initCmd.Flags().Bool("git", false, "Initialize a git repository with an initial commit")
	initCmd.Flags().BoolP("yes", "y", false, "Accept the resolved answers without prompting")
	initCmd.MarkFlagsMutuallyExclusive("venv", "no-venv")
	return initCmd
}

// executeInitCommand handles the init command execution
func executeInitCommand(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
		RequireTemplates: true,
	}, cmd.ModeHandlers{
		JSON: handleInitJSON,
		TUI:  handleInitTUI,
	}, args)
}

// initRequest carries the resolved answers plus the optional directory
// argument through the generation pipeline.
type initRequest struct {
	data      *initcomponents.ProjectFormData
	directory string
}

// initResult is the machine-readable outcome of a generation run.
type initResult struct {
	ProjectDir     string   `json:"project_dir"`
	RecordID       string   `json:"record_id,omitempty"`
	Template       string   `json:"template"`
	DirsCreated    []string `json:"dirs_created,omitempty"`
	VenvPath       string   `json:"venv_path,omitempty"`
	VenvCreated    bool     `json:"venv_created"`
	GitInitialized bool     `json:"git_initialized"`
}

// handleInitTUI handles init in TUI mode
func handleInitTUI(
	ctx context.Context,
	cobraCmd *cobra.Command,
	executor *cmd.CommandExecutor,
	args []string,
) error {
	log := logger.FromContext(ctx)
	log.Debug("executing init command in TUI mode")
	request, err := buildInitRequest(cobraCmd, args)
	if err != nil {
		return err
	}
	acceptDefaults, err := cobraCmd.Flags().GetBool("yes")
	if err != nil {
		return fmt.Errorf("failed to get yes flag: %w", err)
	}
	service := executor.GetTemplateService()
	if !acceptDefaults {
		model := initcomponents.NewInitModel(request.data, service.List())
		program := tea.NewProgram(model)
		finalModel, err := program.Run()
		if err != nil {
			return fmt.Errorf("failed to run init form: %w", err)
		}
		if m, ok := finalModel.(*initcomponents.InitModel); ok && m.IsCanceled() {
			return helpers.NewCliError("OPERATION_CANCELED", "Project initialization canceled")
		}
	}
	result, err := runGeneration(ctx, service, request, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Println(styles.SuccessStyle.Render("✓ Project ready at " + result.ProjectDir))
	if result.VenvCreated {
		copyActivationCommand(ctx, result.VenvPath)
	}
	return nil
}

// handleInitJSON handles init in JSON mode
func handleInitJSON(
	ctx context.Context,
	cobraCmd *cobra.Command,
	executor *cmd.CommandExecutor,
	args []string,
) error {
	log := logger.FromContext(ctx)
	log.Debug("executing init command in JSON mode")
	request, err := buildInitRequest(cobraCmd, args)
	if err != nil {
		return err
	}
	if request.data.Name == "" {
		return helpers.NewCliError(
			"MISSING_FLAG",
			"project name is required in non-interactive mode",
			"pass --name or a [directory] argument",
		)
	}
	// Human progress goes to stderr so stdout stays parseable.
	result, err := runGeneration(ctx, executor.GetTemplateService(), request, os.Stderr)
	if err != nil {
		return err
	}
	writer := helpers.NewOutputWriter(os.Stdout, helpers.OutputFormatJSON)
	return writer.WriteData(result)
}

// buildInitRequest resolves the answer set from flags, configuration and the
// directory argument, in that precedence order.
func buildInitRequest(cobraCmd *cobra.Command, args []string) (*initRequest, error) {
	cfg := config.FromContext(cobraCmd.Context())
	name, err := cobraCmd.Flags().GetString("name")
	if err != nil {
		return nil, fmt.Errorf("failed to get name flag: %w", err)
	}
	description, err := cobraCmd.Flags().GetString("description")
	if err != nil {
		return nil, fmt.Errorf("failed to get description flag: %w", err)
	}
	author, err := cobraCmd.Flags().GetString("author")
	if err != nil {
		return nil, fmt.Errorf("failed to get author flag: %w", err)
	}
	pythonVersion, err := cobraCmd.Flags().GetString("python-version")
	if err != nil {
		return nil, fmt.Errorf("failed to get python-version flag: %w", err)
	}
	venvName, err := cobraCmd.Flags().GetString("venv-name")
	if err != nil {
		return nil, fmt.Errorf("failed to get venv-name flag: %w", err)
	}
	templateName, err := cobraCmd.Flags().GetString("template")
	if err != nil {
		return nil, fmt.Errorf("failed to get template flag: %w", err)
	}
	directory := ""
	if len(args) > 0 {
		directory = args[0]
	}
	if name == "" && directory != "" {
		name = project.DeriveTitle(filepath.Base(directory))
	}
	data := &initcomponents.ProjectFormData{
		Name:             name,
		Description:      description,
		Author:           firstNonEmpty(author, cfg.Project.Author),
		PythonVersion:    firstNonEmpty(pythonVersion, cfg.Python.Version),
		CreateVirtualenv: resolveVenvFlag(cobraCmd, cfg),
		VenvName:         firstNonEmpty(venvName, cfg.Python.VenvName),
		Template:         firstNonEmpty(templateName, cfg.Project.DefaultTemplate),
		GitInit:          resolveGitFlag(cobraCmd, cfg),
	}
	return &initRequest{data: data, directory: directory}, nil
}

func resolveVenvFlag(cobraCmd *cobra.Command, cfg *config.Config) bool {
	if cobraCmd.Flags().Changed("no-venv") {
		return false
	}
	if cobraCmd.Flags().Changed("venv") {
		return true
	}
	return cfg.Python.CreateVirtualenv
}

func resolveGitFlag(cobraCmd *cobra.Command, cfg *config.Config) bool {
	if cobraCmd.Flags().Changed("git") {
		return helpers.GetFlagBoolWithDefault(cobraCmd, "git", cfg.Project.GitInit)
	}
	return cfg.Project.GitInit
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// runGeneration executes the full pipeline: pre-check, template rendering,
// generation record, bootstrap, then optional git init. Record and git
// failures are reported and do not fail the run.
func runGeneration(
	ctx context.Context,
	service template.Service,
	request *initRequest,
	out io.Writer,
) (*initResult, error) {
	log := logger.FromContext(ctx)
	data := request.data
	tplCtx := &project.Context{
		ProjectName:      data.Name,
		ProjectSlug:      project.DeriveSlug(data.Name),
		Description:      data.Description,
		AuthorName:       data.Author,
		PythonVersion:    data.PythonVersion,
		CreateVirtualenv: data.CreateVirtualenv,
		VenvName:         data.VenvName,
		GitInit:          data.GitInit,
		Template:         data.Template,
	}
	if err := tplCtx.Validate(ctx); err != nil {
		return nil, err
	}
	projectDir, err := resolveProjectDir(ctx, request.directory, tplCtx.ProjectSlug)
	if err != nil {
		return nil, err
	}
	runner := python.NewExecRunner()
	if err := tplCtx.Precheck(ctx, projectDir, python.HostProbe(runner)); err != nil {
		return nil, err
	}
	if err := service.Generate(tplCtx.Template, &template.GenerateOptions{
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
	}); err != nil {
		return nil, helpers.NewGenerationError(tplCtx.Template, err)
	}
	result := &initResult{ProjectDir: projectDir, Template: tplCtx.Template}
	result.RecordID = writeRecord(ctx, service, tplCtx, projectDir)
	report, err := bootstrap.NewSequencer(afero.NewOsFs(), runner, out).Run(ctx, tplCtx, projectDir)
	if err != nil {
		return nil, err
	}
	result.DirsCreated = report.DirsCreated
	result.VenvPath = report.VenvPath
	result.VenvCreated = report.VenvCreated
	if tplCtx.GitInit {
		if err := vcs.NewGoGitInitializer().Init(ctx, projectDir, tplCtx.AuthorName); err != nil {
			log.Warn("Git initialization failed; the generated project is unaffected", "error", err)
			fmt.Fprintln(out, styles.WarningStyle.Render("⚠️ Git initialization failed: "+err.Error()))
		} else {
			result.GitInitialized = true
		}
	}
	return result, nil
}

// writeRecord persists the generation record and returns its ID. A failed
// write only costs the dev command its re-render source, so it is reported
// and the run continues.
func writeRecord(
	ctx context.Context,
	service template.Service,
	tplCtx *project.Context,
	projectDir string,
) string {
	log := logger.FromContext(ctx)
	version := ""
	if tmpl, err := service.Get(tplCtx.Template); err == nil {
		version = tmpl.GetMetadata().Version
	}
	record := project.NewRecord(tplCtx.Template, version, tplCtx)
	if err := record.Write(ctx, projectDir); err != nil {
		log.Warn("Failed to write generation record; 'agentforge dev' will not work for this project", "error", err)
		return ""
	}
	return record.ID
}

// resolveProjectDir turns the directory argument (or the slug when absent)
// into an absolute target path under the configured working directory.
func resolveProjectDir(ctx context.Context, directory, slug string) (string, error) {
	target := directory
	if target == "" {
		target = slug
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target), nil
	}
	base := ""
	if cfg := config.FromContext(ctx); cfg != nil {
		base = cfg.CLI.CWD
	}
	if base == "" {
		cwd, err := helpers.GetWorkingDirectory()
		if err != nil {
			return "", err
		}
		base = cwd
	}
	return filepath.Join(base, target), nil
}

// copyActivationCommand puts the venv activation command on the clipboard.
// Best effort: headless environments have no clipboard and that is fine.
func copyActivationCommand(ctx context.Context, venvPath string) {
	activate := "source " + filepath.Join(venvPath, "bin", "activate")
	if runtime.GOOS == "windows" {
		activate = filepath.Join(venvPath, "Scripts", "activate")
	}
	if err := clipboard.WriteAll(activate); err != nil {
		logger.FromContext(ctx).Debug("clipboard unavailable", "error", err)
		return
	}
	fmt.Println(styles.HelpStyle.Render("📋 Activation command copied to clipboard"))
}
