// Package bootstrap runs the ordered post-generation steps that turn a
// rendered template into a working project: data directories, virtual
// environment, activation guidance and the welcome banner.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"

	"github.com/goldirana/agentforge/engine/project"
	"github.com/goldirana/agentforge/engine/python"
	"github.com/goldirana/agentforge/pkg/logger"
)

// Report captures per-step outcomes. Steps are independent and
// non-transactional, so a partial report is still meaningful.
type Report struct {
	ProjectDir  string
	DirsCreated []string
	Interpreter *python.Interpreter
	VenvPath    string
	VenvCreated bool
	VenvSkipped bool
}

// Sequencer executes the bootstrap steps in order. Failure of one step never
// rolls back prior steps.
type Sequencer struct {
	fs     afero.Fs
	runner python.CommandRunner
	out    io.Writer
}

func NewSequencer(fs afero.Fs, runner python.CommandRunner, out io.Writer) *Sequencer {
	return &Sequencer{fs: fs, runner: runner, out: out}
}

// Run provisions the project directories, then optionally discovers an
// interpreter and creates the virtual environment, prints activation
// guidance on success and always closes with the banner. Only directory
// provisioning errors abort the run.
func (s *Sequencer) Run(ctx context.Context, tplCtx *project.Context, projectDir string) (*Report, error) {
	if tplCtx == nil {
		return nil, errors.New("template context cannot be nil")
	}
	fmt.Fprintln(s.out, "🚀 Initializing your multi-agent system project...")
	report := &Report{ProjectDir: projectDir}
	created, err := ProvisionDirs(s.fs, projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to provision project directories: %w", err)
	}
	report.DirsCreated = created
	s.writeStructureSummary(projectDir)
	if tplCtx.CreateVirtualenv {
		s.provisionVenv(ctx, tplCtx, projectDir, report)
	}
	fmt.Fprintf(s.out, "%s\n", welcomeBanner)
	return report, nil
}

func (s *Sequencer) writeStructureSummary(projectDir string) {
	location := projectDir
	if abs, err := filepath.Abs(projectDir); err == nil {
		location = abs
	}
	fmt.Fprintln(s.out, "✅ Project structure created successfully!")
	fmt.Fprintf(s.out, "📁 Your project is located at: %s\n", location)
	writeNextSteps(s.out)
}

func (s *Sequencer) provisionVenv(ctx context.Context, tplCtx *project.Context, projectDir string, report *Report) {
	log := logger.FromContext(ctx)
	interpreter, err := python.Discover(ctx, s.runner, tplCtx.PythonVersion)
	if err != nil {
		report.VenvSkipped = true
		fmt.Fprintln(s.out, "⚠️ Could not find a Python interpreter; skipping venv creation.")
		return
	}
	report.Interpreter = interpreter
	venvPath, err := python.CreateVenv(ctx, s.runner, interpreter.Path, projectDir, tplCtx.VenvName)
	if err != nil {
		log.Warn("Virtual environment creation failed", "interpreter", interpreter.Path, "error", err)
		fmt.Fprintf(s.out, "❌ Failed to create venv with %s: %v\n", interpreter.Path, err)
		fmt.Fprintln(s.out, "⚠️ Venv creation failed; please set it up manually.")
		return
	}
	report.VenvPath = venvPath
	report.VenvCreated = true
	writeActivationHelp(s.out, venvPath, runtime.GOOS)
}
