// Package vcs turns a freshly generated project into a git repository with
// a single initial commit. Failures here are reported and never abort the
// generation run.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/goldirana/agentforge/pkg/logger"
)

// InitialCommitMessage is used for the first commit of every generated
// project.
const InitialCommitMessage = "Initial commit from agentforge"

const defaultAuthorName = "agentforge"
const defaultAuthorEmail = "agentforge@localhost"

// GitInitializer creates a repository with an initial commit inside a
// generated project directory.
type GitInitializer interface {
	Init(ctx context.Context, projectDir, authorName string) error
}

// GoGitInitializer is the go-git backed GitInitializer used outside of tests.
type GoGitInitializer struct{}

func NewGoGitInitializer() *GoGitInitializer {
	return &GoGitInitializer{}
}

// Init creates the repository, stages everything under projectDir and writes
// the initial commit. An existing repository is reported as an error so the
// caller can surface it without re-staging user history.
func (g *GoGitInitializer) Init(ctx context.Context, projectDir, authorName string) error {
	repo, err := git.PlainInit(projectDir, false)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryAlreadyExists) {
			return fmt.Errorf("git repository already exists in %s", projectDir)
		}
		return fmt.Errorf("failed to initialize git repository: %w", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}
	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage generated files: %w", err)
	}
	name := authorName
	if name == "" {
		name = defaultAuthorName
	}
	commit, err := worktree.Commit(InitialCommitMessage, &git.CommitOptions{
		Author: &object.Signature{
			Name:  name,
			Email: defaultAuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create initial commit: %w", err)
	}
	logger.FromContext(ctx).Debug("Initialized git repository",
		"dir", projectDir,
		"commit", commit.String(),
	)
	return nil
}
