package bootstrap

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// GitkeepContent is the placeholder written into every provisioned directory
// so empty directories survive a git checkout.
const GitkeepContent = "# This file ensures the directory is tracked by git\n"

// PlaceholderDirs lists the project-relative directories provisioned during
// bootstrap. Order matters only for readable output.
var PlaceholderDirs = []string{
	"backend/data/external",
	"backend/data/interim",
	"backend/data/processed",
	"backend/artifacts",
	"backend/notebooks",
}

// ProvisionDirs creates every placeholder directory under projectDir and
// writes the gitkeep file into each. Re-running overwrites the placeholder
// with identical content. Filesystem errors propagate to the caller and halt
// the bootstrap.
func ProvisionDirs(fs afero.Fs, projectDir string) ([]string, error) {
	created := make([]string, 0, len(PlaceholderDirs))
	for _, dir := range PlaceholderDirs {
		target := filepath.Join(projectDir, dir)
		if err := fs.MkdirAll(target, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", target, err)
		}
		gitkeep := filepath.Join(target, ".gitkeep")
		if err := afero.WriteFile(fs, gitkeep, []byte(GitkeepContent), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", gitkeep, err)
		}
		created = append(created, target)
	}
	return created, nil
}
