package fixtures

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/uuid"
	"github.com/otiai10/copy"
	"github.com/stretchr/testify/require"
)

// TemplateDir copies the named template fixture into a fresh directory so a
// test can edit or re-render it without touching the checked-in tree.
func TemplateDir(t *testing.T, name string) string {
	t.Helper()
	srcPath := filepath.Join(fixturesRoot(t), "templates", name)
	dstPath := filepath.Join(t.TempDir(), "agentforge-test-"+uuid.New().String())
	require.NoError(t, copy.Copy(srcPath, dstPath))
	return dstPath
}

// fixturesRoot locates this package's directory regardless of the caller's
// working directory.
func fixturesRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok, "cannot locate fixtures directory")
	return filepath.Dir(file)
}
