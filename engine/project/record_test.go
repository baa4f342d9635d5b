package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	t.Run("Should capture template, version and answers", func(t *testing.T) {
		record := NewRecord("agent-backend", "0.3.0", testContext())
		assert.NotEmpty(t, record.ID)
		assert.Equal(t, "agent-backend", record.Template)
		assert.Equal(t, "0.3.0", record.Version)
		assert.False(t, record.GeneratedAt.IsZero())
		assert.Equal(t, "Agent Backend", record.Answers["project_name"])
		assert.Equal(t, "3.12", record.Answers["python_version"])
		assert.Equal(t, true, record.Answers["create_virtualenv"])
	})
}

func TestRecord_WriteAndLoad(t *testing.T) {
	t.Run("Should round-trip through the project directory", func(t *testing.T) {
		projectDir := t.TempDir()
		record := NewRecord("agent-backend", "0.3.0", testContext())
		require.NoError(t, record.Write(t.Context(), projectDir))

		loaded, err := LoadRecord(t.Context(), projectDir)
		require.NoError(t, err)
		assert.Equal(t, record.ID, loaded.ID)
		assert.Equal(t, record.Template, loaded.Template)
		assert.Equal(t, record.Version, loaded.Version)
		assert.Equal(t, "agent-backend", loaded.Answers["project_slug"])
		assert.Equal(t, ".venv", loaded.Answers["venv_name"])
	})

	t.Run("Should refuse to write an invalid record", func(t *testing.T) {
		record := NewRecord("agent-backend", "0.3.0", testContext())
		record.ID = "not-a-uuid"
		assert.Error(t, record.Write(t.Context(), t.TempDir()))
	})

	t.Run("Should report a missing record distinctly", func(t *testing.T) {
		_, err := LoadRecord(t.Context(), t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no generation record found")
	})

	t.Run("Should reject a record missing required answers", func(t *testing.T) {
		projectDir := t.TempDir()
		raw := "id: 550e8400-e29b-41d4-a716-446655440000\n" +
			"template: agent-backend\n" +
			"answers:\n" +
			"  project_name: Agent Backend\n" +
			"  project_slug: agent-backend\n" +
			"  python_version: \"3.12\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(projectDir, RecordFileName), []byte(raw), 0o644))
		_, err := LoadRecord(t.Context(), projectDir)
		assert.Error(t, err)
	})

	t.Run("Should reject a record with a malformed python version", func(t *testing.T) {
		projectDir := t.TempDir()
		raw := "id: 550e8400-e29b-41d4-a716-446655440000\n" +
			"template: agent-backend\n" +
			"answers:\n" +
			"  project_name: Agent Backend\n" +
			"  project_slug: agent-backend\n" +
			"  python_version: \"3\"\n" +
			"  venv_name: .venv\n"
		require.NoError(t, os.WriteFile(filepath.Join(projectDir, RecordFileName), []byte(raw), 0o644))
		_, err := LoadRecord(t.Context(), projectDir)
		assert.Error(t, err)
	})
}

func TestRecord_TemplateContext(t *testing.T) {
	t.Run("Should rebuild the context from recorded answers", func(t *testing.T) {
		record := NewRecord("agent-backend", "0.3.0", testContext())
		rebuilt, err := record.TemplateContext()
		require.NoError(t, err)
		assert.Equal(t, "Agent Backend", rebuilt.ProjectName)
		assert.Equal(t, "agent-backend", rebuilt.ProjectSlug)
		assert.Equal(t, "3.12", rebuilt.PythonVersion)
		assert.True(t, rebuilt.CreateVirtualenv)
		assert.Equal(t, ".venv", rebuilt.VenvName)
	})

	t.Run("Should resolve templated answers against the answer set", func(t *testing.T) {
		record := NewRecord("agent-backend", "0.3.0", testContext())
		record.Answers["venv_name"] = "{{ .project_slug }}-env"
		rebuilt, err := record.TemplateContext()
		require.NoError(t, err)
		assert.Equal(t, "agent-backend-env", rebuilt.VenvName)
	})
}
