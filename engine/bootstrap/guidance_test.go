package bootstrap

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivationPaths(t *testing.T) {
	t.Run("Should use bin with forward slashes on POSIX", func(t *testing.T) {
		activate, pip, py := activationPaths("/home/dev/.venv", "linux")
		assert.Equal(t, "/home/dev/.venv/bin/activate", activate)
		assert.Equal(t, "/home/dev/.venv/bin/pip", pip)
		assert.Equal(t, "/home/dev/.venv/bin/python", py)
	})

	t.Run("Should use Scripts with backslashes on Windows", func(t *testing.T) {
		activate, pip, py := activationPaths(`C:\dev\.venv`, "windows")
		assert.Equal(t, `C:\dev\.venv\Scripts\activate`, activate)
		assert.Equal(t, `C:\dev\.venv\Scripts\pip`, pip)
		assert.Equal(t, `C:\dev\.venv\Scripts\python`, py)
	})
}

func TestWriteActivationHelp(t *testing.T) {
	t.Run("Should tell POSIX users to source the activate script", func(t *testing.T) {
		var buf bytes.Buffer
		writeActivationHelp(&buf, "/home/dev/.venv", "linux")
		assert.Contains(t, buf.String(), "source /home/dev/.venv/bin/activate")
		assert.Contains(t, buf.String(), "Pip:      /home/dev/.venv/bin/pip")
	})

	t.Run("Should print the bare activate path on Windows", func(t *testing.T) {
		var buf bytes.Buffer
		writeActivationHelp(&buf, `C:\dev\.venv`, "windows")
		assert.NotContains(t, buf.String(), "source")
		assert.Contains(t, buf.String(), `C:\dev\.venv\Scripts\activate`)
	})
}
