package tplengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasTemplate(t *testing.T) {
	cases := map[string]struct {
		in   string
		want bool
	}{
		"empty string":          {"", false},
		"plain text":            {"plain text", false},
		"action":                {"Hello {{ .name }}", true},
		"trim marker":           {"Hello {{- .name -}}", true},
		"single brace artifact": {"Hello {not a template}", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, HasTemplate(tc.in))
		})
	}
}

func TestEngine_Render(t *testing.T) {
	engine := NewEngine()

	t.Run("Should pass strings without markers through unchanged", func(t *testing.T) {
		out, err := engine.Render("no templates here", nil)
		require.NoError(t, err)
		assert.Equal(t, "no templates here", out)
	})

	t.Run("Should substitute values from the data map", func(t *testing.T) {
		out, err := engine.Render("Hello {{ .name }}", map[string]any{"name": "World"})
		require.NoError(t, err)
		assert.Equal(t, "Hello World", out)
	})

	t.Run("Should resolve snake_case keys the way answer maps use them", func(t *testing.T) {
		out, err := engine.Render("{{ .project_name }} by {{ .author_name }}", map[string]any{
			"project_name": "Agent Backend",
			"author_name":  "Ada",
		})
		require.NoError(t, err)
		assert.Equal(t, "Agent Backend by Ada", out)
	})

	t.Run("Should expose the sprig function set", func(t *testing.T) {
		out, err := engine.Render(`{{ "hello" | upper }}`, nil)
		require.NoError(t, err)
		assert.Equal(t, "HELLO", out)
	})

	t.Run("Should fail on references to missing keys", func(t *testing.T) {
		_, err := engine.Render("Hi {{ .name }}", map[string]any{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "template execution error")
	})

	t.Run("Should fail on malformed template syntax", func(t *testing.T) {
		_, err := engine.Render("{{ .unclosed", map[string]any{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse template")
	})
}

func TestEngine_Resolve(t *testing.T) {
	engine := NewEngine()

	t.Run("Should render nested maps, slices and leave other types alone", func(t *testing.T) {
		in := map[string]any{
			"slug":    `{{ .project_name | lower | replace " " "-" }}`,
			"version": "3.12",
			"count":   2,
			"nested": map[string]any{
				"greeting": "Hello {{ .author_name }}",
			},
			"list": []any{"{{ .project_name }}", 7},
		}
		data := map[string]any{
			"project_name": "Agent Backend",
			"author_name":  "Ada",
		}

		out, err := engine.Resolve(in, data)
		require.NoError(t, err)

		m, ok := out.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "agent-backend", m["slug"])
		assert.Equal(t, "3.12", m["version"])
		assert.Equal(t, 2, m["count"])
		nested, ok := m["nested"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Hello Ada", nested["greeting"])
		assert.Equal(t, []any{"Agent Backend", 7}, m["list"])
	})

	t.Run("Should restore rendered booleans to bool values", func(t *testing.T) {
		out, err := engine.Resolve(
			map[string]any{"enabled": "{{ .git_init }}"},
			map[string]any{"git_init": true},
		)
		require.NoError(t, err)
		m, ok := out.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, true, m["enabled"])
	})

	t.Run("Should resolve nil to nil", func(t *testing.T) {
		out, err := engine.Resolve(nil, nil)
		require.NoError(t, err)
		assert.Nil(t, out)
	})

	t.Run("Should name the offending key on failure", func(t *testing.T) {
		_, err := engine.Resolve(map[string]any{"bad": "{{ .missing }}"}, map[string]any{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "key bad")
	})

	t.Run("Should name the offending index on failure", func(t *testing.T) {
		_, err := engine.Resolve([]any{"fine", "{{ .missing }}"}, map[string]any{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "index 1")
	})
}
