package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSensitiveString_Redaction(t *testing.T) {
	t.Run("Should redact through Stringer formatting", func(t *testing.T) {
		token := SensitiveString("ghp_agentforge_token")
		assert.Equal(t, "[REDACTED]", token.String())
		assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", token))
		assert.Equal(t, "[REDACTED]", fmt.Sprintf("%s", token))
	})

	t.Run("Should keep empty values empty so unset secrets render as absent", func(t *testing.T) {
		assert.Equal(t, "", SensitiveString("").String())
	})

	t.Run("Should expose the raw value only through Value", func(t *testing.T) {
		token := SensitiveString("ghp_agentforge_token")
		assert.Equal(t, "ghp_agentforge_token", token.Value())
	})
}

func TestSensitiveString_JSON(t *testing.T) {
	t.Run("Should redact when marshaled inside a struct", func(t *testing.T) {
		payload := struct {
			Token SensitiveString `json:"token"`
			Owner string          `json:"owner"`
		}{
			Token: SensitiveString("ghp_agentforge_token"),
			Owner: "goldirana",
		}

		data, err := json.Marshal(payload)
		require.NoError(t, err)

		var decoded map[string]string
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "[REDACTED]", decoded["token"])
		assert.Equal(t, "goldirana", decoded["owner"])
	})

	t.Run("Should marshal empty value as empty string", func(t *testing.T) {
		data, err := json.Marshal(SensitiveString(""))
		require.NoError(t, err)
		assert.Equal(t, `""`, string(data))
	})

	t.Run("Should unmarshal plain strings", func(t *testing.T) {
		var token SensitiveString
		require.NoError(t, json.Unmarshal([]byte(`"from-disk"`), &token))
		assert.Equal(t, "from-disk", token.Value())
	})
}

func TestSensitiveStringDecodeHook(t *testing.T) {
	target := reflect.TypeOf(SensitiveString(""))

	t.Run("Should convert strings to SensitiveString", func(t *testing.T) {
		out, err := sensitiveStringDecodeHook(reflect.TypeOf(""), target, "raw-token")
		require.NoError(t, err)
		assert.Equal(t, SensitiveString("raw-token"), out)
	})

	t.Run("Should convert byte slices to SensitiveString", func(t *testing.T) {
		out, err := sensitiveStringDecodeHook(reflect.TypeOf([]byte(nil)), target, []byte("raw-token"))
		require.NoError(t, err)
		assert.Equal(t, SensitiveString("raw-token"), out)
	})

	t.Run("Should pass through values headed for other types", func(t *testing.T) {
		out, err := sensitiveStringDecodeHook(reflect.TypeOf(""), reflect.TypeOf(""), "plain")
		require.NoError(t, err)
		assert.Equal(t, "plain", out)
	})
}

func TestSensitiveConfigPaths(t *testing.T) {
	t.Run("Should mark the release token as sensitive", func(t *testing.T) {
		assert.True(t, IsSensitiveConfigPath("release.token"))
	})

	t.Run("Should leave ordinary paths unmarked", func(t *testing.T) {
		assert.False(t, IsSensitiveConfigPath("project.author"))
		assert.False(t, IsSensitiveConfigPath("python.version"))
	})

	t.Run("Should resolve env bindings from struct tags", func(t *testing.T) {
		assert.Equal(t, "AGENTFORGE_GITHUB_TOKEN", GetEnvVarForConfigPath("release.token"))
		assert.Equal(t, "", GetEnvVarForConfigPath("no.such.path"))
		assert.Equal(t, "release.token", GenerateEnvToConfigMap()["AGENTFORGE_GITHUB_TOKEN"])
	})
}
