package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWith_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	initWith("production", "warn", &buf)

	GetLogger().Info().Msg("hidden")
	Component("form").Warn().Msg("visible")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "form", entry["component"])
	assert.Equal(t, "angple-content", entry["service"])
}

func TestInitWith_DevelopmentDefaultsToDebug(t *testing.T) {
	var buf bytes.Buffer
	initWith("local", "", &buf)

	GetLogger().Debug().Msg("debug line")
	assert.Contains(t, buf.String(), "debug line")
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	initWith("production", "info", &buf)

	l := WithRequestID("abc123")
	l.Info().Msg("req")
	assert.Contains(t, buf.String(), `"request_id":"abc123"`)
}

func TestIsDevelopmentEnv(t *testing.T) {
	assert.True(t, IsDevelopmentEnv("LOCAL"))
	assert.True(t, IsDevelopmentEnv("dev"))
	assert.False(t, IsDevelopmentEnv("production"))
}
