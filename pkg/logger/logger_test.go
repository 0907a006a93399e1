package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypervisual/swiss-compliance/pkg/logger"
)

func TestNew_JSONOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	l.Info().Str("uid", "CHE-123.456.788").Msg("declaration calculated")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "declaration calculated", line["message"])
	assert.Equal(t, "CHE-123.456.788", line["uid"])
	assert.Contains(t, line, "time")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "WARN", Output: &buf})

	l.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "debug", Output: &buf})

	zl := l.WithComponent("qrbill")
	zl.Debug().Msg("QR-bill generated")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "qrbill", line["component"])
}

func TestNew_ConsoleInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "development", Output: &buf})
	l.Info().Msg("ready")

	assert.Contains(t, buf.String(), "ready")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
