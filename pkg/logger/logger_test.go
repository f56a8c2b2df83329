package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("verbose"))
}

func TestNewStructuredLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewStructuredLogger(&buf, "tunebar", "v1.0.0", "info", "")

	log.Debug("hidden")
	log.Info("menu refreshed", "revision", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "menu refreshed", rec["msg"])
	assert.Equal(t, "tunebar", rec["module"])
	assert.Equal(t, "v1.0.0", rec["version"])
	assert.EqualValues(t, 3, rec["revision"])
	assert.NotContains(t, rec, slog.SourceKey)
}

func TestNewStructuredLoggerText(t *testing.T) {
	var buf bytes.Buffer
	log := NewStructuredLogger(&buf, "tunebar", "v1.0.0", "debug", "text")

	log.Debug("click", "id", "/0/1")

	out := buf.String()
	assert.True(t, strings.Contains(out, "msg=click"))
	assert.True(t, strings.Contains(out, "id=/0/1"))
	assert.True(t, strings.Contains(out, "source="))
}
