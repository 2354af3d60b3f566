package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestBuildJSONEncoding(t *testing.T) {
	var buf bytes.Buffer
	log := build(Config{Level: "info", Encoding: "json"}, zapcore.AddSync(&buf))
	log.Info("snapshot restored", zap.String("key", "taskboard:snapshot"))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "snapshot restored", entry["msg"])
	assert.Equal(t, "taskboard:snapshot", entry["key"])
	assert.Contains(t, entry, "timestamp")
}

func TestBuildFallsBackToWarn(t *testing.T) {
	var buf bytes.Buffer
	log := build(Config{Level: "nonsense"}, zapcore.AddSync(&buf))
	log.Info("hidden")
	log.Warn("shown")
	require.NoError(t, log.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew(t *testing.T) {
	log, err := New(Config{Level: "debug", Encoding: "console"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}
