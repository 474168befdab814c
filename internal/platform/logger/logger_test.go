package logger_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"fivepillars/internal/platform/logger"
)

func TestZapLoggerTagsModule(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zap.DebugLevel)
	l := logger.New(zap.New(core))

	l.Warn("persister", "write failed", map[string]any{"key": "sessions"})
	l.Error("persister", "flush failed", map[string]any{"error": errors.New("disk full")})
	l.Info("store", "no details", nil)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "write failed", entries[0].Message)
	assert.Equal(t, "persister", entries[0].ContextMap()["module"])
	assert.Equal(t, "disk full", entries[1].ContextMap()["error"])
	assert.Equal(t, zapcore.InfoLevel, entries[2].Level)
}

func TestNewZapLoggerWritesRotatedFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	l, err := logger.NewZapLogger(logger.Options{File: path, Level: "debug"})
	require.NoError(t, err)

	l.Debug("test", "hello", map[string]any{"n": 1})
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `"module":"test"`))
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, zapcore.WarnLevel, logger.ParseLevel("WARN"))
	assert.Equal(t, zapcore.InfoLevel, logger.ParseLevel("bogus"))
}
