package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) (*Logger, *observer.ObservedLogs) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core, logs := observer.New(level)
	l := newLogger(core, level)
	old := DefaultLogger
	DefaultLogger = l
	t.Cleanup(func() {
		DefaultLogger = old
	})
	return l, logs
}

func TestOutput(t *testing.T) {
	l, logs := observe(t)

	Info("loaded", 3, "keys")
	Errorf("open %s failed", "dump.rdb")
	Debug("hidden")
	require.Equal(t, 2, logs.Len())

	entries := logs.All()
	assert.Equal(t, "loaded 3 keys", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.True(t, strings.HasSuffix(entries[0].Caller.File, "logger_test.go"), entries[0].Caller.File)
	assert.Equal(t, "open dump.rdb failed", entries[1].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)

	l.SetLevel(DEBUG)
	Debugf("shown %d", 1)
	Warn("careful")
	require.Equal(t, 4, logs.Len())
	assert.Equal(t, "shown 1", logs.All()[2].Message)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[3].Level)
}

func TestFileLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, err := NewFileLogger(&Settings{
		Path:  dir,
		Name:  "rdbkv",
		Level: "warn",
	})
	require.NoError(t, err)
	l.Output(INFO, 1, "dropped")
	l.Output(ERROR, 1, "kept")
	_ = l.Sync()

	content, err := os.ReadFile(filepath.Join(dir, "rdbkv.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "kept")
	assert.NotContains(t, string(content), "dropped")

	_, err = NewFileLogger(&Settings{Path: dir, Name: "x", Level: "loud"})
	assert.Error(t, err)
}
