package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Service: "blog", Version: "test", Env: "prod", Level: "info", Format: "json", Output: &buf})
	defer slog.SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	logger.Debug("hidden")
	logger.Info("shown", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "blog", entry["service"])
	assert.Equal(t, "test", entry["version"])
	assert.Equal(t, "prod", entry["env"])
	assert.Equal(t, "value", entry["key"])
	assert.Same(t, logger, slog.Default())
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Service: "blog", Env: "prod", Level: "debug", Format: "text", Output: &buf})

	logger.Debug("tinted", "n", 1)
	assert.Contains(t, buf.String(), "tinted")
	assert.Contains(t, buf.String(), "n=1")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestContext(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := WithContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}

func TestBadgerLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var l badger.Logger = NewBadgerLogger(base)
	l.Debugf("dropped %d", 1)
	l.Warningf("value log %s\n", "rotated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "value log rotated", entry["msg"])
	assert.Equal(t, "badger", entry["component"])
}
