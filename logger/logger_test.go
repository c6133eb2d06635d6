package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debug("debug", "k", "v")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")
	assert.Equal(t, NopLogger{}, l.With("k", "v"))
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, NopLogger{}, OrNop(nil))

	s := NewSlogAdapter(nil)
	assert.Same(t, s, OrNop(s))
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	l := NewSlogAdapter(slog.New(handler)).With("component", "merger")

	l.Debug("merged file", "path", "mars.yml")
	l.Warn("skipped file", "path", "moons.yml")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "merged file")
	assert.Contains(t, out, "component=merger")
	assert.Contains(t, out, "path=moons.yml")
}

func TestZapAdapter(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewZapAdapter(zap.New(core)).With("component", "walker")

	l.Info("listed files", "count", 4)
	l.Error("walk failed", "dir", "/tmp/missing")

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, "listed files", entries[0].Message)
	assert.Equal(t, "walker", entries[0].ContextMap()["component"])
	assert.EqualValues(t, 4, entries[0].ContextMap()["count"])
	assert.Equal(t, "walk failed", entries[1].Message)
}

func TestNewZapAdapterNil(t *testing.T) {
	l := NewZapAdapter(nil)
	l.Info("discarded")
	assert.NoError(t, l.Sync())
}

func TestNewZap(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"debug console", "debug", FormatConsole},
		{"info json", "info", FormatJSON},
		{"unknown level falls back to info", "verbose", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewZap(tt.level, tt.format)
			require.NoError(t, err)
			require.NotNil(t, l)
		})
	}
}

func TestContextLogger(t *testing.T) {
	ctx := context.WithValue(context.Background(), struct{}{}, "x")
	l := NewContextLogger(nil, ctx)
	l.Info("discarded")
	child := l.With("k", "v")

	cl, ok := child.(*ContextLogger)
	require.True(t, ok)
	assert.Equal(t, ctx, cl.Context())
}
