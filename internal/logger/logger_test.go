package logger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		" fatal ": zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got, s)
	}

	_, ok := ParseLogLevel("verbose")
	require.False(t, ok)
}

// TestFromContext_FallsBackToGlobal checks that an empty context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestWithKV_AttachesFields ensures fields added to the context show up on every entry.
func TestWithKV_AttachesFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())
	ctx = WithName(ctx, "gate")
	ctx = WithKV(ctx, "uid", "DEADBEEF")

	InfoKV(ctx, "Card read", "attempt", 1)

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "gate", entries[0].LoggerName)
	require.Equal(t, "DEADBEEF", entries[0].ContextMap()["uid"])
	require.EqualValues(t, 1, entries[0].ContextMap()["attempt"])
}

// TestConfigure_RejectsUnknownLevel verifies that bad levels are reported instead of ignored.
func TestConfigure_RejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := Configure(Options{Level: "chatty", File: filepath.Join(t.TempDir(), "x.log")})
	require.ErrorIs(t, err, errUnknownLevel)
}
