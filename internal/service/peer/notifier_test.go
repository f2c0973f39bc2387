package peer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/oshokin/card-gate/internal/config"
	"github.com/oshokin/card-gate/internal/logger"
)

var errTestWrite = errors.New("test write error")

type bufferCloser struct {
	bytes.Buffer
	closed int
}

func (b *bufferCloser) Close() error {
	b.closed++

	return nil
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, string) error { return errTestWrite }
func (failingNotifier) Close() error                         { return nil }

// TestStream_CRLF terminates every line with CRLF.
func TestStream_CRLF(t *testing.T) {
	t.Parallel()

	buf := &bufferCloser{}
	stream := NewStream(buf)

	require.NoError(t, stream.Notify(context.Background(), "System Ready"))
	require.NoError(t, stream.Notify(context.Background(), "Access Granted!"))
	require.Equal(t, "System Ready\r\nAccess Granted!\r\n", buf.String())

	require.NoError(t, stream.Close())
	require.NoError(t, stream.Close())
	require.Equal(t, 1, buf.closed)
	require.ErrorIs(t, stream.Notify(context.Background(), "late"), errClosed)
}

// TestSend_SwallowsErrors logs a failed delivery without returning it.
func TestSend_SwallowsErrors(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core).Sugar())

	Send(ctx, failingNotifier{}, "Access Denied")

	entries := logs.FilterMessage("Peer notification failed").All()
	require.Len(t, entries, 1)
	require.Equal(t, "Access Denied", entries[0].ContextMap()["line"])
}

// TestOpen_Log builds the log notifier and rejects unknown types.
func TestOpen_Log(t *testing.T) {
	t.Parallel()

	notifier, err := Open(context.Background(), config.Peer{Type: config.PeerLog})
	require.NoError(t, err)
	require.IsType(t, Log{}, notifier)
	require.NoError(t, notifier.Notify(context.Background(), "System Ready"))

	_, err = Open(context.Background(), config.Peer{Type: "carrier-pigeon"})
	require.ErrorIs(t, err, errUnknownType)
}
