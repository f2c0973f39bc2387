package peer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/oshokin/card-gate/internal/logger"
)

// Notifier delivers one line of text to the peer.
type Notifier interface {
	Notify(ctx context.Context, line string) error
	Close() error
}

// Send delivers line and logs a failure instead of returning it.
func Send(ctx context.Context, n Notifier, line string) {
	if err := n.Notify(ctx, line); err != nil {
		logger.WarnKV(ctx, "Peer notification failed", "line", line, "error", err)

		return
	}

	logger.DebugKV(ctx, "Peer notified", "line", line)
}

// errClosed is returned by a Stream after Close.
var errClosed = errors.New("peer stream is closed")

// Stream writes CRLF-terminated lines to a byte stream.
type Stream struct {
	mu     sync.Mutex
	w      io.WriteCloser
	closed bool
}

// NewStream wraps w.
func NewStream(w io.WriteCloser) *Stream {
	return &Stream{w: w}
}

// Notify implements Notifier.
func (s *Stream) Notify(_ context.Context, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed
	}

	if _, err := io.WriteString(s.w, line+"\r\n"); err != nil {
		return fmt.Errorf("write line: %w", err)
	}

	return nil
}

// Close implements Notifier.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	return s.w.Close()
}

// Log writes lines to the diagnostic log.
type Log struct{}

// Notify implements Notifier.
func (Log) Notify(ctx context.Context, line string) error {
	logger.InfoKV(ctx, "Peer line", "line", line)

	return nil
}

// Close implements Notifier.
func (Log) Close() error {
	return nil
}
