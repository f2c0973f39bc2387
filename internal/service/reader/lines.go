package reader

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/oshokin/card-gate/internal/domain/access"
	"github.com/oshokin/card-gate/internal/logger"
)

// Stdin is the device name that selects standard input.
const Stdin = "-"

// Lines reads hex UIDs, one per line, as sent by keyboard-wedge and serial
// readers. Malformed lines are logged and skipped.
type Lines struct {
	*Queue

	src  io.Reader
	once sync.Once
	done chan struct{}
}

// NewLines starts scanning src in the background.
func NewLines(ctx context.Context, src io.Reader) *Lines {
	l := &Lines{
		Queue: NewQueue(DefaultQueueSize),
		src:   src,
		done:  make(chan struct{}),
	}

	go l.scan(logger.WithName(ctx, "lines-reader"))

	return l
}

// OpenLines opens device, or stdin for "-", and scans it.
func OpenLines(ctx context.Context, device string) (*Lines, error) {
	if device == "" || device == Stdin {
		return NewLines(ctx, os.Stdin), nil
	}

	file, err := os.Open(device)
	if err != nil {
		return nil, err
	}

	return NewLines(ctx, file), nil
}

// Done is closed when the source is exhausted.
func (l *Lines) Done() <-chan struct{} {
	return l.done
}

// Close implements Reader. Standard input is left open.
func (l *Lines) Close() error {
	var err error

	l.once.Do(func() {
		if closer, ok := l.src.(io.Closer); ok && l.src != os.Stdin {
			err = closer.Close()
		}
	})

	return err
}

func (l *Lines) scan(ctx context.Context) {
	defer close(l.done)

	scanner := bufio.NewScanner(l.src)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		id, err := access.ParseCardID(line)
		if err != nil {
			logger.WarnKV(ctx, "Ignoring malformed card line", "error", err)

			continue
		}

		if err = l.Tap(id); err != nil {
			logger.WarnKV(ctx, "Dropping card", "uid", id.String(), "error", err)
		}
	}

	if err := scanner.Err(); err != nil {
		logger.WarnKV(ctx, "Card source failed", "error", err)
	}
}
