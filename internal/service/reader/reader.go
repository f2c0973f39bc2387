package reader

import (
	"context"
	"errors"

	"github.com/oshokin/card-gate/internal/domain/access"
)

// Reader is a card reader session.
type Reader interface {
	// CardPresent reports whether a card is waiting to be read.
	CardPresent(ctx context.Context) bool
	// ReadUID reads the present card's identifier.
	ReadUID(ctx context.Context) (access.CardID, error)
	// Halt ends the current card session.
	Halt() error
	// Close releases the reader.
	Close() error
}

// ErrNoCard is returned by ReadUID when no card is present.
var ErrNoCard = errors.New("no card present")

// None never reports a card. It stands in for a reader that failed to open.
type None struct{}

// CardPresent implements Reader.
func (None) CardPresent(context.Context) bool { return false }

// ReadUID implements Reader.
func (None) ReadUID(context.Context) (access.CardID, error) { return access.CardID{}, ErrNoCard }

// Halt implements Reader.
func (None) Halt() error { return nil }

// Close implements Reader.
func (None) Close() error { return nil }
