package access

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// CardID is a reader UID rendered as uppercase hex, two digits per byte.
// The zero value is the "no card seen yet" sentinel.
type CardID struct {
	hex string
}

var (
	// ErrEmptyCardID is returned when the reader yields no UID bytes.
	ErrEmptyCardID = errors.New("card identifier is empty")
	// ErrMalformedCardID is returned when a textual UID is not valid hex.
	ErrMalformedCardID = errors.New("card identifier is not valid hex")
)

// NewCardID renders raw UID bytes.
func NewCardID(raw []byte) (CardID, error) {
	if len(raw) == 0 {
		return CardID{}, ErrEmptyCardID
	}

	return CardID{hex: strings.ToUpper(hex.EncodeToString(raw))}, nil
}

// ParseCardID accepts a hex UID as typed by an operator or sent by a
// keyboard-wedge reader. Colons, dashes and spaces between bytes are ignored.
func ParseCardID(s string) (CardID, error) {
	cleaned := strings.NewReplacer(":", "", "-", "", " ", "").Replace(strings.TrimSpace(s))

	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return CardID{}, fmt.Errorf("%q: %w", s, ErrMalformedCardID)
	}

	return NewCardID(raw)
}

// String returns the uppercase hex rendering.
func (c CardID) String() string {
	return c.hex
}

// IsZero reports whether c is the sentinel value.
func (c CardID) IsZero() bool {
	return c.hex == ""
}

// Equal reports whether both identifiers have the same rendering.
func (c CardID) Equal(other CardID) bool {
	return c.hex == other.hex
}
