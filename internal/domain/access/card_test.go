package access

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNewCardID verifies uppercase fixed-width rendering and rejection of empty UIDs.
func TestNewCardID(t *testing.T) {
	t.Parallel()

	id, err := NewCardID([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	require.NoError(t, err)
	require.Equal(t, "DEADBEEF", id.String())

	id, err = NewCardID([]byte{0x01, 0x0A, 0x00})
	require.NoError(t, err)
	require.Equal(t, "010A00", id.String())

	_, err = NewCardID(nil)
	require.ErrorIs(t, err, ErrEmptyCardID)
}

// TestParseCardID checks tolerant parsing of typed identifiers.
func TestParseCardID(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"deadbeef", "DE:AD:BE:EF", " de-ad-be-ef\n", "DE AD BE EF"} {
		id, err := ParseCardID(in)
		require.NoError(t, err, in)
		require.Equal(t, "DEADBEEF", id.String(), in)
	}

	_, err := ParseCardID("XYZ")
	require.ErrorIs(t, err, ErrMalformedCardID)

	_, err = ParseCardID("")
	require.ErrorIs(t, err, ErrEmptyCardID)
}

// TestCardIDEqual ensures equality follows the hex rendering.
func TestCardIDEqual(t *testing.T) {
	t.Parallel()

	a, err := NewCardID([]byte{0xAB})
	require.NoError(t, err)

	b, err := ParseCardID("ab")
	require.NoError(t, err)

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(CardID{}))
	require.True(t, CardID{}.IsZero())
}
