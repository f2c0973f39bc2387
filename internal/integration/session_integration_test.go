package integration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/card-gate/internal/domain/access"
	"github.com/oshokin/card-gate/internal/mockauthority"
)

const (
	staffCard   = "04A1B2C3D4E5F6"
	visitorCard = "DEADBEEF"
)

// TestSession_StartSuppressEnd walks a card through a full session.
func TestSession_StartSuppressEnd(t *testing.T) {
	t.Parallel()

	e := newEndpoint(t, mockauthority.PathCheck, staffCard)

	event := e.tap(t, staffCard)
	require.Equal(t, access.ResultGranted, event.Result)
	require.NotEmpty(t, event.RequestID)
	require.True(t, e.authority.InSession(staffCard))

	event = e.tap(t, staffCard)
	require.True(t, event.Suppressed)
	require.Equal(t, 1, e.authority.Requests())

	e.clock.Advance(access.DefaultCooldown)

	event = e.tap(t, staffCard)
	require.Equal(t, access.ResultEnded, event.Result)
	require.False(t, e.authority.InSession(staffCard))

	require.Equal(t, []string{access.LineGranted, access.LineEnded}, e.wire.lines())
	require.Equal(t, 3, e.cards.Halts())
}

// TestSession_ThroughRedirect follows the legacy route's single redirect.
func TestSession_ThroughRedirect(t *testing.T) {
	t.Parallel()

	e := newEndpoint(t, mockauthority.PathRedirect, staffCard)

	require.Equal(t, access.ResultGranted, e.tap(t, staffCard).Result)
	require.Equal(t, access.ResultDenied, e.tap(t, visitorCard).Result)
	require.Equal(t, 2, e.authority.Requests())
	require.Equal(t, []string{access.LineGranted, access.LineDenied}, e.wire.lines())
}

// TestSession_DifferentCardsNotDebounced lets a second card through at once.
func TestSession_DifferentCardsNotDebounced(t *testing.T) {
	t.Parallel()

	e := newEndpoint(t, mockauthority.PathCheck)

	require.Equal(t, access.ResultGranted, e.tap(t, staffCard).Result)
	require.Equal(t, access.ResultGranted, e.tap(t, visitorCard).Result)
	require.Equal(t, access.ResultEnded, e.tap(t, staffCard).Result)
	require.Equal(t, 3, e.authority.Requests())
	require.Len(t, e.events, 3)
}
