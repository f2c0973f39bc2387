package link

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/card-gate/internal/clock"
)

var errTestStatus = errors.New("test status error")

// scriptedNetwork comes up after a number of status polls.
type scriptedNetwork struct {
	// upAfter is how many Status calls report Disconnected before Connected; -1 never connects.
	upAfter int
	// statusCalls counts Status invocations.
	statusCalls int
	// joins counts Join invocations.
	joins int
	// statusErr is returned by Status while the link is down.
	statusErr error
}

func (n *scriptedNetwork) Join(context.Context) error {
	n.joins++

	return nil
}

func (n *scriptedNetwork) Status(context.Context) (State, error) {
	n.statusCalls++

	if n.upAfter >= 0 && n.statusCalls > n.upAfter {
		return Connected, nil
	}

	return Disconnected, n.statusErr
}

func (n *scriptedNetwork) Address(context.Context) (string, error) {
	return "192.0.2.10", nil
}

// recordingFaults remembers the active fault reasons.
type recordingFaults struct {
	active map[string]bool
}

func (f *recordingFaults) RaiseFault(_ context.Context, reason string) {
	if f.active == nil {
		f.active = make(map[string]bool)
	}

	f.active[reason] = true
}

func (f *recordingFaults) ClearFault(_ context.Context, reason string) {
	delete(f.active, reason)
}

// TestEnsureConnected_AlreadyUp verifies that a live link is adopted without joining.
func TestEnsureConnected_AlreadyUp(t *testing.T) {
	t.Parallel()

	network := &scriptedNetwork{upAfter: 0}
	clk := clock.NewFake(time.Unix(0, 0))

	var changes []State

	s := NewSupervisor(network, clk, WithObserver(func(st State) { changes = append(changes, st) }))

	require.True(t, s.EnsureConnected(context.Background()))
	require.Equal(t, Connected, s.State())
	require.Zero(t, network.joins)
	require.Equal(t, []State{Connected}, changes)
}

// TestEnsureConnected_PollsUntilUp checks polling cadence until the link appears.
func TestEnsureConnected_PollsUntilUp(t *testing.T) {
	t.Parallel()

	network := &scriptedNetwork{upAfter: 4}
	clk := clock.NewFake(time.Unix(0, 0))
	faults := new(recordingFaults)

	s := NewSupervisor(network, clk, WithFaultIndicator(faults))

	require.True(t, s.EnsureConnected(context.Background()))
	require.Equal(t, 1, network.joins)
	require.Equal(t, Connected, s.State())
	// One status before joining, three failed polls, then success.
	require.Equal(t, 3*DefaultStatusPollInterval, clk.Slept())
	require.Empty(t, faults.active)
}

// TestEnsureConnected_TimesOut verifies the bounded wait and the raised fault.
func TestEnsureConnected_TimesOut(t *testing.T) {
	t.Parallel()

	network := &scriptedNetwork{upAfter: -1, statusErr: errTestStatus}
	clk := clock.NewFake(time.Unix(0, 0))
	faults := new(recordingFaults)

	s := NewSupervisor(
		network,
		clk,
		WithFaultIndicator(faults),
		WithConnectTimeout(2*time.Second),
		WithStatusPollInterval(250*time.Millisecond),
	)

	require.False(t, s.EnsureConnected(context.Background()))
	require.Equal(t, Disconnected, s.State())
	require.Equal(t, 2*time.Second, clk.Slept())
	require.True(t, faults.active[FaultReason])

	// A later success clears the fault.
	network.upAfter = 0
	require.True(t, s.EnsureConnected(context.Background()))
	require.Empty(t, faults.active)
}

// TestEnsureConnected_Canceled stops waiting when the context ends.
func TestEnsureConnected_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSupervisor(&scriptedNetwork{upAfter: -1}, clock.NewFake(time.Unix(0, 0)))

	require.False(t, s.EnsureConnected(ctx))
}

// TestCheckHealth_Reconnects exercises the health path in both directions.
func TestCheckHealth_Reconnects(t *testing.T) {
	t.Parallel()

	network := &scriptedNetwork{upAfter: 0}
	s := NewSupervisor(network, clock.NewFake(time.Unix(0, 0)))

	s.CheckHealth(context.Background())
	require.Equal(t, Connected, s.State())
	require.Zero(t, network.joins)

	// Link drops and comes back after two more polls.
	network.upAfter = network.statusCalls + 2
	s.CheckHealth(context.Background())
	require.Equal(t, Connected, s.State())
	require.Equal(t, 1, network.joins)
}

// TestState_String covers the textual states.
func TestState_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "connected", Connected.String())
	require.Equal(t, "disconnected", Disconnected.String())
}
