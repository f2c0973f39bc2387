package integration

import (
	"bytes"
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/card-gate/internal/api/grpc/health"
	"github.com/oshokin/card-gate/internal/clock"
	"github.com/oshokin/card-gate/internal/domain/access"
	"github.com/oshokin/card-gate/internal/mockauthority"
	"github.com/oshokin/card-gate/internal/service/authority"
	"github.com/oshokin/card-gate/internal/service/feedback"
	"github.com/oshokin/card-gate/internal/service/gate"
	"github.com/oshokin/card-gate/internal/service/link"
	"github.com/oshokin/card-gate/internal/service/peer"
	"github.com/oshokin/card-gate/internal/service/reader"
	"github.com/oshokin/card-gate/internal/service/server"
)

const testToken = "integration-token"

// wire is an in-memory serial line.
type wire struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *wire) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.buf.Write(p)
}

func (*wire) Close() error { return nil }

func (w *wire) lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return strings.Split(strings.TrimSuffix(w.buf.String(), "\r\n"), "\r\n")
}

// endpoint is a card-gate assembled from real components, driven by a fake clock.
type endpoint struct {
	clock      *clock.Fake
	network    *link.Manual
	supervisor *link.Supervisor
	signaler   *feedback.Signaler
	status     *health.Status
	cards      *reader.Queue
	wire       *wire
	controller *gate.Controller
	authority  *mockauthority.Authority
	events     []gate.Event
}

// newEndpoint starts a mock authority accepting allowed cards and builds an
// endpoint that reaches it through route.
func newEndpoint(t *testing.T, route string, allowed ...string) *endpoint {
	t.Helper()

	ctx := context.Background()

	e := &endpoint{
		clock:     clock.NewFake(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)),
		network:   link.NewManual(true, "10.0.0.7"),
		status:    health.NewStatus(),
		cards:     reader.NewQueue(reader.DefaultQueueSize),
		wire:      &wire{},
		authority: mockauthority.New(testToken, allowed...),
	}

	mock, err := mockauthority.Start(ctx, "127.0.0.1:0", e.authority)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mock.Shutdown() })

	e.signaler = feedback.NewSignaler(feedback.NewLogPanel(ctx), e.clock)
	e.supervisor = link.NewSupervisor(e.network, e.clock,
		link.WithFaultIndicator(e.signaler),
		link.WithObserver(e.status.SetLink),
	)
	e.status.SetReader(true)

	e.controller = gate.NewController(gate.Deps{
		Reader:    e.cards,
		Requester: authority.NewEngine(e.supervisor, authority.WithTimeout(5*time.Second)),
		Tokens:    authority.NewTokenSource(testToken, ""),
		BaseURL:   mock.URL(route),
		Signals:   e.signaler,
		Peer:      peer.NewStream(e.wire),
		Clock:     e.clock,
	},
		gate.WithCooldown(access.DefaultCooldown),
		gate.WithHealthChecker(e.supervisor),
		gate.WithObserver(func(ev gate.Event) { e.events = append(e.events, ev) }),
	)

	require.True(t, e.supervisor.EnsureConnected(ctx))

	return e
}

// tap presents uid and runs it through the controller.
func (e *endpoint) tap(t *testing.T, uid string) gate.Event {
	t.Helper()

	id, err := access.ParseCardID(uid)
	require.NoError(t, err)
	require.NoError(t, e.cards.Tap(id))

	event, ok := e.controller.ProcessCard(context.Background())
	require.True(t, ok)

	return event
}

// serveHealth exposes the endpoint health over gRPC and returns its address.
func (e *endpoint) serveHealth(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())

	lc := net.ListenConfig{}
	lis, err := lc.Listen(ctx, "tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)

	go func() {
		done <- server.Serve(ctx, lis, e.status)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
	})

	return lis.Addr().String()
}
