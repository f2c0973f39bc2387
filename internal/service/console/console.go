package console

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oshokin/card-gate/internal/clock"
	"github.com/oshokin/card-gate/internal/domain/access"
	"github.com/oshokin/card-gate/internal/service/authority"
	"github.com/oshokin/card-gate/internal/service/feedback"
	"github.com/oshokin/card-gate/internal/service/gate"
	"github.com/oshokin/card-gate/internal/service/link"
	"github.com/oshokin/card-gate/internal/service/peer"
	"github.com/oshokin/card-gate/internal/service/reader"
)

// simulatedAddress is reported by the hand-switched link.
const simulatedAddress = "192.0.2.10"

// Console owns one simulated endpoint.
type Console struct {
	clock      *clock.Fake
	queue      *reader.Queue
	network    *link.Manual
	supervisor *link.Supervisor
	signaler   *feedback.Signaler
	controller *gate.Controller
	events     []gate.Event
}

// Settings configures a Console.
type Settings struct {
	BaseURL  string
	Token    string
	Cooldown time.Duration
	Notifier peer.Notifier
}

// New creates a Console with the link up.
func New(ctx context.Context, settings Settings) *Console {
	c := &Console{
		clock:   clock.NewFake(time.Now()),
		queue:   reader.NewQueue(reader.DefaultQueueSize),
		network: link.NewManual(true, simulatedAddress),
	}

	notifier := settings.Notifier
	if notifier == nil {
		notifier = peer.Log{}
	}

	c.signaler = feedback.NewSignaler(feedback.NewLogPanel(ctx), c.clock)
	c.supervisor = link.NewSupervisor(c.network, c.clock, link.WithFaultIndicator(c.signaler))
	c.controller = gate.NewController(gate.Deps{
		Reader:    c.queue,
		Requester: authority.NewEngine(c.supervisor),
		Tokens:    authority.StaticToken(settings.Token),
		BaseURL:   settings.BaseURL,
		Signals:   c.signaler,
		Peer:      notifier,
		Clock:     c.clock,
	},
		gate.WithCooldown(settings.Cooldown),
		gate.WithHealthChecker(c.supervisor),
		gate.WithObserver(func(e gate.Event) { c.events = append(c.events, e) }),
	)

	c.supervisor.EnsureConnected(ctx)

	return c
}

// Tap presents uid and runs the loop once. It returns the events produced.
func (c *Console) Tap(ctx context.Context, uid string) ([]gate.Event, error) {
	id, err := access.ParseCardID(uid)
	if err != nil {
		return nil, err
	}

	if err = c.queue.Tap(id); err != nil {
		return nil, err
	}

	seen := len(c.events)

	c.controller.Tick(ctx)

	return c.events[seen:], nil
}

// SetLink switches the simulated link and lets the supervisor notice.
func (c *Console) SetLink(ctx context.Context, up bool) link.State {
	c.network.Set(up)

	return c.Health(ctx)
}

// Health runs a link health check.
func (c *Console) Health(ctx context.Context) link.State {
	c.supervisor.CheckHealth(ctx)

	return c.supervisor.State()
}

// Advance moves the virtual clock forward.
func (c *Console) Advance(d time.Duration) {
	c.clock.Advance(d)
}

// Status summarizes the endpoint state.
func (c *Console) Status() string {
	state := c.controller.DebounceState()

	var b strings.Builder

	fmt.Fprintf(&b, "clock:    %s\n", c.clock.Now().Format(time.RFC3339Nano))
	fmt.Fprintf(&b, "link:     %s\n", c.supervisor.State())
	fmt.Fprintf(&b, "faults:   %s\n", orNone(c.signaler.ActiveFaults()))

	last := "none"
	if !state.LastID.IsZero() {
		last = fmt.Sprintf("%s at %s", state.LastID, state.LastAt.Format(time.RFC3339Nano))
	}

	fmt.Fprintf(&b, "last:     %s\n", last)
	fmt.Fprintf(&b, "events:   %d", len(c.events))

	return b.String()
}

// Describe renders an event for the shell.
func Describe(e gate.Event) string {
	if e.Suppressed {
		return fmt.Sprintf("%s suppressed (debounce)", e.Card)
	}

	return fmt.Sprintf("%s -> %s (%s) request %s", e.Card, e.Result, e.Result.PeerLine(), e.RequestID)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}

	return s
}
