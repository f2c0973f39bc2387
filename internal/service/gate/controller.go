package gate

import (
	"context"
	"time"

	"github.com/oshokin/card-gate/internal/clock"
	"github.com/oshokin/card-gate/internal/domain/access"
	"github.com/oshokin/card-gate/internal/logger"
	"github.com/oshokin/card-gate/internal/service/authority"
	"github.com/oshokin/card-gate/internal/service/peer"
	"github.com/oshokin/card-gate/internal/service/reader"
)

const (
	// DefaultPollInterval is the pause between two loop iterations.
	DefaultPollInterval = 50 * time.Millisecond
	// DefaultHealthInterval is the link health check cadence.
	DefaultHealthInterval = 30 * time.Second
)

// Requester performs one logical authority request.
type Requester interface {
	Get(ctx context.Context, url string) authority.Outcome
}

// Signals plays feedback patterns.
type Signals interface {
	ReadAck(ctx context.Context) error
	Outcome(ctx context.Context, success bool) error
}

// HealthChecker is asked to verify the link on the health cadence.
type HealthChecker interface {
	CheckHealth(ctx context.Context)
}

// Event describes one card presentation.
type Event struct {
	Card       access.CardID
	Result     access.Result
	Suppressed bool
	RequestID  string
	At         time.Time
}

// Controller owns the debounce state and runs the card state machine.
type Controller struct {
	reader    reader.Reader
	requester Requester
	tokens    authority.TokenSource
	baseURL   string
	signals   Signals
	peer      peer.Notifier
	clock     clock.Clock

	debounce       *access.Debouncer
	health         HealthChecker
	pollInterval   time.Duration
	healthInterval time.Duration
	lastHealth     time.Time
	observers      []func(Event)
}

// Option configures a Controller.
type Option func(*Controller)

// WithCooldown sets the debounce window.
func WithCooldown(cooldown time.Duration) Option {
	return func(c *Controller) {
		if cooldown > 0 {
			c.debounce = access.NewDebouncer(cooldown)
		}
	}
}

// WithHealthChecker enables the periodic link health check.
func WithHealthChecker(health HealthChecker) Option {
	return func(c *Controller) {
		c.health = health
	}
}

// WithPollInterval sets the pause between loop iterations.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Controller) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithHealthInterval sets the link health check cadence.
func WithHealthInterval(interval time.Duration) Option {
	return func(c *Controller) {
		if interval > 0 {
			c.healthInterval = interval
		}
	}
}

// WithObserver registers fn to be called after every card event.
func WithObserver(fn func(Event)) Option {
	return func(c *Controller) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}

// Deps are the collaborators every Controller needs.
type Deps struct {
	Reader    reader.Reader
	Requester Requester
	Tokens    authority.TokenSource
	BaseURL   string
	Signals   Signals
	Peer      peer.Notifier
	Clock     clock.Clock
}

// NewController creates a Controller.
func NewController(deps Deps, opts ...Option) *Controller {
	c := &Controller{
		reader:         deps.Reader,
		requester:      deps.Requester,
		tokens:         deps.Tokens,
		baseURL:        deps.BaseURL,
		signals:        deps.Signals,
		peer:           deps.Peer,
		clock:          deps.Clock,
		debounce:       access.NewDebouncer(access.DefaultCooldown),
		pollInterval:   DefaultPollInterval,
		healthInterval: DefaultHealthInterval,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// DebounceState returns the last committed card and time.
func (c *Controller) DebounceState() access.DebounceState {
	return c.debounce.State()
}

// ProcessCard handles the card currently on the reader. It returns false
// when no card could be read.
func (c *Controller) ProcessCard(ctx context.Context) (Event, bool) {
	id, err := c.reader.ReadUID(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Card read failed", "error", err)
		c.halt(ctx)

		return Event{}, false
	}

	ctx = logger.WithKV(ctx, "uid", id.String())
	event := Event{Card: id, At: c.clock.Now()}

	if !c.debounce.Accept(id, event.At) {
		logger.Debug(ctx, "Card suppressed by debounce")
		c.halt(ctx)

		event.Suppressed = true
		c.notify(event)

		return event, true
	}

	c.play(ctx, c.signals.ReadAck)

	outcome := c.request(ctx, id)
	event.Result = classify(outcome)
	event.RequestID = outcome.RequestID

	logger.InfoKV(ctx, "Card processed",
		"result", event.Result.String(),
		"outcome", outcome.Kind.String(),
		"status", outcome.StatusCode,
		"request_id", outcome.RequestID,
	)

	peer.Send(ctx, c.peer, event.Result.PeerLine())

	c.play(ctx, func(ctx context.Context) error {
		return c.signals.Outcome(ctx, event.Result.Success())
	})

	// Committed after feedback, whatever the result.
	c.debounce.Commit(id, c.clock.Now())
	c.halt(ctx)
	c.notify(event)

	return event, true
}

// Tick runs one loop iteration without the trailing sleep: poll the reader,
// process a present card, then check link health if it is due.
func (c *Controller) Tick(ctx context.Context) {
	if c.reader.CardPresent(ctx) {
		c.ProcessCard(ctx)
	}

	if c.health == nil {
		return
	}

	if now := c.clock.Now(); now.Sub(c.lastHealth) >= c.healthInterval {
		c.health.CheckHealth(ctx)
		c.lastHealth = c.clock.Now()
	}
}

// Run announces readiness and loops until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "gate")

	peer.Send(ctx, c.peer, access.LineReady)
	logger.InfoKV(ctx, "Gate is ready",
		"cooldown", c.debounce.Cooldown(),
		"poll_interval", c.pollInterval,
		"health_interval", c.healthInterval,
	)

	c.lastHealth = c.clock.Now()

	for ctx.Err() == nil {
		c.Tick(ctx)

		if err := c.clock.Sleep(ctx, c.pollInterval); err != nil {
			break
		}
	}

	logger.Info(ctx, "Gate stopped")

	return nil
}

func (c *Controller) request(ctx context.Context, id access.CardID) authority.Outcome {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Token unavailable", "error", err)

		return authority.Outcome{Kind: authority.TransportFailure, Err: err}
	}

	return c.requester.Get(ctx, authority.BuildURL(c.baseURL, id.String(), token))
}

func (c *Controller) play(ctx context.Context, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		logger.DebugKV(ctx, "Feedback interrupted", "error", err)
	}
}

func (c *Controller) halt(ctx context.Context) {
	if err := c.reader.Halt(); err != nil {
		logger.WarnKV(ctx, "Card halt failed", "error", err)
	}
}

func (c *Controller) notify(event Event) {
	for _, fn := range c.observers {
		fn(event)
	}
}

func classify(outcome authority.Outcome) access.Result {
	if !outcome.OK() {
		return access.ResultRequestFailed
	}

	return access.ClassifyBody(outcome.Body)
}
