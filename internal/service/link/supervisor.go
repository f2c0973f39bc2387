package link

import (
	"context"
	"time"

	"github.com/oshokin/card-gate/internal/clock"
	"github.com/oshokin/card-gate/internal/logger"
)

const (
	// DefaultConnectTimeout bounds one EnsureConnected call.
	DefaultConnectTimeout = 20 * time.Second
	// DefaultStatusPollInterval is the pause between two status polls while connecting.
	DefaultStatusPollInterval = 500 * time.Millisecond
	// FaultReason is the fault indicator reason owned by the supervisor.
	FaultReason = "link"
)

// FaultIndicator is the persistent fault light.
type FaultIndicator interface {
	RaiseFault(ctx context.Context, reason string)
	ClearFault(ctx context.Context, reason string)
}

// Supervisor maintains a best-effort link and exposes its state.
// It is driven from the single control loop and is not safe for concurrent use.
type Supervisor struct {
	network Network
	clock   clock.Clock
	faults  FaultIndicator

	connectTimeout time.Duration
	pollInterval   time.Duration
	observers      []func(State)

	state State
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithConnectTimeout overrides DefaultConnectTimeout.
func WithConnectTimeout(timeout time.Duration) Option {
	return func(s *Supervisor) {
		if timeout > 0 {
			s.connectTimeout = timeout
		}
	}
}

// WithStatusPollInterval overrides DefaultStatusPollInterval.
func WithStatusPollInterval(interval time.Duration) Option {
	return func(s *Supervisor) {
		if interval > 0 {
			s.pollInterval = interval
		}
	}
}

// WithFaultIndicator sets the indicator raised on connect failure.
func WithFaultIndicator(faults FaultIndicator) Option {
	return func(s *Supervisor) {
		s.faults = faults
	}
}

// WithObserver registers fn to be called on every state change.
func WithObserver(fn func(State)) Option {
	return func(s *Supervisor) {
		s.observers = append(s.observers, fn)
	}
}

// NewSupervisor creates a Supervisor in the Disconnected state.
func NewSupervisor(network Network, clk clock.Clock, opts ...Option) *Supervisor {
	s := &Supervisor{
		network:        network,
		clock:          clk,
		connectTimeout: DefaultConnectTimeout,
		pollInterval:   DefaultStatusPollInterval,
		state:          Disconnected,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// State returns the last observed link state.
func (s *Supervisor) State() State {
	return s.state
}

// EnsureConnected establishes the link if needed, blocking up to the connect
// timeout. It reports whether the link is up. Failure raises the fault
// indicator; it is never retried here.
func (s *Supervisor) EnsureConnected(ctx context.Context) bool {
	ctx = logger.WithName(ctx, "link")

	if st, err := s.network.Status(ctx); err == nil && st == Connected {
		s.onConnected(ctx)

		return true
	}

	logger.InfoKV(ctx, "Connecting", "timeout", s.connectTimeout.String())

	if err := s.network.Join(ctx); err != nil {
		logger.WarnKV(ctx, "Join failed", "error", err)
	}

	deadline := s.clock.Now().Add(s.connectTimeout)
	for s.clock.Now().Before(deadline) {
		st, err := s.network.Status(ctx)
		if err == nil && st == Connected {
			s.onConnected(ctx)

			return true
		}

		if err != nil {
			logger.DebugKV(ctx, "Status check failed", "error", err)
		}

		logger.Debug(ctx, ".")

		if err = s.clock.Sleep(ctx, s.pollInterval); err != nil {
			break
		}
	}

	s.setState(Disconnected)

	if s.faults != nil {
		s.faults.RaiseFault(ctx, FaultReason)
	}

	logger.Warn(ctx, "Link not established")

	return false
}

// CheckHealth refreshes the link state and reconnects when it is down.
func (s *Supervisor) CheckHealth(ctx context.Context) {
	st, err := s.network.Status(ctx)
	if err == nil && st == Connected {
		s.onConnected(logger.WithName(ctx, "link"))

		return
	}

	logger.WarnKV(logger.WithName(ctx, "link"), "Link lost, reconnecting", "error", err)
	s.setState(Disconnected)
	s.EnsureConnected(ctx)
}

func (s *Supervisor) onConnected(ctx context.Context) {
	wasConnected := s.state == Connected
	s.setState(Connected)

	if s.faults != nil {
		s.faults.ClearFault(ctx, FaultReason)
	}

	if wasConnected {
		return
	}

	address, err := s.network.Address(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Link established, address unknown", "error", err)

		return
	}

	logger.InfoKV(ctx, "Link established", "address", address)
}

func (s *Supervisor) setState(st State) {
	if s.state == st {
		return
	}

	s.state = st

	for _, fn := range s.observers {
		fn(st)
	}
}
