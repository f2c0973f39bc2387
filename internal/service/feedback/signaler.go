package feedback

import (
	"context"
	"sort"
	"strings"

	"github.com/oshokin/card-gate/internal/clock"
	"github.com/oshokin/card-gate/internal/logger"
)

// Panel switches physical indicators.
type Panel interface {
	Set(indicator Indicator, on bool) error
}

// Signaler plays patterns on a Panel and owns the fault light.
// It is used from the single control loop and is not safe for concurrent use.
type Signaler struct {
	panel  Panel
	clock  clock.Clock
	faults map[string]struct{}
}

// NewSignaler creates a Signaler.
func NewSignaler(panel Panel, clk clock.Clock) *Signaler {
	return &Signaler{
		panel:  panel,
		clock:  clk,
		faults: make(map[string]struct{}),
	}
}

// Play runs p to completion. Indicator errors are logged and skipped so the
// timing envelope is kept; only context cancellation aborts the pattern.
func (s *Signaler) Play(ctx context.Context, p Pattern) error {
	for _, step := range p.Steps {
		s.set(ctx, step.Indicator, step.On)

		if step.Hold <= 0 {
			continue
		}

		if err := s.clock.Sleep(ctx, step.Hold); err != nil {
			return err
		}
	}

	return nil
}

// ReadAck plays ReadAckPattern.
func (s *Signaler) ReadAck(ctx context.Context) error {
	return s.Play(ctx, ReadAckPattern)
}

// Outcome plays SuccessPattern or FailurePattern.
func (s *Signaler) Outcome(ctx context.Context, success bool) error {
	if success {
		return s.Play(ctx, SuccessPattern)
	}

	return s.Play(ctx, FailurePattern)
}

// RaiseFault lights the fault indicator for reason.
func (s *Signaler) RaiseFault(ctx context.Context, reason string) {
	if _, ok := s.faults[reason]; ok {
		return
	}

	s.faults[reason] = struct{}{}

	logger.WarnKV(ctx, "Fault raised", "reason", reason, "active", s.ActiveFaults())
	s.set(ctx, Fault, true)
}

// ClearFault clears reason and switches the light off when no reason remains.
func (s *Signaler) ClearFault(ctx context.Context, reason string) {
	if _, ok := s.faults[reason]; !ok {
		return
	}

	delete(s.faults, reason)

	logger.InfoKV(ctx, "Fault cleared", "reason", reason)

	if len(s.faults) == 0 {
		s.set(ctx, Fault, false)
	}
}

// ActiveFaults returns the raised reasons, sorted, joined by commas.
func (s *Signaler) ActiveFaults() string {
	reasons := make([]string, 0, len(s.faults))
	for reason := range s.faults {
		reasons = append(reasons, reason)
	}

	sort.Strings(reasons)

	return strings.Join(reasons, ",")
}

// Off switches every indicator off. Used on shutdown.
func (s *Signaler) Off(ctx context.Context) {
	for _, ind := range []Indicator{Positive, Negative, Buzzer, Fault} {
		s.set(ctx, ind, false)
	}
}

func (s *Signaler) set(ctx context.Context, ind Indicator, on bool) {
	if err := s.panel.Set(ind, on); err != nil {
		logger.WarnKV(ctx, "Indicator write failed", "indicator", ind.String(), "on", on, "error", err)
	}
}
