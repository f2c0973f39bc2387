package access

import "time"

// DefaultCooldown is the debounce window. It matches the length of the
// success feedback pattern.
const DefaultCooldown = 2 * time.Second

// DebounceState is the last committed card and when it was committed.
type DebounceState struct {
	LastID CardID
	LastAt time.Time
}

// Debouncer suppresses a card that was committed less than a cooldown ago.
//
// Accept never mutates state. The caller commits only after the full
// request and feedback cycle has finished, whatever its result, so a card
// held on the reader during a slow round trip is not processed twice and a
// failed request still opens the window.
type Debouncer struct {
	cooldown time.Duration
	state    DebounceState
}

// NewDebouncer creates a Debouncer; a non-positive cooldown uses DefaultCooldown.
func NewDebouncer(cooldown time.Duration) *Debouncer {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}

	return &Debouncer{cooldown: cooldown}
}

// Accept reports whether id read at now should be processed.
func (d *Debouncer) Accept(id CardID, now time.Time) bool {
	if d.state.LastID.IsZero() || !id.Equal(d.state.LastID) {
		return true
	}

	return now.Sub(d.state.LastAt) >= d.cooldown
}

// Commit records id as processed at now.
func (d *Debouncer) Commit(id CardID, now time.Time) {
	d.state = DebounceState{LastID: id, LastAt: now}
}

// State returns a copy of the current state.
func (d *Debouncer) State() DebounceState {
	return d.state
}

// Cooldown returns the configured window.
func (d *Debouncer) Cooldown() time.Duration {
	return d.cooldown
}
