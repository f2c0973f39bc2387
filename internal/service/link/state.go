package link

// State is the observed link state.
type State int

// Link states.
const (
	// Disconnected is the initial state and the state after a failed check.
	Disconnected State = iota
	// Connected means the last check or connect attempt saw a usable link.
	Connected
)

// String implements fmt.Stringer.
func (s State) String() string {
	if s == Connected {
		return "connected"
	}

	return "disconnected"
}
