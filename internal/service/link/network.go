package link

import "context"

// Network is a link backend.
type Network interface {
	// Join starts associating with the configured network. It may return
	// before the link is usable; the supervisor polls Status afterwards.
	Join(ctx context.Context) error
	// Status reports whether the link is usable right now.
	Status(ctx context.Context) (State, error)
	// Address returns the address assigned to the link.
	Address(ctx context.Context) (string, error)
}
