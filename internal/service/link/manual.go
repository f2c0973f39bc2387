package link

import (
	"context"
	"sync"
)

// Manual is a link switched by hand. The console uses it to simulate
// connectivity loss.
type Manual struct {
	mu      sync.Mutex
	up      bool
	address string
	joins   int
}

// NewManual creates a Manual link in the given state.
func NewManual(up bool, address string) *Manual {
	return &Manual{up: up, address: address}
}

// Set switches the link.
func (m *Manual) Set(up bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.up = up
}

// Joins returns how many times Join was called.
func (m *Manual) Joins() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.joins
}

// Join implements Network.
func (m *Manual) Join(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.joins++

	return nil
}

// Status implements Network.
func (m *Manual) Status(context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.up {
		return Connected, nil
	}

	return Disconnected, nil
}

// Address implements Network.
func (m *Manual) Address(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.up {
		return "", ErrNoAddress
	}

	return m.address, nil
}
