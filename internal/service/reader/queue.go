package reader

import (
	"context"
	"errors"
	"sync"

	"github.com/oshokin/card-gate/internal/domain/access"
)

// DefaultQueueSize bounds taps waiting to be read.
const DefaultQueueSize = 16

// ErrQueueFull is returned by Tap when the loop is not keeping up.
var ErrQueueFull = errors.New("card queue is full")

// Queue is a reader fed programmatically: each Tap presents one card. It is
// safe to Tap from another goroutine while the loop polls.
type Queue struct {
	taps chan access.CardID

	mu      sync.Mutex
	current access.CardID
	halts   int
}

// NewQueue creates a Queue holding up to size pending taps.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}

	return &Queue{taps: make(chan access.CardID, size)}
}

// Tap presents id to the reader.
func (q *Queue) Tap(id access.CardID) error {
	select {
	case q.taps <- id:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending returns the number of taps not yet picked up.
func (q *Queue) Pending() int {
	return len(q.taps)
}

// Halts returns how many card sessions were halted.
func (q *Queue) Halts() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.halts
}

// CardPresent implements Reader.
func (q *Queue) CardPresent(context.Context) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.current.IsZero() {
		return true
	}

	select {
	case id := <-q.taps:
		q.current = id

		return true
	default:
		return false
	}
}

// ReadUID implements Reader.
func (q *Queue) ReadUID(ctx context.Context) (access.CardID, error) {
	if !q.CardPresent(ctx) {
		return access.CardID{}, ErrNoCard
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	return q.current, nil
}

// Halt implements Reader.
func (q *Queue) Halt() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.current = access.CardID{}
	q.halts++

	return nil
}

// Close implements Reader.
func (q *Queue) Close() error {
	return nil
}
