package bus

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// ErrListenerFailed wraps every error returned by a listener during Emit.
var ErrListenerFailed = errors.New("listener failed")

var _ Emitter[struct{}] = (*Signal[struct{}])(nil)

// Signal is a typed, synchronous publish/subscribe channel.
//
// Key characteristics:
// - Listeners are invoked in registration order, on the emitting goroutine,
// before Emit returns.
// - A failing listener is not isolated: the emission stops and the error is
// returned to the emitter. Panics propagate unchanged.
// - Connect and Cancel are safe for concurrent use; a listener connected
// or cancelled during an emission takes effect from the next Emit.
type Signal[T any] struct {
	mu   sync.RWMutex
	subs []*subscription[T]
}

// NewSignal creates an empty signal.
func NewSignal[T any]() *Signal[T] {
	return &Signal[T]{}
}

type subscription[T any] struct {
	id       string
	listener Listener[T]
	active   bool
	signal   *Signal[T]
}

func (s *subscription[T]) ID() string { return s.id }

func (s *subscription[T]) IsActive() bool {
	s.signal.mu.RLock()
	defer s.signal.mu.RUnlock()
	return s.active
}

func (s *subscription[T]) Cancel() error {
	s.signal.mu.Lock()
	defer s.signal.mu.Unlock()
	if !s.active {
		return nil
	}
	s.active = false
	s.signal.subs = slices.DeleteFunc(s.signal.subs, func(o *subscription[T]) bool { return o == s })
	return nil
}

// Connect registers a listener and returns its subscription handle.
func (s *Signal[T]) Connect(listener Listener[T]) Subscription {
	sub := &subscription[T]{id: uuid.NewString(), listener: listener, active: true, signal: s}
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
	return sub
}

// Emit delivers event to every active listener in registration order.
func (s *Signal[T]) Emit(event T) error {
	s.mu.RLock()
	subs := slices.Clone(s.subs)
	s.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.listener(event); err != nil {
			return fmt.Errorf("%w: subscription %s: %w", ErrListenerFailed, sub.id, err)
		}
	}
	return nil
}

// Len returns the number of connected listeners.
func (s *Signal[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
