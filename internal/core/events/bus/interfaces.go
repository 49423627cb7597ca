package bus

// Listener is a callback registered on a Signal. A non-nil error aborts the
// emission and is returned to the emitter.
type Listener[T any] func(event T) error

// Subscription represents a registered listener.
// Use Cancel to stop receiving events.
type Subscription interface {
	// ID is a unique identifier for this subscription.
	ID() string
	// IsActive reports whether this subscription is still registered.
	IsActive() bool
	// Cancel de-registers the listener. Multiple calls are safe.
	Cancel() error
}

// Emitter is the publishing side of a Signal. The simulation only needs to
// emit; consumers receive the full *Signal to connect listeners.
type Emitter[T any] interface {
	Emit(event T) error
}
