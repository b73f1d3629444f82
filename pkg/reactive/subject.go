package reactive

import (
	"context"
	"sync"
	"sync/atomic"
)

var idCounter uint64

func nextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}

// subscriber is a callback registered on a Subject.
type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Subject is a reactive value container that replays its current value to
// new subscribers.
//
// Next and the initial delivery of Subscribe are serialized, so every
// subscriber observes values in publication order. Callbacks run on the
// publishing goroutine and must not call Next on the same Subject.
type Subject[T any] struct {
	// value is the current value.
	value T

	// mu protects value.
	mu sync.RWMutex

	// subs are the registered callbacks.
	subs []subscriber[T]

	// subMu protects subs.
	subMu sync.RWMutex

	// emitMu serializes deliveries.
	emitMu sync.Mutex
}

// NewSubject creates a subject holding initial.
func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{value: initial}
}

// Value returns the current value.
func (s *Subject[T]) Value() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Next publishes value to all subscribers.
// Unlike a signal, Next always notifies, even if value equals the current one.
func (s *Subject[T]) Next(value T) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	s.value = value
	s.mu.Unlock()

	// Copy subscribers so callbacks may unsubscribe.
	s.subMu.RLock()
	subs := make([]subscriber[T], len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	for _, sub := range subs {
		sub.fn(value)
	}
}

// Subscribe registers fn and immediately calls it with the current value.
func (s *Subject[T]) Subscribe(fn func(T)) *Subscription {
	sub := subscriber[T]{id: nextID(), fn: fn}

	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.subMu.Lock()
	s.subs = append(s.subs, sub)
	s.subMu.Unlock()

	fn(s.Value())

	return &Subscription{unsubscribe: func() { s.unsubscribe(sub.id) }}
}

// SubscriberCount returns the number of active subscribers.
func (s *Subject[T]) SubscriberCount() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subs)
}

func (s *Subject[T]) unsubscribe(id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for i, existing := range s.subs {
		if existing.id == id {
			// Keep publication order for the remaining subscribers.
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Watch returns a channel carrying the current value followed by every
// published value. A slow reader only ever sees the latest pending value.
// The channel is closed once ctx is done.
func (s *Subject[T]) Watch(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	sub := s.Subscribe(func(v T) {
		select {
		case ch <- v:
		default:
			// Replace the stale pending value.
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	})

	go func() {
		<-ctx.Done()
		sub.Unsubscribe()
		// Wait for an in-flight delivery before closing.
		s.emitMu.Lock()
		close(ch)
		s.emitMu.Unlock()
	}()

	return ch
}

// Subscription cancels a Subscribe registration.
type Subscription struct {
	once        sync.Once
	unsubscribe func()
}

// Unsubscribe stops further deliveries. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.unsubscribe)
}
