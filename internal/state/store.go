package state

import (
	"sync"
)

// Store is a reactive cell holding one value of type T. The zero value is
// ready to use and holds the zero T.
type Store[T any] struct {
	mu    sync.RWMutex
	value T
	subs  []*subscriber[T]
}

type subscriber[T any] struct {
	fn     func(T)
	active bool // guarded by Store.mu
}

// NewStore returns a Store seeded with initial.
func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Guard runs write only while the writer it stands for may still publish,
// and reports whether write ran.
type Guard func(write func()) bool

// Unguarded always runs write.
func Unguarded(write func()) bool {
	write()
	return true
}

// Set replaces the value and notifies subscribers synchronously, in
// subscription order. Values handed to Set must not be mutated afterwards.
func (s *Store[T]) Set(next T) {
	s.SetIf(Unguarded, next)
}

// SetIf is Set performed inside guard. Subscribers are notified after guard
// returns, and only when the value was stored.
func (s *Store[T]) SetIf(guard Guard, next T) bool {
	_, ok := s.UpdateIf(guard, func(T) T { return next })
	return ok
}

// Update applies fn to the current value and stores the result as one
// atomic read-copy-set. fn must return a new value rather than mutate its
// argument in place.
func (s *Store[T]) Update(fn func(T) T) T {
	next, _ := s.UpdateIf(Unguarded, fn)
	return next
}

// UpdateIf is Update performed inside guard. When guard refuses, nothing is
// stored and the zero T is returned.
func (s *Store[T]) UpdateIf(guard Guard, fn func(T) T) (T, bool) {
	var (
		next T
		subs []*subscriber[T]
	)
	ok := guard(func() {
		s.mu.Lock()
		next = fn(s.value)
		s.value = next
		subs = s.snapshotLocked()
		s.mu.Unlock()
	})
	if !ok {
		var zero T
		return zero, false
	}
	s.notify(subs, next)
	return next, true
}

// Subscribe registers fn for future Set/Update calls. The returned function
// removes fn; calling it more than once is a no-op.
func (s *Store[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	sub := &subscriber[T]{fn: fn, active: true}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			sub.active = false
			for i, existing := range s.subs {
				if existing == sub {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Subscribers reports the number of registered subscribers.
func (s *Store[T]) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func (s *Store[T]) snapshotLocked() []*subscriber[T] {
	if len(s.subs) == 0 {
		return nil
	}
	dup := make([]*subscriber[T], len(s.subs))
	copy(dup, s.subs)
	return dup
}

func (s *Store[T]) notify(subs []*subscriber[T], value T) {
	for _, sub := range subs {
		// A subscriber removed earlier in this pass is skipped.
		s.mu.RLock()
		active := sub.active
		s.mu.RUnlock()
		if active {
			sub.fn(value)
		}
	}
}
