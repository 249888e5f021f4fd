package state

import (
	"cmp"
	"slices"
	"sync"
)

// Slots holds one Store per key, created on first use. It backs per-torrent
// state where each key has its own single writer.
type Slots[K cmp.Ordered, V any] struct {
	mu    sync.Mutex
	slots map[K]*Store[V]
}

// NewSlots returns an empty Slots.
func NewSlots[K cmp.Ordered, V any]() *Slots[K, V] {
	return &Slots[K, V]{slots: make(map[K]*Store[V])}
}

// Slot returns the store for key, creating it when missing.
func (s *Slots[K, V]) Slot(key K) *Store[V] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots == nil {
		s.slots = make(map[K]*Store[V])
	}
	st, ok := s.slots[key]
	if !ok {
		st = &Store[V]{}
		s.slots[key] = st
	}
	return st
}

// Lookup returns the store for key without creating it.
func (s *Slots[K, V]) Lookup(key K) (*Store[V], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.slots[key]
	return st, ok
}

// Get returns the value held for key, or the zero V when no slot exists.
func (s *Slots[K, V]) Get(key K) V {
	st, ok := s.Lookup(key)
	if !ok {
		var zero V
		return zero
	}
	return st.Get()
}

// Delete drops the slot for key. Subscribers of the dropped store keep their
// registration but will not see further writes through Slots.
func (s *Slots[K, V]) Delete(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
}

// Keys returns the keys that currently have a slot, sorted ascending.
func (s *Slots[K, V]) Keys() []K {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]K, 0, len(s.slots))
	for k := range s.slots {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
