// Package ratewindow derives transfer rates from cumulative byte counters
// using a trailing time window per key.
package ratewindow

import (
	"math"
	"sort"
	"sync"
	"time"
)

// DefaultSpan is the trailing window used by New.
const DefaultSpan = 10 * time.Second

// Entry is one observation of a cumulative counter.
type Entry struct {
	Timestamp    time.Time
	FetchedBytes float64
}

// Window keeps a bounded history per key. The zero value is not usable; call New.
type Window struct {
	mu      sync.Mutex
	span    time.Duration
	history map[string][]Entry
}

// New returns a Window retaining DefaultSpan of history.
func New() *Window {
	return NewWithSpan(DefaultSpan)
}

// NewWithSpan returns a Window retaining span of history per key.
func NewWithSpan(span time.Duration) *Window {
	if span <= 0 {
		span = DefaultSpan
	}
	return &Window{span: span, history: make(map[string][]Entry)}
}

// Record appends an observation for key and evicts entries older than the
// window relative to ts. Non-finite counters and timestamps that do not move
// forward are ignored.
func (w *Window) Record(key string, ts time.Time, cumulativeBytes float64) {
	if math.IsNaN(cumulativeBytes) || math.IsInf(cumulativeBytes, 0) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	entries := w.history[key]
	if n := len(entries); n > 0 && !ts.After(entries[n-1].Timestamp) {
		return
	}
	entries = append(entries, Entry{Timestamp: ts, FetchedBytes: cumulativeBytes})

	cutoff := ts.Add(-w.span)
	drop := 0
	for drop < len(entries) && entries[drop].Timestamp.Before(cutoff) {
		drop++
	}
	if drop > 0 {
		entries = append([]Entry(nil), entries[drop:]...)
	}
	w.history[key] = entries
}

// Rate returns bytes per second between the oldest and newest retained
// entries for key. Counter resets yield negative values; callers decide how
// to present them.
func (w *Window) Rate(key string) float64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries := w.history[key]
	if len(entries) < 2 {
		return 0
	}
	first, last := entries[0], entries[len(entries)-1]
	elapsed := last.Timestamp.Sub(first.Timestamp).Seconds()
	if elapsed == 0 {
		return 0
	}
	return (last.FetchedBytes - first.FetchedBytes) / elapsed
}

// Forget drops all history for key.
func (w *Window) Forget(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.history, key)
}

// History returns a copy of the retained entries for key, oldest first.
func (w *Window) History(key string) []Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	entries := w.history[key]
	if len(entries) == 0 {
		return nil
	}
	dup := make([]Entry, len(entries))
	copy(dup, entries)
	return dup
}

// Keys lists tracked keys in sorted order.
func (w *Window) Keys() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	keys := make([]string, 0, len(w.history))
	for k := range w.history {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len reports how many keys currently hold history.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.history)
}
