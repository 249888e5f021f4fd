// Package state provides the reactive stores shared by polling jobs and the UI.
//
// # Overview
//
// Jobs are producers: each one owns the stores it writes and replaces their
// value wholesale on every successful poll. The UI is a consumer: it reads
// values with Get and learns about changes through Subscribe.
//
//	Producer (job):               Consumer (UI):
//	┌────────────────┐            ┌──────────────────┐
//	│ client.Fetch() │            │ Subscribe(fn)    │
//	│      ↓         │            │      ↓           │
//	│ store.Set(v)   │───────────→│ fn(v) / Get()    │
//	│      ↓         │  (mutex)   │      ↓           │
//	│  reschedule    │            │  re-render       │
//	└────────────────┘            └──────────────────┘
//
// # Core Types
//
// Store[T]:
//   - Holds exactly one authoritative value
//   - Set replaces the value and notifies subscribers synchronously
//   - Update performs an atomic read-copy-set for writers that merge fields
//   - The subscriber list is snapshotted before each notification pass, so
//     a subscriber added during notification waits for the next write
//
// Slots[K, V]:
//   - One Store per key (per-torrent stats and details)
//   - Slots are created lazily and dropped when the key stops being tracked
//
// Errors:
//   - Latest transient failure per polling source, with a consecutive
//     failure count used for the offline banner
//
// # Update Semantics
//
// Readers never observe a partially written value: writers build a new value
// and hand it to Set. Slices and maps stored in a Store are treated as
// immutable once published; code that needs a different value copies first.
//
// # Concurrency Model
//
// Values are guarded by a sync.RWMutex. Notifications run outside the lock,
// on the writer's goroutine, so a subscriber may call Get, Set or
// Subscribe without deadlocking. Each store is expected to have a single
// writer; Errors is the exception and uses Update for its writes.
package state
