// Package ui is swarmwatch's terminal interface, built on Bubble Tea.
//
// # Views
//
//   - Torrents: one row per torrent from the torrent list, joined with the
//     latest stats (state, progress, speeds, live peers, ETA) and details
//     (name, size) as they arrive.
//   - Peers: the peer table for the selected torrent. Opening it starts the
//     engine's peer job; leaving it stops the job.
//
// The header carries counts and connection state. Fetch errors appear in a
// banner below it; session totals sit in the footer.
//
// # Data Flow
//
// The UI never calls the API. It subscribes to the engine's stores and
// re-reads them on Bubble Tea's goroutine:
//
//  1. A store subscriber drops a token into a one-slot channel (never
//     blocking the job that wrote the store).
//  2. A pending command receives the token and delivers storesChangedMsg.
//  3. Update re-reads every store and rebuilds both tables.
//
// Per-torrent stats and details live in slots created and deleted by the
// engine, so they are picked up by a periodic refresh instead of per-slot
// subscriptions.
//
// Peer snapshots for a torrent or filter other than the one on screen are
// ignored; they can land briefly after the view changed.
//
// # Preferences
//
// The theme and the peer table's sort and filter choices are saved to the
// prefs file whenever they change.
package ui
