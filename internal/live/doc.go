// Package live keeps the stores in sync with the torrent engine.
//
// # Jobs
//
//   - torrent list: every TorrentList interval regardless of outcome
//   - per-torrent stats: StatsFast while downloading, StatsSlow once
//     have_bytes reaches total_bytes, StatsError after a failed poll
//   - per-torrent details: retried every DetailsRetry until the engine has
//     metadata, then never again
//   - peer list: only while a peer view is open, every Peers interval
//   - session stats: Session on success, SessionError on failure
//
// Stats and details jobs follow the torrent list: the Engine subscribes to
// Stores.Torrents and starts or cancels per-torrent jobs as ids come and go.
//
// # Peer Rates
//
// Each peer poll records every peer's cumulative fetched_bytes into a
// ratewindow.Window, reads the windowed rate for each, and then forgets
// peers that were missing from the response. A new window is used each time
// a peer view is opened or its filter changes.
//
// # Cancellation
//
// Every operation checks its context after the API call returns; a response
// that arrives after its job was cancelled is dropped without touching any
// store.
package live
