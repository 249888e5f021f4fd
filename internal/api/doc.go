// Package api provides an HTTP client for the torrent engine API.
//
// # Overview
//
// The client is read-only and covers the endpoints the live sync jobs poll:
//
//   - GET /torrents: torrent ids and info hashes
//   - GET /torrents/{id}: file list, available once metadata is resolved
//   - GET /torrents/{id}/stats/v1: progress, speeds, aggregate peer counts
//   - GET /torrents/{id}/peer_stats?state=live|all: per-peer counters
//   - GET /stats: session-wide totals and speeds
//
// Payloads are decoded into typed structs and validated once here, so the
// jobs never probe response shapes. The peers object of /peer_stats is
// decoded token by token to keep the engine's ordering, which the peer
// table uses to break sort ties.
//
// # Error Handling
//
//   - Network errors: "execute request: dial tcp: connection refused"
//   - HTTP errors: *Error carrying status, status text and body
//   - Deserialization errors: "decode response: ..."
//
// errors.Is(err, ErrNotReady) matches 404 and 503 responses, which the engine
// returns for torrents whose metadata is not yet known.
//
// # Design Rationale
//
// No caching and no retries: the schedule package decides cadence and the
// live package decides what a failure means for each job.
package api
