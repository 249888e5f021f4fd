// Package config loads swarmwatch's TOML configuration.
//
// # Discovery
//
// Load reads the given path, or ~/.config/swarmwatch/config.toml when the
// path is empty. A missing file is not an error: Default() is returned.
// Fields that are absent or blank keep their defaults.
//
// # Fields
//
//	api_url = "http://127.0.0.1:3030"
//	log_file = "~/.local/state/swarmwatch/swarmwatch.log"
//	log_level = "info"
//
//	torrent_list_ms = 500
//	stats_fast_ms = 500
//	stats_slow_ms = 10000
//	stats_error_ms = 5000
//	details_retry_ms = 1000
//	peers_ms = 1000
//	session_ms = 1000
//	session_error_ms = 5000
//
// The *_ms keys are optional; zero means "use the engine default" and
// negative values are rejected. Config.Intervals converts them into
// live.Intervals.
//
// Paths starting with ~ are expanded against the user's home directory and
// made absolute.
package config
