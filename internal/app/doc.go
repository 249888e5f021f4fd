// Package app is swarmwatch's composition root.
//
// Run performs startup in this order:
//
//  1. Load ~/.config/swarmwatch/config.toml (or the -config path) and apply
//     command-line overrides
//  2. Open the log file and build the zerolog logger
//  3. Create the API client and probe /stats once, logging the outcome
//  4. Create the live.Engine and start its torrent list and session jobs
//  5. Run the Bubble Tea UI until the user quits or the context is cancelled
//  6. Stop the engine, cancelling every job
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()      read config, apply overrides
//	       ├─────> logging.New()      log file writer
//	       ├─────> api.NewClient()    HTTP JSON client
//	       ├─────> live.New().Start() polling jobs write the stores
//	       └─────> ui.Run()           reads the stores (blocks)
//
// The engine owns the stores; the UI only reads them and asks the engine to
// open or close the peer job. Nothing is shared through package globals.
package app
