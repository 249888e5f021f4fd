// Package version exposes the build identifier.
package version

// Version is injected via -ldflags "-X github.com/five82/swarmwatch/internal/version.Version=...".
var Version = "dev"
