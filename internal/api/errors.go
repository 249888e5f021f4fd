package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotReady reports a resource the engine has not produced yet, such as
// details for a torrent whose metadata is still being fetched from peers.
var ErrNotReady = errors.New("resource not ready")

// Error is a non-2xx response from the API.
type Error struct {
	Path       string
	Status     int
	StatusText string
	Body       string
}

func (e *Error) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Status, e.Body)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
}

// Is lets errors.Is(err, ErrNotReady) match statuses the engine uses while
// metadata is still resolving.
func (e *Error) Is(target error) bool {
	if target != ErrNotReady {
		return false
	}
	return e.Status == http.StatusNotFound || e.Status == http.StatusServiceUnavailable
}
