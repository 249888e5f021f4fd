// Package schedule runs self-rescheduling background jobs.
//
// Adaptive repeats an operation whose return value picks the next delay.
// RetryUntilSuccess repeats an operation on a fixed delay until it succeeds
// once. Both return a Handle; cancelling it stops the job at its next
// suspension point and guarantees no new invocation starts afterwards.
package schedule

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// State describes where a job is in its lifecycle.
type State int32

const (
	StateIdle State = iota
	StateScheduled
	StateRunning
	StateCancelled
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScheduled:
		return "scheduled"
	case StateRunning:
		return "running"
	case StateCancelled:
		return "cancelled"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Handle controls one running job.
type Handle struct {
	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
	state   atomic.Int32
}

type handleKey struct{}

func newHandle(parent context.Context) (*Handle, context.Context) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	return h, context.WithValue(ctx, handleKey{}, h)
}

// Publish runs write while the job that owns ctx is still active and reports
// whether it ran. Cancel waits for a write in progress, so nothing written
// through Publish lands after Cancel returns. write must not cancel its own
// job; store notifications belong after Publish returns.
//
// Outside a job, write runs unless ctx is done.
func Publish(ctx context.Context, write func()) bool {
	h, _ := ctx.Value(handleKey{}).(*Handle)
	if h == nil {
		if ctx.Err() != nil {
			return false
		}
		write()
		return true
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped || ctx.Err() != nil {
		return false
	}
	write()
	return true
}

// Cancel stops the job. Pending timers are cleared and no invocation starts
// after Cancel returns; one already in flight sees its context cancelled.
// Cancel is idempotent and safe on a nil Handle.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.mu.Lock()
	if !h.stopped {
		h.stopped = true
		h.state.Store(int32(StateCancelled))
	}
	h.mu.Unlock()
	h.cancel()
}

// Done is closed once the job goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the job exits or ctx is done.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Active reports whether the job may still invoke its operation.
func (h *Handle) Active() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.stopped
}

// State returns the current lifecycle state.
func (h *Handle) State() State {
	return State(h.state.Load())
}

// begin marks the start of an invocation unless the job was stopped.
func (h *Handle) begin(ctx context.Context) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped || ctx.Err() != nil {
		return false
	}
	h.state.Store(int32(StateRunning))
	return true
}

// complete stops the job after a terminal success. It reports false when the
// job had already been cancelled.
func (h *Handle) complete() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}
	h.stopped = true
	h.state.Store(int32(StateFinished))
	return true
}

func (h *Handle) scheduled() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.stopped {
		h.state.Store(int32(StateScheduled))
	}
}

// finish runs when the job goroutine exits.
func (h *Handle) finish() {
	h.mu.Lock()
	if !h.stopped {
		// Parent context ended the job.
		h.stopped = true
		h.state.Store(int32(StateCancelled))
	}
	h.mu.Unlock()
	h.cancel()
	close(h.done)
}

func clampDelay(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
