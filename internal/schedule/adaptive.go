package schedule

import (
	"context"
	"time"
)

// Operation performs one poll and returns the delay before the next one.
// Failures must be mapped to a delay inside the operation.
type Operation func(ctx context.Context) time.Duration

// Adaptive launches a background goroutine that waits initialDelay, runs op,
// then waits for whatever delay op returned, for as long as the job is
// active. The next timer is armed only after op returns, so at most one
// invocation is ever in flight. It returns immediately.
func Adaptive(ctx context.Context, initialDelay time.Duration, op Operation) *Handle {
	h, jobCtx := newHandle(ctx)
	h.state.Store(int32(StateIdle))

	go func() {
		defer h.finish()

		timer := time.NewTimer(clampDelay(initialDelay))
		defer timer.Stop()
		h.scheduled()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-timer.C:
			}
			if !h.begin(jobCtx) {
				return
			}
			next := op(jobCtx)
			if jobCtx.Err() != nil {
				return
			}
			timer.Reset(clampDelay(next))
			h.scheduled()
		}
	}()
	return h
}
