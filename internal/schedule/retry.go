package schedule

import (
	"context"
	"time"
)

// RetryUntilSuccess runs op immediately and then every interval until it
// returns a nil error. The successful value is handed to onSuccess exactly
// once, unless the job was cancelled while that attempt was in flight, in
// which case the value is discarded. Errors are not surfaced; there is no
// attempt limit.
func RetryUntilSuccess[T any](ctx context.Context, interval time.Duration, op func(ctx context.Context) (T, error), onSuccess func(T)) *Handle {
	h, jobCtx := newHandle(ctx)
	interval = clampDelay(interval)

	go func() {
		defer h.finish()

		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for attempt := 0; ; attempt++ {
			if attempt > 0 {
				if timer == nil {
					timer = time.NewTimer(interval)
				} else {
					timer.Reset(interval)
				}
				h.scheduled()
				select {
				case <-jobCtx.Done():
					return
				case <-timer.C:
				}
			}
			if !h.begin(jobCtx) {
				return
			}
			value, err := op(jobCtx)
			if err != nil {
				continue
			}
			if h.complete() && onSuccess != nil {
				onSuccess(value)
			}
			return
		}
	}()
	return h
}
