package schedule

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func waitDone(t *testing.T, h *Handle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("job did not exit")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached before deadline")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestAdaptive_SingleFlight(t *testing.T) {
	var inflight, maxInflight, calls atomic.Int32
	delays := []time.Duration{0, 3 * time.Millisecond, 0, time.Millisecond, 0}

	h := Adaptive(context.Background(), 0, func(ctx context.Context) time.Duration {
		n := inflight.Add(1)
		if n > maxInflight.Load() {
			maxInflight.Store(n)
		}
		time.Sleep(2 * time.Millisecond)
		inflight.Add(-1)
		c := calls.Add(1)
		return delays[int(c)%len(delays)]
	})

	waitFor(t, func() bool { return calls.Load() >= 10 })
	h.Cancel()
	waitDone(t, h)

	if got := maxInflight.Load(); got != 1 {
		t.Fatalf("max in-flight invocations = %d, want 1", got)
	}
}

func TestAdaptive_UsesReturnedDelay(t *testing.T) {
	var mu sync.Mutex
	var stamps []time.Time
	const delay = 30 * time.Millisecond

	h := Adaptive(context.Background(), 0, func(ctx context.Context) time.Duration {
		mu.Lock()
		stamps = append(stamps, time.Now())
		mu.Unlock()
		return delay
	})
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(stamps) >= 3
	})
	h.Cancel()
	waitDone(t, h)

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(stamps); i++ {
		if gap := stamps[i].Sub(stamps[i-1]); gap < delay {
			t.Fatalf("gap %d = %v, want >= %v", i, gap, delay)
		}
	}
}

func TestAdaptive_CancelWhileTimerPending(t *testing.T) {
	var calls atomic.Int32
	h := Adaptive(context.Background(), 50*time.Millisecond, func(ctx context.Context) time.Duration {
		calls.Add(1)
		return time.Millisecond
	})
	h.Cancel()
	h.Cancel()
	waitDone(t, h)

	time.Sleep(80 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Fatalf("calls = %d, want 0 after cancel", got)
	}
	if h.State() != StateCancelled {
		t.Fatalf("State = %v, want cancelled", h.State())
	}
	if h.Active() {
		t.Fatal("Active() = true after cancel")
	}
}

func TestAdaptive_CancelDuringRunningStopsRescheduling(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	var sawCancel atomic.Bool

	h := Adaptive(context.Background(), 0, func(ctx context.Context) time.Duration {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			sawCancel.Store(ctx.Err() != nil)
		}
		return 0
	})

	<-started
	if h.State() != StateRunning {
		t.Fatalf("State = %v, want running", h.State())
	}
	h.Cancel()
	close(release)
	waitDone(t, h)

	time.Sleep(20 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
	if !sawCancel.Load() {
		t.Fatal("in-flight operation did not observe cancelled context")
	}
}

func TestAdaptive_ParentContextStopsJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	h := Adaptive(ctx, 0, func(context.Context) time.Duration {
		calls.Add(1)
		return time.Millisecond
	})
	waitFor(t, func() bool { return calls.Load() > 0 })
	cancel()
	waitDone(t, h)

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	if calls.Load() != after {
		t.Fatalf("calls grew after parent cancel: %d -> %d", after, calls.Load())
	}
	if h.Active() {
		t.Fatal("Active() = true after parent cancel")
	}
}

func TestAdaptive_NegativeDelayTreatedAsZero(t *testing.T) {
	var calls atomic.Int32
	h := Adaptive(context.Background(), -time.Second, func(context.Context) time.Duration {
		calls.Add(1)
		return -time.Hour
	})
	waitFor(t, func() bool { return calls.Load() >= 3 })
	h.Cancel()
	waitDone(t, h)
}

func TestRetryUntilSuccess_FailsThenSucceeds(t *testing.T) {
	const failures = 3
	const interval = 20 * time.Millisecond

	var mu sync.Mutex
	var stamps []time.Time
	results := make(chan string, 2)

	h := RetryUntilSuccess(context.Background(), interval, func(ctx context.Context) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		stamps = append(stamps, time.Now())
		if len(stamps) <= failures {
			return "", errors.New("not ready")
		}
		return "details", nil
	}, func(v string) { results <- v })

	waitDone(t, h)
	time.Sleep(3 * interval)

	mu.Lock()
	defer mu.Unlock()
	if len(stamps) != failures+1 {
		t.Fatalf("invocations = %d, want %d", len(stamps), failures+1)
	}
	for i := 1; i < len(stamps); i++ {
		if gap := stamps[i].Sub(stamps[i-1]); gap < interval {
			t.Fatalf("gap %d = %v, want >= %v", i, gap, interval)
		}
	}
	if got := <-results; got != "details" {
		t.Fatalf("onSuccess value = %q, want details", got)
	}
	if len(results) != 0 {
		t.Fatal("onSuccess called more than once")
	}
	if h.State() != StateFinished {
		t.Fatalf("State = %v, want finished", h.State())
	}
	h.Cancel()
	if h.State() != StateFinished {
		t.Fatalf("Cancel after success changed state to %v", h.State())
	}
}

func TestRetryUntilSuccess_FirstAttemptIsImmediate(t *testing.T) {
	start := time.Now()
	done := make(chan time.Duration, 1)
	h := RetryUntilSuccess(context.Background(), time.Hour, func(context.Context) (int, error) {
		return 1, nil
	}, func(int) { done <- time.Since(start) })
	waitDone(t, h)
	if elapsed := <-done; elapsed > 500*time.Millisecond {
		t.Fatalf("first attempt after %v, want immediate", elapsed)
	}
}

func TestRetryUntilSuccess_CancelStopsAttempts(t *testing.T) {
	var calls atomic.Int32
	h := RetryUntilSuccess(context.Background(), 5*time.Millisecond, func(context.Context) (int, error) {
		calls.Add(1)
		return 0, errors.New("nope")
	}, func(int) { t.Error("onSuccess called for failing op") })

	waitFor(t, func() bool { return calls.Load() >= 2 })
	h.Cancel()
	waitDone(t, h)

	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	if calls.Load() != after {
		t.Fatalf("calls grew after cancel: %d -> %d", after, calls.Load())
	}
}

func TestRetryUntilSuccess_DiscardsInFlightResultAfterCancel(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var delivered atomic.Bool

	h := RetryUntilSuccess(context.Background(), time.Millisecond, func(context.Context) (int, error) {
		close(started)
		<-release
		return 42, nil
	}, func(int) { delivered.Store(true) })

	<-started
	h.Cancel()
	close(release)
	waitDone(t, h)

	if delivered.Load() {
		t.Fatal("result of in-flight attempt delivered after cancel")
	}
}

func TestHandle_NilCancelIsSafe(t *testing.T) {
	var h *Handle
	h.Cancel()
	if h.Active() {
		t.Fatal("nil handle reported active")
	}
}

func TestHandle_Wait(t *testing.T) {
	h := RetryUntilSuccess(context.Background(), time.Millisecond, func(context.Context) (int, error) {
		return 0, nil
	}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.Wait(ctx); err != nil {
		t.Fatalf("Wait returned %v, want nil", err)
	}
}

func TestPublish_StopsAtCancel(t *testing.T) {
	var handle atomic.Pointer[Handle]
	ready := make(chan struct{})
	results := make(chan [2]bool, 1)

	h := Adaptive(context.Background(), 0, func(ctx context.Context) time.Duration {
		<-ready
		first := Publish(ctx, func() {})
		// Cancelled by a reaction to the first write.
		handle.Load().Cancel()
		second := Publish(ctx, func() { t.Error("write ran after Cancel returned") })
		results <- [2]bool{first, second}
		return time.Hour
	})
	handle.Store(h)
	close(ready)

	got := <-results
	if !got[0] || got[1] {
		t.Fatalf("Publish = %v, want [true false]", got)
	}
	waitDone(t, h)
}

func TestPublish_CancelWaitsForWrite(t *testing.T) {
	inWrite := make(chan struct{})
	release := make(chan struct{})
	var written atomic.Bool

	h := Adaptive(context.Background(), 0, func(ctx context.Context) time.Duration {
		Publish(ctx, func() {
			close(inWrite)
			<-release
			written.Store(true)
		})
		return time.Hour
	})

	<-inWrite
	cancelled := make(chan struct{})
	go func() {
		h.Cancel()
		close(cancelled)
	}()
	select {
	case <-cancelled:
		t.Fatal("Cancel returned while a write was in progress")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	<-cancelled
	if !written.Load() {
		t.Fatal("write did not complete before Cancel returned")
	}
	waitDone(t, h)
}

func TestPublish_OutsideJob(t *testing.T) {
	ran := false
	if !Publish(context.Background(), func() { ran = true }) || !ran {
		t.Fatal("Publish outside a job should run write")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if Publish(ctx, func() { t.Error("write ran on a done context") }) {
		t.Fatal("Publish on a done context = true, want false")
	}
}
