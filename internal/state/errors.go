package state

import (
	"time"
)

// ErrorState is the latest fetch failure surfaced to the UI.
type ErrorState struct {
	Source              string
	Err                 error
	At                  time.Time
	ConsecutiveFailures int // failures in a row from Source
}

// IsOffline returns true when Source has failed on multiple consecutive polls.
func (e ErrorState) IsOffline() bool {
	return e.Err != nil && e.ConsecutiveFailures >= 2
}

// Errors records transient failures reported by polling jobs. Each job is a
// distinct source; a success only clears the banner its own source raised.
//
// Unlike the per-job stores, Errors has many concurrent writers. Each write
// is atomic, but notifications from racing writers can arrive out of order,
// so a subscriber must treat its argument as a hint and read Get for the
// current state.
type Errors struct {
	store Store[ErrorState]
	now   func() time.Time
}

// NewErrors returns an empty error store.
func NewErrors() *Errors {
	return &Errors{now: time.Now}
}

// Report records err for source. A nil err is treated as Clear.
func (e *Errors) Report(source string, err error) {
	e.ReportIf(Unguarded, source, err)
}

// ReportIf is Report performed inside guard.
func (e *Errors) ReportIf(guard Guard, source string, err error) {
	if err == nil {
		e.ClearIf(guard, source)
		return
	}
	at := e.clock()
	e.store.UpdateIf(guard, func(prev ErrorState) ErrorState {
		failures := 1
		if prev.Err != nil && prev.Source == source {
			failures = prev.ConsecutiveFailures + 1
		}
		return ErrorState{Source: source, Err: err, At: at, ConsecutiveFailures: failures}
	})
}

// Clear removes the current error if it was reported by source.
func (e *Errors) Clear(source string) {
	e.ClearIf(Unguarded, source)
}

// ClearIf is Clear performed inside guard.
func (e *Errors) ClearIf(guard Guard, source string) {
	// Successful polls must not notify when source owns no error.
	if cur := e.store.Get(); cur.Err == nil || cur.Source != source {
		return
	}
	e.store.UpdateIf(guard, func(prev ErrorState) ErrorState {
		if prev.Source != source {
			return prev
		}
		return ErrorState{}
	})
}

// Get returns the current error state.
func (e *Errors) Get() ErrorState {
	return e.store.Get()
}

// Subscribe registers fn for error state changes.
func (e *Errors) Subscribe(fn func(ErrorState)) func() {
	return e.store.Subscribe(fn)
}

func (e *Errors) clock() time.Time {
	if e.now == nil {
		return time.Now()
	}
	return e.now()
}
