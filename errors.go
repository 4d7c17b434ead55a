package fiber

import (
	"errors"
	"fmt"
)

var (
	// ErrNotImmediateChild is returned by Thread.Join when the given handle
	// is not a live, immediate child of the calling Thread - including when
	// it has already exited, was never created by the caller, or belongs to
	// a different Scheduler.
	ErrNotImmediateChild = errors.New(`fiber: not an immediate live child`)

	// ErrInvalidSemaphoreValue is returned by Scheduler.NewSemaphore when the
	// initial value is negative.
	ErrInvalidSemaphoreValue = errors.New(`fiber: semaphore initial value must be >= 0`)

	// ErrSemaphoreBusy is returned by Semaphore.Destroy when threads are
	// still queued on the semaphore's wait queue.
	ErrSemaphoreBusy = errors.New(`fiber: semaphore has waiters`)

	// errEngineAlreadyRunning is returned by every call to a Scheduler's
	// Run after the first, whether or not the first has finished.
	errEngineAlreadyRunning = errors.New(`fiber: scheduler is already running`)
)

// PanicError wraps a value recovered from a panic raised by a Thread's
// start function. Unwrap returns the original value, if it was an error,
// so errors.Is and errors.As continue to work through the cause chain.
//
// A thread that panics is treated as if it called Exit: its parent is
// woken per the usual rules, its children are orphaned, and the
// scheduler keeps running. The panic is reported to the caller of Run
// only after the whole computation finishes, via RunError.
type PanicError struct {
	ThreadID int
	Value    any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf(`fiber: thread %d panicked: %v`, e.ThreadID, e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// RunError aggregates every PanicError recovered during a single Run, in
// the order the panicking threads exited. It is returned by Run, in
// place of nil, whenever at least one thread panicked.
type RunError struct {
	Panics []*PanicError
}

func (e *RunError) Error() string {
	return fmt.Sprintf(`fiber: run completed with %d thread panic(s): %v`, len(e.Panics), e.Panics[0])
}

// Unwrap exposes every recovered panic for errors.Is / errors.As.
func (e *RunError) Unwrap() []error {
	errs := make([]error, len(e.Panics))
	for i, p := range e.Panics {
		errs[i] = p
	}
	return errs
}
