package serialexec

import "sync/atomic"

// Task is an opaque unit of work executed on the worker goroutine. It
// takes no arguments and returns nothing; side effects (writing to a
// channel, closing over a result variable, resolving a future) are the
// caller's responsibility.
type Task func()

// Launcher starts a callable on a fresh goroutine. It is the Go analogue
// of a thread-per-task executor: trivial, but pluggable so tests can
// observe exactly when (and whether) a worker goroutine was started, or
// inject a bounded pool that can refuse to start one (returning an error,
// which the core surfaces as a [BootstrapError]).
type Launcher interface {
	Launch(fn func()) error
}

// goroutineLauncher is the default [Launcher]: a bare `go fn()`, which
// never fails to start.
type goroutineLauncher struct{}

func (goroutineLauncher) Launch(fn func()) error {
	go fn()
	return nil
}

// LauncherFunc adapts a plain function to a [Launcher].
type LauncherFunc func(fn func()) error

// Launch implements Launcher.
func (f LauncherFunc) Launch(fn func()) error { return f(fn) }

// RejectedExecutionHandler is invoked when a task cannot be enqueued: the
// executor has reached the Shutdown state, or the bounded queue is full.
// Implementations typically return a [RejectedExecutionError], but may
// instead run the task synchronously on the caller, drop it silently, or
// apply backpressure of their own.
type RejectedExecutionHandler interface {
	Rejected(task Task, exec *Executor) error
}

// AbortPolicy is the default [RejectedExecutionHandler]: it returns a
// [RejectedExecutionError] wrapping the reason the task could not be
// enqueued.
type AbortPolicy struct{}

// Rejected implements RejectedExecutionHandler.
func (AbortPolicy) Rejected(task Task, exec *Executor) error {
	cause := ErrQueueFull
	if exec.state.atLeast(Shutdown) {
		cause = ErrShuttingDown
	}
	return &RejectedExecutionError{Task: task, Cause: cause}
}

// CallerRunsPolicy runs the rejected task synchronously on the submitting
// goroutine instead of failing the submission. It never returns an error,
// mirroring java.util.concurrent.ThreadPoolExecutor.CallerRunsPolicy.
type CallerRunsPolicy struct{}

// Rejected implements RejectedExecutionHandler.
func (CallerRunsPolicy) Rejected(task Task, exec *Executor) error {
	task()
	return nil
}

// CountingRejectedExecutionHandler wraps another handler and counts how
// many times it was invoked; used by tests asserting the handler fires
// exactly once (spec.md §8 scenario 4).
type CountingRejectedExecutionHandler struct {
	Wrapped RejectedExecutionHandler
	count   atomic.Int64
}

// Rejected implements RejectedExecutionHandler.
func (h *CountingRejectedExecutionHandler) Rejected(task Task, exec *Executor) error {
	h.count.Add(1)
	if h.Wrapped != nil {
		return h.Wrapped.Rejected(task, exec)
	}
	return (AbortPolicy{}).Rejected(task, exec)
}

// Count returns the number of times Rejected has been invoked.
func (h *CountingRejectedExecutionHandler) Count() int64 {
	return h.count.Load()
}
