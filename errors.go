// Package serialexec error types, in the cause-chain style: each typed
// error carries an optional Cause and supports errors.Is/errors.As through
// Unwrap.
package serialexec

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the submission and shutdown paths.
var (
	// ErrNilTask is returned by Execute and AddScheduled when task is nil.
	ErrNilTask = errors.New("serialexec: task is nil")

	// ErrInvalidQuietPeriod is returned when quietPeriod < 0.
	ErrInvalidQuietPeriod = errors.New("serialexec: quiet period must be >= 0")

	// ErrInvalidTimeout is returned when timeout < quietPeriod.
	ErrInvalidTimeout = errors.New("serialexec: timeout must be >= quiet period")

	// ErrEmptyExecutorGroup is returned by NewExecutorGroup for an empty slice.
	ErrEmptyExecutorGroup = errors.New("serialexec: executor group must be non-empty")

	// ErrAwaitFromWorker is returned when AwaitTermination is called from
	// the executor's own worker goroutine (it would deadlock).
	ErrAwaitFromWorker = errors.New("serialexec: cannot await termination from the worker goroutine")

	// ErrConfirmShutdownOffWorker is returned when confirmShutdown is
	// invoked from a goroutine other than the worker.
	ErrConfirmShutdownOffWorker = errors.New("serialexec: confirmShutdown called off the worker goroutine")

	// ErrBuggyRunLoop is logged (not returned) when a subclass run() loop
	// returns before any confirmShutdown call recorded the graceful-shutdown
	// start time.
	ErrBuggyRunLoop = errors.New("serialexec: run() returned without confirming shutdown")
)

// RejectedExecutionError is returned by Execute when a task cannot be
// enqueued: the executor has reached or passed Shutdown, or the rejection
// handler itself declines the task (queue full).
type RejectedExecutionError struct {
	// Task is the task that was rejected, for handlers that want to
	// inspect or reroute it.
	Task Task
	// Cause is the underlying reason, e.g. a queue-full condition.
	Cause error
}

// Error implements the error interface.
func (e *RejectedExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("serialexec: task rejected: %s", e.Cause)
	}
	return "serialexec: task rejected"
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *RejectedExecutionError) Unwrap() error {
	return e.Cause
}

// ErrQueueFull is a Cause used by RejectedExecutionError when the bounded
// task queue has reached maxPendingTasks.
var ErrQueueFull = errors.New("serialexec: task queue is full")

// ErrShuttingDown is a Cause used by RejectedExecutionError when the
// executor has reached or passed the Shutdown state.
var ErrShuttingDown = errors.New("serialexec: executor is shutting down")

// IllegalStateError reports an operation invoked from the wrong goroutine,
// or at the wrong point in the lifecycle, e.g. AwaitTermination called from
// the worker, or confirmShutdown called off it.
type IllegalStateError struct {
	Cause   error
	Message string
}

// Error implements the error interface.
func (e *IllegalStateError) Error() string {
	if e.Message == "" {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return "serialexec: illegal state"
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *IllegalStateError) Unwrap() error {
	return e.Cause
}

// BootstrapError wraps a failure that occurred while spawning the worker
// goroutine (e.g. the configured Launcher returned an error). Execute and
// ShutdownGracefully return this error; Shutdown, which has no return
// value, completes the termination future with it. The lifecycle state is
// reverted (for Execute) or advanced straight to Terminated (for the
// shutdown paths), per spec.
type BootstrapError struct {
	Cause error
}

// Error implements the error interface.
func (e *BootstrapError) Error() string {
	return fmt.Sprintf("serialexec: worker bootstrap failed: %s", e.Cause)
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *BootstrapError) Unwrap() error {
	return e.Cause
}

// WrapError wraps an error with a message and optional cause chain.
//
// If the original error should be the cause, pass it as both arguments:
//
//	WrapError("context failed", originalErr)
//
// The result satisfies errors.Is(result, originalErr) == true.
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}
