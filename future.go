package serialexec

import (
	"context"
	"sync"
)

// Future is a minimal completed-once signal: the concrete termination
// future an [Executor] exposes from TerminationFuture (spec.md §4.11). It
// intentionally does not model chained continuations or value results —
// the teacher's promise.go/promisify.go implement that for JavaScript-style
// microtask resolution, which this package has no use for; here a Future is
// completed exactly once, may be awaited by any number of goroutines, and
// is never chained.
type Future struct {
	done chan struct{}
	once sync.Once
	err  error
}

// NewFuture returns an incomplete Future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// complete marks the future done with err, exactly once. Subsequent calls
// are no-ops, so the worker goroutine can unconditionally call this on
// every exit path without checking whether it already ran.
func (f *Future) complete(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed once the future completes.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// IsDone reports whether the future has already completed.
func (f *Future) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Err returns the completion error. Only meaningful after Done() is closed.
func (f *Future) Err() error {
	return f.err
}

// Wait blocks until the future completes or ctx is done, whichever comes
// first.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
