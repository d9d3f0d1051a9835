// executorgroup.go - a fixed array of executors plus a chooser, the
// concrete home for the "enclosing group" spec.md §4.1 assumes exists
// around a round-robin chooser. Grounded on errors.go's pattern of
// typed, wrappable errors for fanning out and aggregating failures
// across every member on shutdown.

package serialexec

import (
	"context"
	"errors"
	"time"
)

// ExecutorGroup owns a fixed, non-empty array of [Executor] instances and
// a [Chooser] built over them, so callers can spread submissions across
// more than one worker goroutine.
type ExecutorGroup struct {
	executors []*Executor
	chooser   Chooser
}

// NewExecutorGroup builds a group over executors using chooser to build
// the selection strategy. Rejects an empty slice (spec.md §4.1: a
// round-robin chooser over zero executors is undefined, and "should be
// rejected at construction by the enclosing group").
func NewExecutorGroup(executors []*Executor, chooser ChooserFactory) (*ExecutorGroup, error) {
	if len(executors) == 0 {
		return nil, ErrEmptyExecutorGroup
	}
	if chooser == nil {
		chooser = NewRoundRobinChooser
	}
	members := make([]*Executor, len(executors))
	copy(members, executors)
	return &ExecutorGroup{
		executors: members,
		chooser:   chooser(members),
	}, nil
}

// Next selects the next executor, round-robin.
func (g *ExecutorGroup) Next() *Executor {
	return g.chooser.Next()
}

// Executors returns the group's members, in the order passed to
// NewExecutorGroup. The returned slice is a copy; mutating it has no
// effect on the group.
func (g *ExecutorGroup) Executors() []*Executor {
	out := make([]*Executor, len(g.executors))
	copy(out, g.executors)
	return out
}

// ShutdownGracefully starts graceful shutdown on every member, returning
// once all have been requested to shut down. Errors from individual
// members (e.g. a worker bootstrap failure on an executor that had never
// started) are aggregated via errors.Join; a nil return means every
// member accepted the shutdown request without error.
func (g *ExecutorGroup) ShutdownGracefully(quietPeriod, timeout time.Duration) ([]*Future, error) {
	futures := make([]*Future, len(g.executors))
	var errs []error
	for i, ex := range g.executors {
		f, err := ex.ShutdownGracefully(quietPeriod, timeout)
		futures[i] = f
		if err != nil {
			errs = append(errs, err)
		}
	}
	return futures, errors.Join(errs...)
}

// AwaitTermination blocks until every future in futures completes or ctx
// is done, whichever comes first for each. Aggregates per-member errors
// via errors.Join; typically called with the futures returned from
// ShutdownGracefully.
func (g *ExecutorGroup) AwaitTermination(ctx context.Context, futures []*Future) error {
	var errs []error
	for _, f := range futures {
		if f == nil {
			continue
		}
		if err := f.Wait(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
