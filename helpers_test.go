package serialexec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Shared test scaffolding: a minimal runLoopHooks stub and a helper for
// building bare Executor cores without a worker loop, for tests (e.g. the
// chooser) that only need distinct *Executor identities, not a running
// worker.

type stubHooks struct {
	runFn func(*Executor)
}

func (h stubHooks) run(ex *Executor) {
	if h.runFn != nil {
		h.runFn(ex)
	}
}
func (stubHooks) cleanup()                 {}
func (stubHooks) afterRunningAllTasks()     {}
func (stubHooks) wakesUpForTask(Task) bool { return true }

func newTestExecutors(n int) []*Executor {
	out := make([]*Executor, n)
	for i := range out {
		ex, err := newExecutor(stubHooks{}, WithLauncher(LauncherFunc(func(func()) error { return nil })))
		if err != nil {
			panic(err)
		}
		out[i] = ex
	}
	return out
}

// workerGID is the fixed fake goroutine id used by newWorkerBoundExecutor to
// simulate "currently running on the worker goroutine" without spinning a
// real one.
const workerGID = 999

// newWorkerBoundExecutor builds an Executor whose worker never actually
// starts (the launcher is a no-op), but which reports InEventLoop() == true
// for the calling goroutine, so worker-only methods (ConfirmShutdown,
// PollTask, TakeTask, AddShutdownHook, ...) can be exercised directly from a
// test body.
func newWorkerBoundExecutor(t *testing.T, opts ...Option) *Executor {
	t.Helper()
	opts = append([]Option{
		WithGoroutineIDFunc(func() uint64 { return workerGID }),
		WithLogger(NopLogger()),
		WithLauncher(LauncherFunc(func(func()) error { return nil })),
	}, opts...)
	ex, err := newExecutor(stubHooks{}, opts...)
	require.NoError(t, err)
	ex.workerID.Store(workerGID)
	return ex
}
