package serialexec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoroutineLauncher_RunsOnASeparateGoroutine(t *testing.T) {
	done := make(chan uint64, 1)
	callerID := currentGoroutineID()

	l := goroutineLauncher{}
	err := l.Launch(func() {
		done <- currentGoroutineID()
	})
	require.NoError(t, err)

	gid := <-done
	assert.NotEqual(t, callerID, gid)
}

func TestLauncherFunc_AdaptsPlainFunction(t *testing.T) {
	var called bool
	var l Launcher = LauncherFunc(func(fn func()) error {
		called = true
		fn()
		return nil
	})

	ran := false
	require.NoError(t, l.Launch(func() { ran = true }))
	assert.True(t, called)
	assert.True(t, ran)
}

func TestLauncherFunc_PropagatesError(t *testing.T) {
	want := errors.New("no capacity")
	var l Launcher = LauncherFunc(func(fn func()) error { return want })
	require.ErrorIs(t, l.Launch(func() {}), want)
}

func TestAbortPolicy_ReportsQueueFullWhenNotYetShutdown(t *testing.T) {
	ex, err := newExecutor(stubHooks{}, WithLauncher(LauncherFunc(func(func()) error { return nil })))
	require.NoError(t, err)

	rejErr := (AbortPolicy{}).Rejected(func() {}, ex)
	var re *RejectedExecutionError
	require.ErrorAs(t, rejErr, &re)
	require.ErrorIs(t, re, ErrQueueFull)
}

func TestAbortPolicy_ReportsShuttingDownOnceShutdown(t *testing.T) {
	ex, err := newExecutor(stubHooks{}, WithLauncher(LauncherFunc(func(func()) error { return nil })))
	require.NoError(t, err)
	ex.state.store(Shutdown)

	rejErr := (AbortPolicy{}).Rejected(func() {}, ex)
	var re *RejectedExecutionError
	require.ErrorAs(t, rejErr, &re)
	require.ErrorIs(t, re, ErrShuttingDown)
}

func TestCallerRunsPolicy_RunsTaskSynchronouslyAndNeverErrors(t *testing.T) {
	ran := false
	err := (CallerRunsPolicy{}).Rejected(func() { ran = true }, nil)
	require.NoError(t, err)
	require.True(t, ran)
}

func TestCountingRejectedExecutionHandler_CountsEveryInvocation(t *testing.T) {
	ex, err := newExecutor(stubHooks{}, WithLauncher(LauncherFunc(func(func()) error { return nil })))
	require.NoError(t, err)

	h := &CountingRejectedExecutionHandler{}
	for i := 0; i < 3; i++ {
		_ = h.Rejected(func() {}, ex)
	}
	require.EqualValues(t, 3, h.Count())
}

func TestCountingRejectedExecutionHandler_DelegatesToWrapped(t *testing.T) {
	ex, err := newExecutor(stubHooks{}, WithLauncher(LauncherFunc(func(func()) error { return nil })))
	require.NoError(t, err)

	ran := false
	h := &CountingRejectedExecutionHandler{Wrapped: CallerRunsPolicy{}}
	rejErr := h.Rejected(func() { ran = true }, ex)
	require.NoError(t, rejErr)
	require.True(t, ran)
	require.EqualValues(t, 1, h.Count())
}

func TestCountingRejectedExecutionHandler_DefaultsToAbortPolicy(t *testing.T) {
	ex, err := newExecutor(stubHooks{}, WithLauncher(LauncherFunc(func(func()) error { return nil })))
	require.NoError(t, err)

	h := &CountingRejectedExecutionHandler{}
	rejErr := h.Rejected(func() {}, ex)
	var re *RejectedExecutionError
	require.ErrorAs(t, rejErr, &re)
}
