package serialexec

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoop_OnClose_RunsDuringCleanupAfterTermination(t *testing.T) {
	loop, err := NewLoop(WithLogger(NopLogger()))
	require.NoError(t, err)

	var closed atomic.Bool
	loop.OnClose(func() error {
		closed.Store(true)
		return nil
	})

	_, err = loop.ShutdownGracefully(0, time.Second)
	require.NoError(t, err)
	require.NoError(t, loop.AwaitTermination(context.Background()))
	require.True(t, closed.Load())
}

func TestLoop_OnClose_FailingCloserDoesNotBlockOthers(t *testing.T) {
	loop, err := NewLoop(WithLogger(NopLogger()))
	require.NoError(t, err)

	var secondRan atomic.Bool
	loop.OnClose(func() error { return errors.New("boom") })
	loop.OnClose(func() error {
		secondRan.Store(true)
		return nil
	})

	_, err = loop.ShutdownGracefully(0, time.Second)
	require.NoError(t, err)
	require.NoError(t, loop.AwaitTermination(context.Background()))
	require.True(t, secondRan.Load())
}

func TestLoop_OnClose_RunsExactlyOnce(t *testing.T) {
	loop, err := NewLoop(WithLogger(NopLogger()))
	require.NoError(t, err)

	var calls atomic.Int32
	loop.OnClose(func() error {
		calls.Add(1)
		return nil
	})

	_, err = loop.ShutdownGracefully(0, time.Second)
	require.NoError(t, err)
	require.NoError(t, loop.AwaitTermination(context.Background()))
	require.EqualValues(t, 1, calls.Load())
}

// TestLoop_GracefulShutdown_WaitsOutQuietPeriodAfterLastTask exercises the
// two-phase graceful shutdown's quiet period end to end: termination must
// not happen before at least one quiet period has elapsed since the last
// task ran.
func TestLoop_GracefulShutdown_WaitsOutQuietPeriodAfterLastTask(t *testing.T) {
	loop, err := NewLoop(WithLogger(NopLogger()))
	require.NoError(t, err)

	ran := make(chan struct{})
	require.NoError(t, loop.Execute(func() { close(ran) }))
	<-ran

	const quietPeriod = 150 * time.Millisecond
	start := time.Now()
	_, err = loop.ShutdownGracefully(quietPeriod, 2*time.Second)
	require.NoError(t, err)
	require.NoError(t, loop.AwaitTermination(context.Background()))

	elapsed := time.Since(start)
	require.GreaterOrEqual(t, elapsed, quietPeriod)
	require.Less(t, elapsed, 2*time.Second)
}

// TestLoop_GracefulShutdown_TimeoutForcesTerminationDespiteOngoingTasks
// exercises the other half of the protocol: if tasks keep arriving and the
// quiet period can never elapse undisturbed, the overall timeout still
// forces termination.
func TestLoop_GracefulShutdown_TimeoutForcesTerminationDespiteOngoingTasks(t *testing.T) {
	loop, err := NewLoop(WithLogger(NopLogger()))
	require.NoError(t, err)

	// Tasks arrive every 5ms from a producer goroutine of their own. A task
	// that resubmitted itself from the worker would keep RunAllTasks's
	// drain pass going forever, and ConfirmShutdown checks the timeout only
	// after a pass that ran no work.
	stop := make(chan struct{})
	producer := func() {
		for {
			select {
			case <-stop:
				return
			case <-time.After(5 * time.Millisecond):
			}
			_ = loop.Execute(func() {})
		}
	}
	require.NoError(t, loop.Execute(func() { go producer() }))
	defer close(stop)

	const timeout = 300 * time.Millisecond
	start := time.Now()
	_, err = loop.ShutdownGracefully(200*time.Millisecond, timeout)
	require.NoError(t, err)
	require.NoError(t, loop.AwaitTermination(context.Background()))

	elapsed := time.Since(start)
	require.GreaterOrEqual(t, elapsed, timeout/2, "timeout should not fire near-instantly while tasks keep arriving")
	require.Less(t, elapsed, 2*time.Second)
}
