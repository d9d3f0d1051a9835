package serialexec

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newGroupExecutors builds n bare executors with the default (real
// goroutine) launcher: stubHooks.run is a no-op, but onWorkerExit drives
// ConfirmShutdown to completion on its own, so these executors fully
// terminate once shut down despite never running a real main loop.
func newGroupExecutors(t *testing.T, n int) []*Executor {
	t.Helper()
	out := make([]*Executor, n)
	for i := range out {
		ex, err := newExecutor(stubHooks{}, WithLogger(NopLogger()))
		require.NoError(t, err)
		out[i] = ex
	}
	return out
}

func TestNewExecutorGroup_RejectsEmptySlice(t *testing.T) {
	_, err := NewExecutorGroup(nil, nil)
	require.ErrorIs(t, err, ErrEmptyExecutorGroup)
}

func TestNewExecutorGroup_DefaultsToRoundRobinChooser(t *testing.T) {
	execs := newTestExecutors(2)
	g, err := NewExecutorGroup(execs, nil)
	require.NoError(t, err)

	require.Same(t, execs[0], g.Next())
	require.Same(t, execs[1], g.Next())
	require.Same(t, execs[0], g.Next())
}

func TestExecutorGroup_Executors_ReturnsDefensiveCopy(t *testing.T) {
	execs := newTestExecutors(3)
	g, err := NewExecutorGroup(execs, nil)
	require.NoError(t, err)

	got := g.Executors()
	require.Equal(t, execs, got)
	got[0] = nil
	require.NotNil(t, g.Executors()[0])
}

func TestExecutorGroup_ShutdownGracefully_FansOutAndAwaitsEveryMember(t *testing.T) {
	execs := newGroupExecutors(t, 3)
	g, err := NewExecutorGroup(execs, nil)
	require.NoError(t, err)

	futures, err := g.ShutdownGracefully(0, time.Second)
	require.NoError(t, err)
	require.Len(t, futures, 3)

	require.NoError(t, g.AwaitTermination(context.Background(), futures))
	for _, ex := range execs {
		require.True(t, ex.IsTerminated())
	}
}

func TestExecutorGroup_AwaitTermination_AggregatesContextTimeoutErrors(t *testing.T) {
	execs := newGroupExecutors(t, 2)
	g, err := NewExecutorGroup(execs, nil)
	require.NoError(t, err)

	futures := []*Future{execs[0].TerminationFuture(), execs[1].TerminationFuture()}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = g.AwaitTermination(ctx, futures)
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	_, _ = g.ShutdownGracefully(0, time.Second)
}

func TestExecutorGroup_AwaitTermination_IgnoresNilFutures(t *testing.T) {
	execs := newGroupExecutors(t, 1)
	g, err := NewExecutorGroup(execs, nil)
	require.NoError(t, err)

	futures, err := g.ShutdownGracefully(0, time.Second)
	require.NoError(t, err)

	err = g.AwaitTermination(context.Background(), append(futures, nil))
	require.NoError(t, err)
}
