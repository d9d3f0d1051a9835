package serialexec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycleState_StartsNotStarted(t *testing.T) {
	s := newLifecycleState()
	require.Equal(t, NotStarted, s.Load())
}

func TestLifecycleState_CompareAndSwap(t *testing.T) {
	s := newLifecycleState()

	require.True(t, s.compareAndSwap(NotStarted, Started))
	require.Equal(t, Started, s.Load())

	require.False(t, s.compareAndSwap(NotStarted, Started), "CAS should fail once the state has moved on")

	require.True(t, s.compareAndSwap(Started, ShuttingDown))
	require.True(t, s.compareAndSwap(ShuttingDown, Shutdown))
	require.True(t, s.compareAndSwap(Shutdown, Terminated))
	require.Equal(t, Terminated, s.Load())
}

func TestLifecycleState_AtLeast(t *testing.T) {
	s := newLifecycleState()
	s.store(ShuttingDown)

	assert.True(t, s.atLeast(NotStarted))
	assert.True(t, s.atLeast(Started))
	assert.True(t, s.atLeast(ShuttingDown))
	assert.False(t, s.atLeast(Shutdown))
	assert.False(t, s.atLeast(Terminated))
}

func TestState_String(t *testing.T) {
	cases := map[State]string{
		NotStarted:   "NotStarted",
		Started:      "Started",
		ShuttingDown: "ShuttingDown",
		Shutdown:     "Shutdown",
		Terminated:   "Terminated",
		State(99):    "Unknown",
	}
	for state, want := range cases {
		assert.Equal(t, want, state.String())
	}
}
