package serialexec

import (
	"sync/atomic"
)

// State represents where an [Executor] sits in its five-state lifecycle.
//
// State Machine:
//
//	NotStarted(1) -> Started(2) -> ShuttingDown(3) -> Shutdown(4) -> Terminated(5)
//
// Transitions only increase the state, with one exception: if the worker
// goroutine fails to launch, startThread reverts Started to NotStarted. Every
// submission path and shutdown path is a CAS loop over a single atomic
// integer, never a mutex.
type State uint32

const (
	// NotStarted is the state of an executor before its worker goroutine
	// has been launched.
	NotStarted State = 1
	// Started indicates the worker goroutine is running.
	Started State = 2
	// ShuttingDown indicates ShutdownGracefully has been requested (or
	// run() returned on its own) and the worker has not yet terminated.
	ShuttingDown State = 3
	// Shutdown indicates the abrupt Shutdown() has been requested. A purely
	// graceful shutdown never enters this state: it moves from
	// ShuttingDown straight to Terminated.
	Shutdown State = 4
	// Terminated indicates the worker has exited and cleanup has run.
	Terminated State = 5
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Started:
		return "Started"
	case ShuttingDown:
		return "ShuttingDown"
	case Shutdown:
		return "Shutdown"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// lifecycleState is a lock-free, monotonic state machine with cache-line
// padding to avoid false sharing with neighbouring hot fields (the task
// queue's producer/consumer cursors, in particular).
type lifecycleState struct { // betteralign:ignore
	_ [sizeOfCacheLine]byte
	v atomic.Uint32
	_ [sizeOfCacheLine - 4]byte
}

func newLifecycleState() *lifecycleState {
	s := &lifecycleState{}
	s.v.Store(uint32(NotStarted))
	return s
}

// Load returns the current state.
func (s *lifecycleState) Load() State {
	return State(s.v.Load())
}

// store unconditionally sets the state. Reserved for transitions that are
// known-irreversible from the caller's point of view (e.g. the worker
// setting Terminated after it alone observed Shutdown).
func (s *lifecycleState) store(state State) {
	s.v.Store(uint32(state))
}

// compareAndSwap attempts a single CAS transition.
func (s *lifecycleState) compareAndSwap(from, to State) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}

// atLeast reports whether the current state is >= the given state.
func (s *lifecycleState) atLeast(state State) bool {
	return s.Load() >= state
}
