package serialexec

import "sync/atomic"

// Chooser selects the next [Executor] from a fixed array, round-robin.
type Chooser interface {
	Next() *Executor
}

// ChooserFactory builds a [Chooser] over a fixed, non-empty slice of
// executors. NewExecutorGroup calls this exactly once.
type ChooserFactory func(executors []*Executor) Chooser

// NewRoundRobinChooser returns the power-of-two (bitmask) chooser when
// len(executors) is a power of two, and the generic (modulo) chooser
// otherwise — spec.md §4.1's dispatch rule. The counter itself is grounded
// on the teacher's own atomic round-robin idiom (loop.go's LoopState CAS
// counters): a single shared atomic uint32 incremented once per call, read
// by every caller without locking.
func NewRoundRobinChooser(executors []*Executor) Chooser {
	n := uint32(len(executors))
	if n != 0 && n&(n-1) == 0 {
		return &powerOfTwoChooser{executors: executors, mask: n - 1}
	}
	return &genericChooser{executors: executors}
}

// powerOfTwoChooser implements spec.md §4.1's "counter++ & (N-1)" variant.
type powerOfTwoChooser struct {
	executors []*Executor
	counter   atomic.Uint32
	mask      uint32
}

// Next implements Chooser.
func (c *powerOfTwoChooser) Next() *Executor {
	i := c.counter.Add(1) - 1
	return c.executors[i&c.mask]
}

// genericChooser implements spec.md §4.1's modulo variant for N not a
// power of two. The counter is read as a signed int32, reduced modulo N,
// and then made non-negative. While the counter is in the upper half of its
// uint32 range the int32 value is negative and shrinks toward zero, so the
// executors are visited in reverse order there: the direction of rotation
// flips at each crossing between the two halves (once every 2^31 calls),
// while each executor is still picked once per N calls. Callers needing
// strict rotation order across that boundary should size their executor
// group to a power of two instead.
type genericChooser struct {
	executors []*Executor
	counter   atomic.Uint32
}

// Next implements Chooser.
func (c *genericChooser) Next() *Executor {
	i := int32(c.counter.Add(1)-1) % int32(len(c.executors))
	if i < 0 {
		i = -i
	}
	return c.executors[i]
}
