package serialexec

import (
	"sync"
	"time"
)

// chunkSize is the number of tasks per node of the queue's internal
// chunked linked list. Matches the teacher's ChunkedIngress: large enough
// to amortize allocation and keep cache locality, small enough that a
// lightly loaded queue doesn't hold a huge unused backing array.
const chunkSize = 128

// taskHandle wraps a submitted [Task] so the queue can hand back an
// identity token for the two places spec.md needs one:
//
//   - the wakeup sentinel (spec.md §3): Go function values are only
//     comparable to nil, never to each other, so there is no way to ask
//     "is this the sentinel I offered earlier?" by comparing Task values.
//     A nil fn marks a handle as the sentinel; real tasks are never nil
//     (Execute rejects a nil task before it reaches the queue).
//   - post-rejection removal (spec.md §4.5 step 3): "taskQueue.remove(task)"
//     must remove the specific submission just offered, not merely the
//     first queued task matching it by value, since two submissions can
//     share the same closure literal. offerTracked returns a *taskHandle
//     the caller holds onto and later passes to removeHandle.
type taskHandle struct {
	fn Task
}

// chunk is a fixed-size node in the chunked linked list backing TaskQueue.
// It uses readPos/writePos cursors for O(1) push/pop without shifting.
type chunk struct {
	tasks   [chunkSize]*taskHandle
	next    *chunk
	readPos int
	pos     int
}

var chunkPool = sync.Pool{
	New: func() any { return &chunk{} },
}

func newChunk() *chunk {
	c := chunkPool.Get().(*chunk)
	c.pos = 0
	c.readPos = 0
	c.next = nil
	return c
}

func returnChunk(c *chunk) {
	for i := 0; i < c.pos; i++ {
		c.tasks[i] = nil
	}
	c.pos = 0
	c.readPos = 0
	c.next = nil
	chunkPool.Put(c)
}

// TaskQueue is a bounded, multi-producer/single-consumer FIFO of [Task].
// Producers call Offer from any goroutine; only the worker goroutine calls
// Take/Poll/PollTimeout. Capacity is fixed at construction (spec.md §4.2).
//
// Thread safety: storage is guarded by a mutex (grounded on the teacher's
// ChunkedIngress, which is the same chunked-linked-list shape, externally
// synchronized). Blocking is signalled via a buffered "ready" channel
// rather than a sync.Cond, since Go has no cond-variable-with-timeout:
// a channel composes naturally with select and time.After.
type TaskQueue struct {
	mu        sync.Mutex
	head      *chunk
	tail      *chunk
	length    int
	capacity  int
	ready     chan struct{} // non-blocking-send signal: "queue became non-empty"
	interrupt chan struct{} // non-blocking-send signal: "wake up, nothing to do with it"
}

// NewTaskQueue creates a bounded TaskQueue with the given capacity. A
// non-positive capacity is treated as unbounded-in-practice (MaxInt).
func NewTaskQueue(capacity int) *TaskQueue {
	if capacity <= 0 {
		capacity = int(^uint(0) >> 1)
	}
	return &TaskQueue{
		capacity:  capacity,
		ready:     make(chan struct{}, 1),
		interrupt: make(chan struct{}, 1),
	}
}

// Offer enqueues t without blocking. Returns false if the queue is full.
func (q *TaskQueue) Offer(t Task) bool {
	_, ok := q.offerTracked(t)
	return ok
}

// offerTracked is Offer plus the identity handle, used internally by the
// executor for post-rejection removal (spec.md §4.5 step 3).
func (q *TaskQueue) offerTracked(t Task) (*taskHandle, bool) {
	return q.offerHandle(&taskHandle{fn: t})
}

// offerWakeup enqueues the wakeup sentinel: a handle with a nil fn,
// silently skipped by PollTask/TakeTask (spec.md §3).
func (q *TaskQueue) offerWakeup() bool {
	_, ok := q.offerHandle(&taskHandle{})
	return ok
}

func (q *TaskQueue) offerHandle(h *taskHandle) (*taskHandle, bool) {
	q.mu.Lock()
	if q.length >= q.capacity {
		q.mu.Unlock()
		return nil, false
	}
	q.pushLocked(h)
	q.mu.Unlock()
	q.signalReady()
	return h, true
}

func (q *TaskQueue) signalReady() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *TaskQueue) pushLocked(h *taskHandle) {
	if q.tail == nil {
		q.tail = newChunk()
		q.head = q.tail
	}
	if q.tail.pos == len(q.tail.tasks) {
		newTail := newChunk()
		q.tail.next = newTail
		q.tail = newTail
	}
	q.tail.tasks[q.tail.pos] = h
	q.tail.pos++
	q.length++
}

// popLocked removes and returns the head handle. Caller holds q.mu.
func (q *TaskQueue) popLocked() (*taskHandle, bool) {
	// A removal can leave a non-tail chunk with nothing unread; step past
	// such chunks so the entries queued behind them stay reachable.
	for q.head != nil && q.head != q.tail && q.head.readPos >= q.head.pos {
		old := q.head
		q.head = q.head.next
		returnChunk(old)
	}
	if q.head == nil || q.head.readPos >= q.head.pos {
		if q.head != nil && q.head == q.tail {
			q.head.pos = 0
			q.head.readPos = 0
		}
		return nil, false
	}
	h := q.head.tasks[q.head.readPos]
	q.head.tasks[q.head.readPos] = nil
	q.head.readPos++
	q.length--
	if q.head.readPos >= q.head.pos {
		if q.head == q.tail {
			q.head.pos = 0
			q.head.readPos = 0
		} else {
			old := q.head
			q.head = q.head.next
			returnChunk(old)
		}
	}
	return h, true
}

// Poll removes and returns the head task without blocking. Returns
// (nil, false) if the queue is empty; (nil, true) if the head was the
// wakeup sentinel.
func (q *TaskQueue) Poll() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	h, ok := q.popLocked()
	if !ok {
		return nil, false
	}
	return h.fn, true
}

// Take blocks until a task is available or Interrupt is called. Returns
// (nil, false) on interruption, which the worker treats as an implicit
// wakeup (spec.md §4.2); returns (nil, true) if the dequeued entry was the
// wakeup sentinel.
func (q *TaskQueue) Take() (Task, bool) {
	for {
		q.mu.Lock()
		if q.length > 0 {
			h, ok := q.popLocked()
			q.mu.Unlock()
			if !ok {
				return nil, false
			}
			return h.fn, true
		}
		q.mu.Unlock()

		select {
		case <-q.ready:
		case <-q.interrupt:
			return nil, false
		}
	}
}

// PollTimeout blocks up to d for a task to become available. Returns
// (nil, false) on timeout, interruption, or immediately if d <= 0 and the
// queue is currently empty.
func (q *TaskQueue) PollTimeout(d time.Duration) (Task, bool) {
	if d <= 0 {
		return q.Poll()
	}
	deadline := time.NewTimer(d)
	defer deadline.Stop()
	for {
		q.mu.Lock()
		if q.length > 0 {
			h, ok := q.popLocked()
			q.mu.Unlock()
			if !ok {
				return nil, false
			}
			return h.fn, true
		}
		q.mu.Unlock()

		select {
		case <-q.ready:
		case <-q.interrupt:
			return nil, false
		case <-deadline.C:
			return nil, false
		}
	}
}

// Interrupt wakes a goroutine parked in Take or PollTimeout, causing it to
// return (nil, false). Mirrors the effect of Java thread interruption on a
// blocking queue, used by Executor.InterruptThread (spec.md §4.9).
func (q *TaskQueue) Interrupt() {
	select {
	case q.interrupt <- struct{}{}:
	default:
	}
}

// Size returns the number of tasks currently queued.
func (q *TaskQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.length
}

// IsEmpty reports whether the queue currently holds no tasks.
func (q *TaskQueue) IsEmpty() bool {
	return q.Size() == 0
}

// RemoveFunc removes the first task for which match returns true. Go funcs
// are not comparable, so unlike Java's Queue.remove(Object), removal by
// value is unavailable; callers needing to remove one specific submission
// (rather than "the first matching one") should use the handle returned by
// offerTracked and removeHandle instead.
func (q *TaskQueue) RemoveFunc(match func(Task) bool) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for c := q.head; c != nil; c = c.next {
		for i := c.readPos; i < c.pos; i++ {
			if c.tasks[i].fn != nil && match(c.tasks[i].fn) {
				q.removeAtLocked(c, i)
				return true
			}
		}
	}
	return false
}

// removeHandle removes the exact handle h (pointer identity), if it is
// still queued. Returns false if h has already been dequeued.
func (q *TaskQueue) removeHandle(h *taskHandle) bool {
	if h == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	for c := q.head; c != nil; c = c.next {
		for i := c.readPos; i < c.pos; i++ {
			if c.tasks[i] == h {
				q.removeAtLocked(c, i)
				return true
			}
		}
	}
	return false
}

// removeAtLocked removes the entry at index i of chunk c. Caller holds q.mu.
func (q *TaskQueue) removeAtLocked(c *chunk, i int) {
	copy(c.tasks[i:c.pos-1], c.tasks[i+1:c.pos])
	c.tasks[c.pos-1] = nil
	c.pos--
	q.length--
}
