package serialexec

import (
	"container/heap"
	"sync/atomic"
	"time"
)

// ScheduledHandle identifies a task previously submitted to a
// ScheduledQueue, allowing it to be cancelled before it runs.
type ScheduledHandle struct {
	task *scheduledTask
}

// Cancel marks the underlying scheduled task as cancelled. A cancelled
// task is skipped (without being run) the next time the scheduled queue
// would otherwise have handed it to the worker. Safe to call from any
// goroutine; safe to call more than once.
func (h ScheduledHandle) Cancel() {
	if h.task != nil {
		h.task.cancelled.Store(true)
	}
}

type scheduledTask struct {
	deadline  time.Time
	seq       uint64 // stable tiebreak for equal deadlines
	task      Task
	index     int // heap index, maintained by container/heap
	cancelled atomic.Bool
}

type taskHeap []*scheduledTask

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}
func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *taskHeap) Push(x any) {
	t := x.(*scheduledTask)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// ScheduledQueue is a time-ordered collaborator queue for delayed tasks,
// implemented as a container/heap min-heap keyed by deadline. It is the
// external collaborator spec.md §1 treats as out of scope, made concrete
// here so the module is runnable on its own: grounded on loop.go's
// timerHeap, generalized from a single-consumer timer-callback shape to
// the narrow peek/pollDue/addBack/cancelAll/nextDelay interface the core's
// run-loop helpers need (spec.md §2 item 3).
//
// Only the worker goroutine may call any method of ScheduledQueue
// (spec.md §3 invariants); it is not internally synchronized.
type ScheduledQueue struct {
	heap    taskHeap
	nextSeq uint64
}

// NewScheduledQueue creates an empty scheduled queue.
func NewScheduledQueue() *ScheduledQueue {
	return &ScheduledQueue{}
}

// AddBack inserts a new task keyed by deadline and returns a handle that can
// cancel it. A due task that failed to transfer into the task queue is
// pushed back with requeue instead, which keeps its original sequence
// number.
func (q *ScheduledQueue) AddBack(deadline time.Time, task Task) ScheduledHandle {
	t := &scheduledTask{deadline: deadline, task: task, seq: q.nextSeq}
	q.nextSeq++
	heap.Push(&q.heap, t)
	return ScheduledHandle{task: t}
}

// requeue re-inserts an already-constructed scheduledTask, preserving its
// original deadline and sequence number (and therefore its position
// relative to tasks added before and after it).
func (q *ScheduledQueue) requeue(t *scheduledTask) {
	heap.Push(&q.heap, t)
}

// insertExisting assigns a fresh sequence number to, and pushes, a
// scheduledTask built before it could be inserted under the worker
// goroutine's exclusive access (spec.md §5: scheduledQueue is worker-only).
// Used by Executor.AddScheduled when called off the worker: the task is
// constructed immediately (so its ScheduledHandle can be cancelled right
// away) but only physically linked into the heap once the insertion runs
// as a task on the worker.
func (q *ScheduledQueue) insertExisting(t *scheduledTask) {
	t.seq = q.nextSeq
	q.nextSeq++
	heap.Push(&q.heap, t)
}

// Peek returns the head (earliest-deadline, not-yet-cancelled) task
// without removing it.
func (q *ScheduledQueue) Peek() (*scheduledTask, bool) {
	q.skipCancelled()
	if len(q.heap) == 0 {
		return nil, false
	}
	return q.heap[0], true
}

// skipCancelled discards cancelled tasks sitting at the head.
func (q *ScheduledQueue) skipCancelled() {
	for len(q.heap) > 0 && q.heap[0].cancelled.Load() {
		heap.Pop(&q.heap)
	}
}

// pollDueTask pops and returns the head *scheduledTask iff its deadline is
// <= now. Exposed internally (not just the bare Task) so a failed transfer
// into the task queue can be requeued without losing its original
// deadline/seq.
func (q *ScheduledQueue) pollDueTask(now time.Time) (*scheduledTask, bool) {
	q.skipCancelled()
	if len(q.heap) == 0 {
		return nil, false
	}
	head := q.heap[0]
	if head.deadline.After(now) {
		return nil, false
	}
	heap.Pop(&q.heap)
	return head, true
}

// PollDue pops and returns the head task iff its deadline is <= now.
func (q *ScheduledQueue) PollDue(now time.Time) (Task, bool) {
	t, ok := q.pollDueTask(now)
	if !ok {
		return nil, false
	}
	return t.task, true
}

// NextDelay returns how long until the head task is due (0 if already
// due); ok is false if the queue holds no live (non-cancelled) entries.
func (q *ScheduledQueue) NextDelay(now time.Time) (d time.Duration, ok bool) {
	head, found := q.Peek()
	if !found {
		return 0, false
	}
	delay := head.deadline.Sub(now)
	if delay < 0 {
		delay = 0
	}
	return delay, true
}

// CancelAll marks every remaining task cancelled and empties the heap.
// Called once, on entry to graceful shutdown (spec.md §4.7 step 1).
func (q *ScheduledQueue) CancelAll() {
	for _, t := range q.heap {
		t.cancelled.Store(true)
	}
	q.heap = q.heap[:0]
}

// Len reports the number of entries in the heap after discarding cancelled
// entries at its head; cancelled entries further down are still counted
// until they reach the head.
func (q *ScheduledQueue) Len() int {
	q.skipCancelled()
	return len(q.heap)
}
