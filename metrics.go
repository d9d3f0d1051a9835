package serialexec

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks optional runtime statistics for an [Executor], enabled via
// [WithMetrics]. Grounded on the teacher's metrics.go, adapted from a
// three-queue ingress/internal/microtask model (JS event-loop shape) down
// to this package's two collaborators: the task queue and the scheduled
// queue.
//
// Thread Safety: every method is safe to call from any goroutine.
// [Executor.Metrics] returns this live collector, not a copy.
type Metrics struct {
	Latency LatencyMetrics
	Queue   QueueMetrics

	tps *TPSCounter
}

// newMetrics builds a Metrics instance with a 10s/100ms rolling TPS window,
// the teacher's recommended production defaults.
func newMetrics() *Metrics {
	return &Metrics{tps: NewTPSCounter(10*time.Second, 100*time.Millisecond)}
}

// recordTask is called once per completed task, from safeExecute.
func (m *Metrics) recordTask(d time.Duration) {
	m.Latency.Record(d)
	m.tps.Increment()
}

// TPS returns the current throughput, in completed tasks per second.
func (m *Metrics) TPS() float64 {
	return m.tps.TPS()
}

// LatencyMetrics tracks task-execution latency distribution with
// percentiles, using the P-Square algorithm for O(1) streaming estimation.
type LatencyMetrics struct {
	psquare *pSquareMultiQuantile

	mu sync.RWMutex

	sampleIdx   int
	sampleCount int
	samples     [sampleSize]time.Duration

	P50 time.Duration
	P90 time.Duration
	P95 time.Duration
	P99 time.Duration
	Max time.Duration

	Mean time.Duration
	Sum  time.Duration
}

// sampleSize bounds the exact-percentile fallback buffer used while fewer
// than 5 samples have been observed (P-Square needs 5 to initialize).
const sampleSize = 1000

// Record records a single task's execution latency. O(1).
func (l *LatencyMetrics) Record(duration time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.psquare == nil {
		l.psquare = newPSquareMultiQuantile(0.50, 0.90, 0.95, 0.99)
	}
	l.psquare.Update(float64(duration))

	if l.sampleCount >= sampleSize {
		l.Sum -= l.samples[l.sampleIdx]
	}
	l.samples[l.sampleIdx] = duration
	l.Sum += duration
	l.sampleIdx++
	if l.sampleIdx >= sampleSize {
		l.sampleIdx = 0
	}
	if l.sampleCount < sampleSize {
		l.sampleCount++
	}
}

// Sample recomputes the cached percentile fields and returns the sample
// count they were computed from.
func (l *LatencyMetrics) Sample() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := l.sampleCount
	if count == 0 {
		return 0
	}

	if count < 5 || l.psquare == nil {
		sorted := make([]time.Duration, count)
		copy(sorted, l.samples[:count])
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		l.P50 = sorted[percentileIndex(count, 50)]
		l.P90 = sorted[percentileIndex(count, 90)]
		l.P95 = sorted[percentileIndex(count, 95)]
		l.P99 = sorted[percentileIndex(count, 99)]
		l.Max = sorted[count-1]
		l.Mean = l.Sum / time.Duration(count)
		return count
	}

	l.P50 = time.Duration(l.psquare.Quantile(0))
	l.P90 = time.Duration(l.psquare.Quantile(1))
	l.P95 = time.Duration(l.psquare.Quantile(2))
	l.P99 = time.Duration(l.psquare.Quantile(3))
	l.Max = time.Duration(l.psquare.Max())
	l.Mean = l.Sum / time.Duration(count)
	return count
}

func percentileIndex(n, p int) int {
	index := (p * n) / 100
	if index >= n {
		return n - 1
	}
	return index
}

// QueueMetrics tracks depth statistics for the task queue and scheduled
// queue: current depth, high-water mark, and an exponential moving average
// (alpha=0.1, warm-started to the first observation).
type QueueMetrics struct {
	mu sync.RWMutex

	TaskQueueCurrent int
	TaskQueueMax     int
	TaskQueueAvg     float64
	taskQueueEMAInit bool

	ScheduledCurrent int
	ScheduledMax     int
	ScheduledAvg     float64
	scheduledEMAInit bool
}

// UpdateTaskQueue records the task queue's current depth.
func (q *QueueMetrics) UpdateTaskQueue(depth int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.TaskQueueCurrent = depth
	if depth > q.TaskQueueMax {
		q.TaskQueueMax = depth
	}
	if !q.taskQueueEMAInit {
		q.TaskQueueAvg = float64(depth)
		q.taskQueueEMAInit = true
	} else {
		q.TaskQueueAvg = 0.9*q.TaskQueueAvg + 0.1*float64(depth)
	}
}

// UpdateScheduledQueue records the scheduled queue's current depth.
func (q *QueueMetrics) UpdateScheduledQueue(depth int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ScheduledCurrent = depth
	if depth > q.ScheduledMax {
		q.ScheduledMax = depth
	}
	if !q.scheduledEMAInit {
		q.ScheduledAvg = float64(depth)
		q.scheduledEMAInit = true
	} else {
		q.ScheduledAvg = 0.9*q.ScheduledAvg + 0.1*float64(depth)
	}
}

// TPSCounter tracks a rolling-window throughput rate using a ring buffer of
// fixed-width time buckets, grounded on the teacher's metrics.go verbatim
// (the algorithm is domain-agnostic: it counts Increment calls, regardless
// of what a "transaction" means to the caller).
//
// Thread Safety: every method is safe to call from any goroutine.
type TPSCounter struct {
	lastRotation atomic.Value // time.Time
	buckets      []int64
	bucketSize   time.Duration
	windowSize   time.Duration
	mu           sync.Mutex
}

// NewTPSCounter creates a rolling-window throughput counter. windowSize and
// bucketSize must both be positive, and bucketSize must not exceed
// windowSize.
func NewTPSCounter(windowSize, bucketSize time.Duration) *TPSCounter {
	if windowSize <= 0 {
		panic("serialexec: windowSize must be positive")
	}
	if bucketSize <= 0 {
		panic("serialexec: bucketSize must be positive")
	}
	if bucketSize > windowSize {
		panic("serialexec: bucketSize cannot exceed windowSize")
	}

	bucketCount := int(windowSize / bucketSize)
	counter := &TPSCounter{
		buckets:    make([]int64, bucketCount),
		bucketSize: bucketSize,
		windowSize: windowSize,
	}
	counter.lastRotation.Store(time.Now())
	return counter
}

// Increment records one completed unit of work. O(1).
func (t *TPSCounter) Increment() {
	t.rotate()
	t.mu.Lock()
	t.buckets[len(t.buckets)-1]++
	t.mu.Unlock()
}

func (t *TPSCounter) rotate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	lastRotation := t.lastRotation.Load().(time.Time)
	elapsed := now.Sub(lastRotation)

	bucketsToAdvanceInt64 := int64(elapsed) / int64(t.bucketSize)
	if bucketsToAdvanceInt64 < 0 {
		bucketsToAdvanceInt64 = int64(len(t.buckets))
	} else if bucketsToAdvanceInt64 > int64(len(t.buckets)) {
		bucketsToAdvanceInt64 = int64(len(t.buckets))
	}
	bucketsToAdvance := int(bucketsToAdvanceInt64)

	if bucketsToAdvance >= len(t.buckets) {
		for i := range t.buckets {
			t.buckets[i] = 0
		}
		t.lastRotation.Store(now)
		return
	}
	if bucketsToAdvance <= 0 {
		return
	}

	copy(t.buckets, t.buckets[bucketsToAdvance:])
	for i := len(t.buckets) - bucketsToAdvance; i < len(t.buckets); i++ {
		t.buckets[i] = 0
	}
	t.lastRotation.Store(lastRotation.Add(time.Duration(bucketsToAdvance) * t.bucketSize))
}

// TPS returns the current throughput estimate.
func (t *TPSCounter) TPS() float64 {
	t.rotate()

	t.mu.Lock()
	defer t.mu.Unlock()

	var sum int64
	for _, count := range t.buckets {
		sum += count
	}
	if sum == 0 {
		return 0
	}
	monitoredDuration := float64(len(t.buckets)) * t.bucketSize.Seconds()
	return float64(sum) / monitoredDuration
}
