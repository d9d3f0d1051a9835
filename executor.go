// executor.go - the single-goroutine event-executor core, grounded on
// spec.md §4: submission path, worker bootstrap, run-loop helpers, and the
// two-phase graceful shutdown protocol. The orchestration here is the
// generalized, Go-idiomatic rendition of Netty's SingleThreadEventExecutor
// and its default subclass DefaultEventExecutor, built on top of the
// leaf components in state.go, taskqueue.go and scheduledqueue.go.

package serialexec

import (
	"context"
	"sync/atomic"
	"time"
)

// runLoopHooks is the subclass contract spec.md §6 describes: the
// behaviour a concrete worker main loop plugs into the core. [Loop] is
// this package's ready-to-use implementation; embedders building a custom
// main loop on [Executor] directly supply their own.
type runLoopHooks interface {
	// run is the worker's main loop. It must drive ConfirmShutdown to
	// completion before returning (spec.md §6); a run that returns before
	// any ConfirmShutdown call has recorded the graceful-shutdown start
	// time is logged as buggy.
	run(ex *Executor)
	// cleanup runs exactly once, after the worker has confirmed shutdown.
	cleanup()
	// afterRunningAllTasks runs after every RunAllTasks drain pass.
	afterRunningAllTasks()
	// wakesUpForTask filters which tasks justify posting the wakeup
	// sentinel when addTaskWakesUp is false.
	wakesUpForTask(t Task) bool
}

// ThreadProperties is a point-in-time snapshot of the worker goroutine,
// captured once via [Executor.ThreadProperties] (spec.md §4.9).
type ThreadProperties struct {
	GoroutineID uint64
	State       State
	Interrupted bool
	Alive       bool
}

// Executor is the single-goroutine task executor core: spec.md §2 item 6,
// the "SingleThreadEventExecutor". It owns exactly one worker goroutine,
// started lazily on first submission, and exposes the run-loop helpers a
// [runLoopHooks] implementation composes into a main loop.
type Executor struct {
	opts *executorOptions

	state          *lifecycleState
	taskQueue      *TaskQueue
	scheduledQueue *ScheduledQueue

	hooks runLoopHooks

	workerID           atomic.Uint64
	interruptedPending atomic.Bool
	interrupted        atomic.Bool

	terminationFuture *Future

	// anchor is a single time.Now() reading, captured once at construction,
	// retained for its monotonic clock reading. lastExecutionTimeNanos and
	// gracefulShutdownStartTimeNanos store nanosecond offsets from anchor
	// rather than absolute wall-clock times, so reconstructing them via
	// anchor.Add(offset) keeps the monotonic reading alive for Sub()
	// comparisons even across an NTP step or manual clock change.
	anchor time.Time

	lastExecutionTimeNanos atomic.Int64

	gracefulShutdownQuietPeriodNanos atomic.Int64
	gracefulShutdownTimeoutNanos     atomic.Int64
	gracefulShutdownStartTimeNanos   atomic.Int64

	shutdownHooks []Task // worker-only, mutated only on the worker goroutine

	threadProps atomic.Pointer[ThreadProperties]

	metrics *Metrics
}

// newExecutor builds the core with hooks bound to a concrete run loop
// (e.g. [Loop]). Not exported: callers go through NewLoop or an
// equivalent embedding constructor, since the core alone cannot run
// without a run() implementation.
func newExecutor(hooks runLoopHooks, opts ...Option) (*Executor, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	queueFactory := cfg.taskQueueFactory
	if queueFactory == nil {
		queueFactory = NewTaskQueue
	}
	ex := &Executor{
		opts:              cfg,
		state:             newLifecycleState(),
		taskQueue:         queueFactory(cfg.maxPendingTasks),
		scheduledQueue:    NewScheduledQueue(),
		hooks:             hooks,
		terminationFuture: NewFuture(),
		anchor:            time.Now(),
	}
	if cfg.metricsEnabled {
		ex.metrics = newMetrics()
	}
	return ex, nil
}

func (ex *Executor) logger() *Logger {
	if ex.opts.logger != nil {
		return ex.opts.logger
	}
	return packageLogger()
}

// State returns the executor's current lifecycle state.
func (ex *Executor) State() State { return ex.state.Load() }

// IsShuttingDown reports whether shutdown has been requested.
func (ex *Executor) IsShuttingDown() bool { return ex.state.atLeast(ShuttingDown) }

// IsShutdown reports whether the executor has reached or passed Shutdown.
func (ex *Executor) IsShutdown() bool { return ex.state.atLeast(Shutdown) }

// IsTerminated reports whether the worker has exited and cleanup has run.
func (ex *Executor) IsTerminated() bool { return ex.state.Load() == Terminated }

// PendingTasks returns the number of entries currently queued. Any wakeup
// sentinel still in the queue is included in the count.
func (ex *Executor) PendingTasks() int { return ex.taskQueue.Size() }

// Metrics returns the executor's metrics collector, or nil if metrics
// were not enabled via [WithMetrics].
func (ex *Executor) Metrics() *Metrics { return ex.metrics }

// InEventLoop reports whether the worker goroutine has started and the
// calling goroutine (per the configured goroutine-id function) is it.
func (ex *Executor) InEventLoop() bool { return ex.isWorkerGoroutine(ex.opts.goroutineID()) }

func (ex *Executor) isWorkerGoroutine(gid uint64) bool {
	id := ex.workerID.Load()
	return id != 0 && id == gid
}

// TerminationFuture returns the future completed once after the worker
// exits and cleanup has run.
func (ex *Executor) TerminationFuture() *Future { return ex.terminationFuture }

// AwaitTermination blocks until the executor terminates or ctx is done.
// Returns an [IllegalStateError] wrapping ErrAwaitFromWorker if called from
// the worker goroutine itself, which would deadlock.
func (ex *Executor) AwaitTermination(ctx context.Context) error {
	if ex.InEventLoop() {
		return &IllegalStateError{Cause: ErrAwaitFromWorker}
	}
	return ex.terminationFuture.Wait(ctx)
}

// Execute submits task for execution on the worker goroutine (spec.md
// §4.5). Fire-and-forget: task runs exactly once, with no return value
// observable through this call.
func (ex *Executor) Execute(task Task) error {
	if task == nil {
		return ErrNilTask
	}
	gid := ex.opts.goroutineID()
	inLoop := ex.isWorkerGoroutine(gid)

	handle, err := ex.addTask(task)
	if err != nil {
		return err
	}
	if handle == nil {
		// Absorbed by a non-erroring rejection handler (e.g.
		// CallerRunsPolicy ran it synchronously); nothing left to do.
		return nil
	}

	if !inLoop {
		if serr := ex.startThread(); serr != nil {
			return serr
		}
		if ex.IsShutdown() && ex.taskQueue.removeHandle(handle) {
			return &RejectedExecutionError{Task: task, Cause: ErrShuttingDown}
		}
	}

	if !ex.opts.addTaskWakesUp && ex.hooks.wakesUpForTask(task) {
		ex.wakeup(inLoop)
	}
	return nil
}

// addTask enqueues task, applying the rejection policy when the executor
// is at or past Shutdown, or the bounded queue is full (spec.md §4.5
// step 2). Returns a nil handle with a nil error when the rejection
// handler absorbed the task itself instead of erroring.
func (ex *Executor) addTask(task Task) (*taskHandle, error) {
	if ex.state.atLeast(Shutdown) {
		return nil, ex.opts.rejectedHandler.Rejected(task, ex)
	}
	h, ok := ex.taskQueue.offerTracked(task)
	if !ok {
		return nil, ex.opts.rejectedHandler.Rejected(task, ex)
	}
	return h, nil
}

// startThread performs the NotStarted -> Started CAS and, on success,
// spawns the worker goroutine. On spawn failure the state is reverted to
// NotStarted and a [BootstrapError] is returned (spec.md §4.3).
func (ex *Executor) startThread() error {
	if !ex.state.compareAndSwap(NotStarted, Started) {
		return nil
	}
	if err := ex.doStartThread(); err != nil {
		ex.state.compareAndSwap(Started, NotStarted)
		bootErr := &BootstrapError{Cause: err}
		logBootstrapFailure(ex.logger(), bootErr)
		return bootErr
	}
	return nil
}

// doStartThread launches the worker goroutine via the configured
// [Launcher] (spec.md §4.4).
func (ex *Executor) doStartThread() error {
	return ex.opts.launcher.Launch(func() {
		ex.workerID.Store(ex.opts.goroutineID())
		if ex.interruptedPending.Load() {
			ex.interrupted.Store(true)
		}
		ex.updateLastExecutionTime()
		ex.runLoopSafely()
		ex.onWorkerExit()
	})
}

// runLoopSafely invokes the subclass run() hook, logging (rather than
// propagating) a panic so the worker can still perform its exit path
// (spec.md §4.4 step 4: "If it throws, log and continue to shutdown").
func (ex *Executor) runLoopSafely() {
	defer func() {
		if r := recover(); r != nil {
			logRunLoopPanic(ex.logger(), r)
		}
	}()
	ex.hooks.run(ex)
}

// onWorkerExit performs the worker-exit path (spec.md §4.3/§4.4 step 5):
// raise state to at least ShuttingDown, drive ConfirmShutdown to
// completion, run cleanup exactly once, then terminate.
func (ex *Executor) onWorkerExit() {
	for {
		s := ex.state.Load()
		if s >= ShuttingDown {
			break
		}
		if ex.state.compareAndSwap(s, ShuttingDown) {
			break
		}
	}

	if ex.gracefulShutdownStartTimeNanos.Load() == 0 {
		// run() returned without ever driving ConfirmShutdown itself;
		// the outer loop below will still bring the executor down
		// cleanly, but this is the buggy-subclass case spec.md §4.4
		// step 5 calls out.
		logBuggyRunLoop(ex.logger())
	}

	for {
		done, err := ex.ConfirmShutdown()
		if err != nil {
			// Unreachable in practice: onWorkerExit always runs on the
			// worker goroutine.
			break
		}
		if done {
			break
		}
	}

	ex.hooks.cleanup()
	ex.state.store(Terminated)
	ex.terminationFuture.complete(nil)
}

// wakeup posts the wakeup sentinel to unblock a worker parked in TakeTask,
// unless the caller is already on the worker goroutine with a normal
// (non-shutting-down) state, in which case the worker will observe the
// new task on its own (spec.md §4.5).
func (ex *Executor) wakeup(inEventLoop bool) {
	if !inEventLoop || ex.state.Load() == ShuttingDown {
		// Best effort: a full queue means something else is already
		// pending, so the worker will wake up regardless.
		ex.taskQueue.offerWakeup()
	}
}

// updateLastExecutionTime records "now" as the last time a task ran.
// Worker-only (spec.md §5).
func (ex *Executor) updateLastExecutionTime() {
	ex.lastExecutionTimeNanos.Store(int64(time.Since(ex.anchor)))
}

func (ex *Executor) lastExecutionTime() time.Time {
	return ex.anchor.Add(time.Duration(ex.lastExecutionTimeNanos.Load()))
}

// PollTask returns the next real task without blocking, transparently
// skipping (and discarding) any wakeup sentinel entries (spec.md §4.6).
// Must be called from the worker goroutine.
func (ex *Executor) PollTask() (Task, bool) {
	for {
		task, ok := ex.taskQueue.Poll()
		if !ok {
			return nil, false
		}
		if task == nil {
			continue // wakeup sentinel, try again
		}
		return task, true
	}
}

// TakeTask blocks until a real task is available, a due scheduled task is
// fetched, or the worker is woken (spec.md §4.6). Returns (nil, false) to
// signal "re-enter the loop and check shutdown state" with no task run.
// Must be called from the worker goroutine.
func (ex *Executor) TakeTask() (Task, bool) {
	for {
		now := time.Now()
		delay, hasScheduled := ex.scheduledQueue.NextDelay(now)
		var task Task
		var ok bool
		if !hasScheduled {
			task, ok = ex.taskQueue.Take()
		} else if delay <= 0 {
			task, ok = ex.taskQueue.Poll()
		} else {
			task, ok = ex.taskQueue.PollTimeout(delay)
		}

		if ok && task != nil {
			return task, true
		}
		if ok && task == nil {
			// Wakeup sentinel: caller re-enters the loop.
			return nil, false
		}

		// Timed out, interrupted, or empty: give due scheduled tasks a
		// chance to migrate into the task queue, then try one more
		// non-blocking poll before reporting "no task" to the caller.
		ex.FetchFromScheduledQueue()
		if task, ok = ex.PollTask(); ok {
			return task, true
		}
		return nil, false
	}
}

// FetchFromScheduledQueue migrates every currently-due scheduled task
// into the task queue (spec.md §4.6). A scheduled task is never lost: if
// the task queue is full, the due task is pushed back onto the scheduled
// queue and false is returned; true means no further scheduled tasks were
// due as of the captured "now". Must be called from the worker goroutine.
func (ex *Executor) FetchFromScheduledQueue() bool {
	if ex.metrics != nil {
		defer func() {
			ex.metrics.Queue.UpdateTaskQueue(ex.taskQueue.Size())
			ex.metrics.Queue.UpdateScheduledQueue(ex.scheduledQueue.Len())
		}()
	}
	now := time.Now()
	for {
		t, ok := ex.scheduledQueue.pollDueTask(now)
		if !ok {
			return true
		}
		if t.cancelled.Load() {
			continue
		}
		if !ex.taskQueue.Offer(t.task) {
			ex.scheduledQueue.requeue(t)
			return false
		}
	}
}

// taskSampleStride is the fixed sampling period RunAllTasks(budget) uses
// to check the elapsed-time budget, rather than checking after every task
// (spec.md §4.6: "a fixed constant, not exposed").
const taskSampleStride = 64

// quietPeriodPollInterval is the fixed sleep ConfirmShutdown uses while
// waiting out the quiet period (spec.md §4.7 step 6).
const quietPeriodPollInterval = 100 * time.Millisecond

// RunAllTasks drains the task queue cooperatively, migrating due
// scheduled tasks into it before each pass, until the queue and the due
// scheduled tasks are both exhausted (spec.md §4.6). Must be called from
// the worker goroutine.
func (ex *Executor) RunAllTasks() bool {
	ranAny := false
	for {
		fetchedAll := ex.FetchFromScheduledQueue()
		if ex.runAllTasksFrom() {
			ranAny = true
		}
		if fetchedAll {
			break
		}
	}
	if ranAny {
		ex.updateLastExecutionTime()
	}
	ex.hooks.afterRunningAllTasks()
	return ranAny
}

// runAllTasksFrom drains whatever is currently in the task queue (not
// reaching back into the scheduled queue), returning whether any task ran.
func (ex *Executor) runAllTasksFrom() bool {
	ranAny := false
	for {
		task, ok := ex.PollTask()
		if !ok {
			return ranAny
		}
		ex.safeExecute(task)
		ranAny = true
	}
}

// RunAllTasksBudget is RunAllTasks with a time budget: due scheduled
// tasks are fetched once, then task-queue tasks run until the queue is
// empty or, checked every [taskSampleStride] tasks, the elapsed time
// since entry exceeds budget (spec.md §4.6). Must be called from the
// worker goroutine.
func (ex *Executor) RunAllTasksBudget(budget time.Duration) bool {
	ex.FetchFromScheduledQueue()

	start := time.Now()
	ranAny := false
	count := 0
	for {
		task, ok := ex.PollTask()
		if !ok {
			break
		}
		ex.safeExecute(task)
		ranAny = true
		count++
		if count%taskSampleStride == 0 && time.Since(start) >= budget {
			break
		}
	}
	if ranAny {
		ex.updateLastExecutionTime()
	}
	ex.hooks.afterRunningAllTasks()
	return ranAny
}

// safeExecute runs task under a catch-all so a panicking task can never
// escape into (and kill) the worker goroutine (spec.md §4.6, §7).
func (ex *Executor) safeExecute(task Task) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logTaskPanic(ex.logger(), r)
		}
		if ex.metrics != nil {
			ex.metrics.recordTask(time.Since(start))
		}
	}()
	task()
}

// AddScheduled inserts task to run no earlier than deadline, transferred
// into the task queue by the worker once due (spec.md §4.6/§4.10). The
// scheduled queue is worker-only state (spec.md §5), so a call from any
// other goroutine constructs the handle immediately (so it can be
// cancelled right away) but defers the actual heap insertion to a task
// run on the worker, starting it if necessary exactly like Execute does.
func (ex *Executor) AddScheduled(deadline time.Time, task Task) (ScheduledHandle, error) {
	if task == nil {
		return ScheduledHandle{}, ErrNilTask
	}
	if ex.InEventLoop() {
		return ex.scheduledQueue.AddBack(deadline, task), nil
	}
	t := &scheduledTask{deadline: deadline, task: task}
	if err := ex.Execute(func() {
		if !t.cancelled.Load() {
			ex.scheduledQueue.insertExisting(t)
		}
	}); err != nil {
		return ScheduledHandle{}, err
	}
	return ScheduledHandle{task: t}, nil
}

// ConfirmShutdown is the graceful-shutdown step function (spec.md §4.7).
// It must only be called from the worker goroutine, after shutdown has
// been requested; it returns true once the executor may safely
// terminate. A run() implementation calls this in a loop until it
// returns true.
func (ex *Executor) ConfirmShutdown() (bool, error) {
	if !ex.InEventLoop() {
		return false, &IllegalStateError{Message: "confirmShutdown called off the worker goroutine", Cause: ErrConfirmShutdownOffWorker}
	}
	if !ex.state.atLeast(ShuttingDown) {
		return false, nil
	}

	ex.scheduledQueue.CancelAll()

	if ex.gracefulShutdownStartTimeNanos.Load() == 0 {
		ex.gracefulShutdownStartTimeNanos.Store(int64(time.Since(ex.anchor)))
	}

	ranTasks := ex.RunAllTasks()
	ranHooks := ex.runShutdownHooks()
	if ranTasks || ranHooks {
		if ex.state.atLeast(Shutdown) {
			return true, nil
		}
		if ex.gracefulShutdownQuietPeriodNanos.Load() == 0 {
			return true, nil
		}
		ex.wakeup(true)
		return false, nil
	}

	now := time.Now()
	startTime := ex.anchor.Add(time.Duration(ex.gracefulShutdownStartTimeNanos.Load()))
	timeout := time.Duration(ex.gracefulShutdownTimeoutNanos.Load())
	if ex.state.atLeast(Shutdown) || now.Sub(startTime) > timeout {
		return true, nil
	}

	quietPeriod := time.Duration(ex.gracefulShutdownQuietPeriodNanos.Load())
	if now.Sub(ex.lastExecutionTime()) <= quietPeriod {
		ex.wakeup(true)
		time.Sleep(quietPeriodPollInterval)
		return false, nil
	}

	return true, nil
}

// runShutdownHooks executes every registered shutdown hook under a
// catch-all, looping while hooks add more hooks during their own
// execution (spec.md §4.8): it snapshots the live set, clears it, runs
// the snapshot, and repeats until a pass starts with nothing queued.
func (ex *Executor) runShutdownHooks() bool {
	ranAny := false
	for len(ex.shutdownHooks) > 0 {
		hooks := ex.shutdownHooks
		ex.shutdownHooks = nil
		for _, h := range hooks {
			ex.safeExecuteHook(h)
			ranAny = true
		}
	}
	return ranAny
}

func (ex *Executor) safeExecuteHook(h Task) {
	defer func() {
		if r := recover(); r != nil {
			logShutdownHookPanic(ex.logger(), r)
		}
	}()
	h()
}

// AddShutdownHook registers h to run during ConfirmShutdown, once the
// task queue has drained. If called off the worker goroutine, the
// mutation itself is scheduled as a task (spec.md §4.8).
func (ex *Executor) AddShutdownHook(h Task) error {
	if ex.InEventLoop() {
		ex.shutdownHooks = append(ex.shutdownHooks, h)
		return nil
	}
	return ex.Execute(func() {
		ex.shutdownHooks = append(ex.shutdownHooks, h)
	})
}

// RemoveShutdownHook removes the first registered hook for which match
// returns true. Go funcs are not comparable, so removal takes a predicate
// rather than the hook value itself. If called off the worker goroutine,
// the mutation itself is scheduled as a task (spec.md §4.8).
func (ex *Executor) RemoveShutdownHook(match func(Task) bool) error {
	if ex.InEventLoop() {
		ex.removeShutdownHookLocal(match)
		return nil
	}
	return ex.Execute(func() {
		ex.removeShutdownHookLocal(match)
	})
}

func (ex *Executor) removeShutdownHookLocal(match func(Task) bool) {
	for i, h := range ex.shutdownHooks {
		if match(h) {
			ex.shutdownHooks = append(ex.shutdownHooks[:i], ex.shutdownHooks[i+1:]...)
			return
		}
	}
}

// Shutdown is the abrupt, deprecated shutdown path (spec.md §4.3,
// §6): it does not honour a quiet period and transitions directly to
// Shutdown.
func (ex *Executor) Shutdown() {
	inLoop := ex.InEventLoop()
	var wakeup bool
	for {
		oldState := ex.state.Load()
		var newState State
		if inLoop {
			newState = Shutdown
			wakeup = true
		} else {
			switch {
			case oldState == NotStarted, oldState == Started, oldState == ShuttingDown:
				newState = Shutdown
				wakeup = true
			default:
				newState = oldState
				wakeup = false
			}
		}
		if newState == oldState {
			break
		}
		if ex.state.compareAndSwap(oldState, newState) {
			if oldState == NotStarted {
				// The state was just CASed past NotStarted, so startThread's
				// own NotStarted->Started CAS would now fail; the worker
				// must be launched directly so it can observe Shutdown and
				// run cleanup (spec.md §4.3).
				if err := ex.doStartThread(); err != nil {
					bootErr := &BootstrapError{Cause: err}
					ex.state.store(Terminated)
					ex.terminationFuture.complete(bootErr)
					return
				}
			}
			break
		}
	}
	if wakeup {
		ex.wakeup(inLoop)
	}
}

// ShutdownGracefully starts the two-phase graceful shutdown protocol
// (spec.md §4.3): the worker keeps draining tasks submitted during the
// quiet period, declaring termination once a full quiet period elapses
// with no new task execution, or the overall timeout elapses.
func (ex *Executor) ShutdownGracefully(quietPeriod, timeout time.Duration) (*Future, error) {
	if quietPeriod < 0 {
		return nil, ErrInvalidQuietPeriod
	}
	if timeout < quietPeriod {
		return nil, ErrInvalidTimeout
	}

	inLoop := ex.InEventLoop()
	var wakeup bool
	for {
		oldState := ex.state.Load()
		var newState State
		if inLoop {
			newState = ShuttingDown
			wakeup = true
		} else {
			switch {
			case oldState == NotStarted, oldState == Started, oldState == ShuttingDown:
				newState = ShuttingDown
				wakeup = true
			default:
				newState = oldState
				wakeup = false
			}
		}
		if newState == oldState {
			break
		}
		if ex.state.compareAndSwap(oldState, newState) {
			ex.gracefulShutdownQuietPeriodNanos.Store(int64(quietPeriod))
			ex.gracefulShutdownTimeoutNanos.Store(int64(timeout))
			if oldState == NotStarted {
				// See the matching comment in Shutdown: the state was just
				// CASed past NotStarted, so the worker must be launched
				// directly rather than through startThread's own CAS.
				if err := ex.doStartThread(); err != nil {
					bootErr := &BootstrapError{Cause: err}
					ex.state.store(Terminated)
					ex.terminationFuture.complete(bootErr)
					return ex.terminationFuture, bootErr
				}
			}
			break
		}
	}
	if wakeup {
		ex.wakeup(inLoop)
	}
	return ex.terminationFuture, nil
}

// InterruptThread interrupts the worker goroutine. If the worker has not
// started yet, the interrupt is recorded and applied at bootstrap
// (spec.md §4.9, §8 scenario 6).
func (ex *Executor) InterruptThread() {
	if ex.workerID.Load() == 0 {
		ex.interruptedPending.Store(true)
		return
	}
	ex.interrupted.Store(true)
	ex.taskQueue.Interrupt()
}

// Interrupted reports whether the worker goroutine has been interrupted
// (sticky once set; this package never clears it automatically).
func (ex *Executor) Interrupted() bool { return ex.interrupted.Load() }

// ThreadProperties captures (once) and returns a snapshot of the worker
// goroutine's properties. If the worker has not started, this blocks
// until a no-op task submitted for the purpose has run (spec.md §4.9).
func (ex *Executor) ThreadProperties() (*ThreadProperties, error) {
	if ex.workerID.Load() == 0 {
		done := make(chan struct{})
		if err := ex.Execute(func() { close(done) }); err != nil {
			return nil, err
		}
		<-done
	}
	snap := &ThreadProperties{
		GoroutineID: ex.workerID.Load(),
		State:       ex.State(),
		Interrupted: ex.Interrupted(),
		Alive:       !ex.IsTerminated(),
	}
	ex.threadProps.CompareAndSwap(nil, snap)
	return ex.threadProps.Load(), nil
}
