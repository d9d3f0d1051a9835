// Package serialexec provides a single-goroutine, serial task executor: a
// bounded MPSC task queue, a time-ordered scheduled queue, a five-state
// lifecycle machine, and a two-phase graceful shutdown protocol, plus a
// round-robin chooser for distributing work across a fixed group of such
// executors.
//
// # Architecture
//
// An [Executor] owns exactly one worker goroutine, started lazily on the
// first submission. Producers call [Executor.Execute] from any goroutine;
// the worker alone drains the task queue and the scheduled queue via
// cooperative helpers ([Executor.RunAllTasks], [Executor.TakeTask],
// [Executor.FetchFromScheduledQueue]). [Loop] is a ready-to-use default
// implementation of the worker's main loop, built on top of the core;
// embedders needing a custom run loop can build on [Executor] directly.
//
// # Thread Safety
//
// [Executor.Execute] is safe to call from any goroutine. The task queue
// and the scheduled queue have a single consumer: the worker goroutine.
// Lifecycle state transitions are lock-free CAS loops over a single
// atomic integer.
//
// # Shutdown
//
// [Executor.Shutdown] is an abrupt, deprecated shutdown.
// [Executor.ShutdownGracefully] starts the quiet-period protocol: the
// worker keeps draining tasks submitted during the quiet period, and only
// declares termination once a full quiet period has elapsed with no new
// task execution, or the overall timeout has elapsed.
//
// # Usage
//
//	loop, err := serialexec.NewLoop()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	loop.Execute(func() {
//	    fmt.Println("hello from the worker")
//	})
//
//	done, err := loop.ShutdownGracefully(100*time.Millisecond, 2*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = done.Wait(context.Background())
package serialexec
