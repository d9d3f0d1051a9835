// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package serialexec

import (
	"math"
	"os"
	"strconv"
)

// minMaxPendingTasks is the floor spec.md mandates: maxPendingTasks is at
// least 16 regardless of the requested value.
const minMaxPendingTasks = 16

// maxPendingTasksEnvVar mirrors Netty's io.netty.eventexecutor.maxPendingTasks
// system property: an environment-supplied default queue capacity cap.
const maxPendingTasksEnvVar = "SERIALEXEC_MAX_PENDING_TASKS"

func defaultMaxPendingTasks() int {
	if v := os.Getenv(maxPendingTasksEnvVar); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			return clampMaxPendingTasks(int(n))
		}
	}
	return math.MaxUint32
}

func clampMaxPendingTasks(n int) int {
	if n < minMaxPendingTasks {
		return minMaxPendingTasks
	}
	return n
}

// executorOptions holds configuration resolved at Executor construction.
type executorOptions struct {
	launcher          Launcher
	addTaskWakesUp    bool
	maxPendingTasks   int
	rejectedHandler   RejectedExecutionHandler
	logger            *Logger
	metricsEnabled    bool
	goroutineID       func() uint64 // test-only hook, see WithGoroutineIDFunc
	taskQueueFactory  func(maxPendingTasks int) *TaskQueue
}

// Option configures an [Executor] or [Loop] at construction.
type Option interface {
	apply(*executorOptions) error
}

// optionFunc implements Option.
type optionFunc func(*executorOptions) error

func (f optionFunc) apply(opts *executorOptions) error { return f(opts) }

// WithLauncher overrides the goroutine launcher used to start the worker.
// The default launches a bare goroutine; tests inject one that records
// whether a worker was started (spec.md §8 scenario 1).
func WithLauncher(l Launcher) Option {
	return optionFunc(func(opts *executorOptions) error {
		opts.launcher = l
		return nil
	})
}

// WithAddTaskWakesUp sets whether offering a task to the queue is itself
// sufficient to unblock a parked worker (true), or whether the executor
// must additionally post the wakeup sentinel (false). See spec.md §4.5/§9.
func WithAddTaskWakesUp(enabled bool) Option {
	return optionFunc(func(opts *executorOptions) error {
		opts.addTaskWakesUp = enabled
		return nil
	})
}

// WithMaxPendingTasks sets the task queue capacity. Clamped to >= 16.
func WithMaxPendingTasks(n int) Option {
	return optionFunc(func(opts *executorOptions) error {
		opts.maxPendingTasks = clampMaxPendingTasks(n)
		return nil
	})
}

// WithRejectedExecutionHandler overrides the policy invoked when a task
// cannot be enqueued (shut down, or the queue is full).
func WithRejectedExecutionHandler(h RejectedExecutionHandler) Option {
	return optionFunc(func(opts *executorOptions) error {
		opts.rejectedHandler = h
		return nil
	})
}

// WithLogger attaches a structured logger. See logging.go.
func WithLogger(l *Logger) Option {
	return optionFunc(func(opts *executorOptions) error {
		opts.logger = l
		return nil
	})
}

// WithTaskQueueFactory overrides how the bounded task queue backing the
// executor is constructed, e.g. to inject an instrumented or
// differently-tuned queue. Defaults to [NewTaskQueue].
func WithTaskQueueFactory(f func(maxPendingTasks int) *TaskQueue) Option {
	return optionFunc(func(opts *executorOptions) error {
		opts.taskQueueFactory = f
		return nil
	})
}

// WithMetrics enables latency/throughput metrics collection. See metrics.go.
func WithMetrics(enabled bool) Option {
	return optionFunc(func(opts *executorOptions) error {
		opts.metricsEnabled = enabled
		return nil
	})
}

// WithGoroutineIDFunc overrides how the executor identifies "the current
// goroutine", for deterministic inEventLoop tests. Production code should
// never need this; the default uses the runtime.Stack-derived goroutine id
// (see goroutineid.go).
func WithGoroutineIDFunc(f func() uint64) Option {
	return optionFunc(func(opts *executorOptions) error {
		opts.goroutineID = f
		return nil
	})
}

// resolveOptions applies Option instances over the defaults.
func resolveOptions(opts []Option) (*executorOptions, error) {
	cfg := &executorOptions{
		launcher:        goroutineLauncher{},
		addTaskWakesUp:  true,
		maxPendingTasks: defaultMaxPendingTasks(),
		rejectedHandler: AbortPolicy{},
		logger:          packageLogger(),
		goroutineID:     currentGoroutineID,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}
	cfg.maxPendingTasks = clampMaxPendingTasks(cfg.maxPendingTasks)
	return cfg, nil
}
