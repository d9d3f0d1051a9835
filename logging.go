// logging.go - structured logging seam for the executor package.
//
// Mirrors the teacher's package-level logging seam (logging.go in the
// eventloop module): a package-level default plus a per-Logger override,
// so instances share logging semantics unless a caller opts out. Unlike
// the teacher, which speaks to an internal hand-rolled Logger interface,
// this package is built directly on github.com/joeycumines/logiface (the
// sibling module in the same author's pack) with zerolog as the default
// backend via github.com/joeycumines/izerolog, so log sites here use the
// same chained builder API the rest of the pack's modules do.

package serialexec

import (
	"os"
	"sync"

	"github.com/joeycumines/izerolog"
	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"
)

// Logger is the type-erased logiface logger used throughout this package.
// Callers may build one against any logiface-supported backend (zerolog,
// logrus, slog, ...); [NewDefaultLogger] supplies a ready zerolog-backed
// instance for when no explicit configuration is provided.
type Logger = logiface.Logger[logiface.Event]

var defaultLoggerOnce sync.Once
var defaultLogger *Logger

// NewDefaultLogger returns the package's out-of-the-box logger: JSON lines
// written through zerolog to stderr at informational level and above.
// Constructed lazily and cached, since most processes only ever need one.
func NewDefaultLogger() *Logger {
	defaultLoggerOnce.Do(func() {
		z := zerolog.New(os.Stderr).With().Timestamp().Logger()
		defaultLogger = logiface.New[*izerolog.Event](
			izerolog.WithZerolog(z),
			logiface.WithLevel[*izerolog.Event](logiface.LevelInformational),
		).Logger()
	})
	return defaultLogger
}

// NopLogger returns a logger with logging disabled, for tests that do not
// want executor internals writing to stderr.
func NopLogger() *Logger {
	return logiface.New[*izerolog.Event](
		logiface.WithLevel[*izerolog.Event](logiface.LevelDisabled),
	).Logger()
}

var globalLogger struct {
	sync.RWMutex
	logger *Logger
}

// SetLogger installs the package-level default logger, used by any
// [Executor] constructed after this call without an explicit [WithLogger]
// option.
func SetLogger(l *Logger) {
	globalLogger.Lock()
	defer globalLogger.Unlock()
	globalLogger.logger = l
}

func packageLogger() *Logger {
	globalLogger.RLock()
	l := globalLogger.logger
	globalLogger.RUnlock()
	if l != nil {
		return l
	}
	return NewDefaultLogger()
}

// logTaskPanic reports a task that panicked while running on the worker
// goroutine (spec.md §4.6: a panicking task must not kill the worker).
func logTaskPanic(l *Logger, recovered any) {
	l.Err().
		Interface("panic", recovered).
		Log("serialexec: task panicked; worker continuing")
}

// logShutdownHookPanic reports a shutdown hook that panicked.
func logShutdownHookPanic(l *Logger, recovered any) {
	l.Err().
		Interface("panic", recovered).
		Log("serialexec: shutdown hook panicked")
}

// logBootstrapFailure reports a failure to start the worker goroutine.
func logBootstrapFailure(l *Logger, err error) {
	l.Crit().
		Err(err).
		Log("serialexec: worker bootstrap failed")
}

// logBuggyRunLoop reports a run() implementation that returned before any
// ConfirmShutdown call recorded the graceful-shutdown start time. The
// worker-exit path still drives ConfirmShutdown to completion afterwards.
func logBuggyRunLoop(l *Logger) {
	l.Crit().Log(ErrBuggyRunLoop.Error())
}

// logRunLoopPanic reports a subclass run() hook that panicked, distinct
// from an individual task panicking (logTaskPanic): this is the main
// loop itself failing, not a task it dispatched.
func logRunLoopPanic(l *Logger, recovered any) {
	l.Err().
		Interface("panic", recovered).
		Log("serialexec: run loop panicked; proceeding to shutdown")
}
