package serialexec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOptions_Defaults(t *testing.T) {
	cfg, err := resolveOptions(nil)
	require.NoError(t, err)

	assert.IsType(t, goroutineLauncher{}, cfg.launcher)
	assert.True(t, cfg.addTaskWakesUp)
	assert.IsType(t, AbortPolicy{}, cfg.rejectedHandler)
	assert.NotNil(t, cfg.logger)
	assert.NotNil(t, cfg.goroutineID)
	assert.GreaterOrEqual(t, cfg.maxPendingTasks, minMaxPendingTasks)
}

func TestClampMaxPendingTasks_FloorsAtSixteen(t *testing.T) {
	assert.Equal(t, minMaxPendingTasks, clampMaxPendingTasks(0))
	assert.Equal(t, minMaxPendingTasks, clampMaxPendingTasks(1))
	assert.Equal(t, minMaxPendingTasks, clampMaxPendingTasks(-5))
	assert.Equal(t, 32, clampMaxPendingTasks(32))
}

func TestWithMaxPendingTasks_ClampsThroughOption(t *testing.T) {
	cfg, err := resolveOptions([]Option{WithMaxPendingTasks(1)})
	require.NoError(t, err)
	assert.Equal(t, minMaxPendingTasks, cfg.maxPendingTasks)

	cfg, err = resolveOptions([]Option{WithMaxPendingTasks(1000)})
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.maxPendingTasks)
}

func TestDefaultMaxPendingTasks_EnvVarOverridesDefault(t *testing.T) {
	t.Setenv(maxPendingTasksEnvVar, "64")
	assert.Equal(t, 64, defaultMaxPendingTasks())
}

func TestDefaultMaxPendingTasks_EnvVarBelowFloorIsClamped(t *testing.T) {
	t.Setenv(maxPendingTasksEnvVar, "1")
	assert.Equal(t, minMaxPendingTasks, defaultMaxPendingTasks())
}

func TestDefaultMaxPendingTasks_InvalidEnvVarFallsBackToMax(t *testing.T) {
	t.Setenv(maxPendingTasksEnvVar, "not-a-number")
	assert.Equal(t, math.MaxUint32, defaultMaxPendingTasks())
}

func TestDefaultMaxPendingTasks_UnsetFallsBackToMax(t *testing.T) {
	t.Setenv(maxPendingTasksEnvVar, "")
	assert.Equal(t, math.MaxUint32, defaultMaxPendingTasks())
}

func TestWithAddTaskWakesUp_SetsField(t *testing.T) {
	cfg, err := resolveOptions([]Option{WithAddTaskWakesUp(false)})
	require.NoError(t, err)
	assert.False(t, cfg.addTaskWakesUp)
}

func TestWithRejectedExecutionHandler_Overrides(t *testing.T) {
	h := &CountingRejectedExecutionHandler{}
	cfg, err := resolveOptions([]Option{WithRejectedExecutionHandler(h)})
	require.NoError(t, err)
	assert.Same(t, h, cfg.rejectedHandler)
}

func TestWithLogger_Overrides(t *testing.T) {
	l := NopLogger()
	cfg, err := resolveOptions([]Option{WithLogger(l)})
	require.NoError(t, err)
	assert.Same(t, l, cfg.logger)
}

func TestWithGoroutineIDFunc_Overrides(t *testing.T) {
	called := false
	cfg, err := resolveOptions([]Option{WithGoroutineIDFunc(func() uint64 {
		called = true
		return 42
	})})
	require.NoError(t, err)
	require.Equal(t, uint64(42), cfg.goroutineID())
	assert.True(t, called)
}

func TestWithTaskQueueFactory_Overrides(t *testing.T) {
	var capacitySeen int
	factory := func(n int) *TaskQueue {
		capacitySeen = n
		return NewTaskQueue(n)
	}
	cfg, err := resolveOptions([]Option{WithTaskQueueFactory(factory), WithMaxPendingTasks(128)})
	require.NoError(t, err)
	require.NotNil(t, cfg.taskQueueFactory)
	q := cfg.taskQueueFactory(cfg.maxPendingTasks)
	assert.Equal(t, 128, capacitySeen)
	assert.NotNil(t, q)
}

func TestResolveOptions_NilOptionIsSkipped(t *testing.T) {
	cfg, err := resolveOptions([]Option{nil, WithAddTaskWakesUp(false), nil})
	require.NoError(t, err)
	assert.False(t, cfg.addTaskWakesUp)
}

func TestWithMetrics_Enables(t *testing.T) {
	cfg, err := resolveOptions([]Option{WithMetrics(true)})
	require.NoError(t, err)
	assert.True(t, cfg.metricsEnabled)
}
