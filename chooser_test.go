package serialexec

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoundRobinChooser_PicksPowerOfTwoVariant(t *testing.T) {
	executors := newTestExecutors(4)
	c := NewRoundRobinChooser(executors)
	_, ok := c.(*powerOfTwoChooser)
	assert.True(t, ok, "len==4 is a power of two, so the bitmask chooser must be used")
}

func TestNewRoundRobinChooser_PicksGenericVariant(t *testing.T) {
	executors := newTestExecutors(3)
	c := NewRoundRobinChooser(executors)
	_, ok := c.(*genericChooser)
	assert.True(t, ok, "len==3 is not a power of two, so the modulo chooser must be used")
}

func TestRoundRobinChooser_CyclesInOrder(t *testing.T) {
	executors := newTestExecutors(4)
	c := NewRoundRobinChooser(executors)

	var picked []*Executor
	for i := 0; i < 8; i++ {
		picked = append(picked, c.Next())
	}
	for i, ex := range picked {
		require.Same(t, executors[i%4], ex)
	}
}

func TestGenericChooser_CyclesInOrder(t *testing.T) {
	executors := newTestExecutors(3)
	c := NewRoundRobinChooser(executors)

	var picked []*Executor
	for i := 0; i < 9; i++ {
		picked = append(picked, c.Next())
	}
	for i, ex := range picked {
		require.Same(t, executors[i%3], ex)
	}
}

func TestChooser_SingleExecutorAlwaysReturnsIt(t *testing.T) {
	executors := newTestExecutors(1)
	c := NewRoundRobinChooser(executors)
	for i := 0; i < 5; i++ {
		require.Same(t, executors[0], c.Next())
	}
}

func TestChooserFactoryType_MatchesSignature(t *testing.T) {
	var f ChooserFactory = NewRoundRobinChooser
	assert.Equal(t, reflect.Func, reflect.TypeOf(f).Kind())
}
