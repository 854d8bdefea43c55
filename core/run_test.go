//go:build unit
// +build unit

package core

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTask struct {
	Label   string
	count   atomic.Int32
	cleaned atomic.Bool
	ran     chan struct{}

	DefaultTaskImpl
}

func newCountingTask() *countingTask {
	return &countingTask{ran: make(chan struct{}, 16)}
}

func (c *countingTask) SetParams(p interface{}) error {
	if p == nil {
		return nil
	}
	mp, ok := p.(map[string]interface{})
	if !ok {
		return errors.Errorf("unexpected params %v", p)
	}
	if label, ok := mp["label"].(string); ok {
		c.Label = label
	}
	return nil
}

func (c *countingTask) Task() {
	c.count.Add(1)
	select {
	case c.ran <- struct{}{}:
	default:
	}
}

func (c *countingTask) Cleanup() {
	c.cleaned.Store(true)
}

func TestNewRunContextFromString(t *testing.T) {
	task := newCountingTask()
	in := heredoc.Doc(`
		[run_group.periodic_tasks.counter]
		period = "1h"

		[run_group.periodic_tasks.counter.params]
		label = "nightly"
	`)
	rc, err := newRunContextFromString(in, PeriodicTaskImplMap{"counter": task})
	require.Nil(t, err)
	require.Contains(t, rc.PeriodicTasks, "counter")
	assert.Equal(t, time.Hour, rc.PeriodicTasks["counter"].Period)
	assert.Equal(t, "nightly", task.Label)
}

func TestNewRunContextFromStringErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{
			name: "unknown task",
			in: heredoc.Doc(`
				[run_group.periodic_tasks.unknown]
				period = "1m"
			`),
		},
		{
			name: "missing period",
			in: heredoc.Doc(`
				[run_group.periodic_tasks.counter]
			`),
		},
		{
			name: "broken toml",
			in:   "[run_group",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newRunContextFromString(tt.in, PeriodicTaskImplMap{"counter": newCountingTask()})
			assert.NotNil(t, err)
		})
	}
}

func TestAddPeriodicTaskRunsUntilInterrupted(t *testing.T) {
	task := newCountingTask()
	rc := NewRunContext()
	require.Nil(t, rc.AddPeriodicTask(&PeriodicTask{Period: 10 * time.Millisecond, PeriodicTaskImpl: task}, "counter"))

	stop := make(chan struct{})
	rc.Add(
		func() error {
			<-stop
			return nil
		},
		func(error) {},
	)

	done := make(chan error)
	go func() { done <- rc.Run() }()
	for i := 0; i < 3; i++ {
		<-task.ran
	}
	close(stop)
	err := <-done
	assert.Nil(t, err)
	assert.GreaterOrEqual(t, task.count.Load(), int32(3))
	assert.True(t, task.cleaned.Load())
}

func TestAddPeriodicTaskRejectsZeroPeriod(t *testing.T) {
	rc := NewRunContext()
	err := rc.AddPeriodicTask(&PeriodicTask{PeriodicTaskImpl: newCountingTask()}, "counter")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Empty(t, rc.PeriodicTasks)
}

func TestRunContextIsContext(t *testing.T) {
	rc := NewRunContext()
	var ctx context.Context = rc
	assert.Nil(t, ctx.Err())
}
