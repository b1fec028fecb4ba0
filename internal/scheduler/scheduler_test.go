package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := New(zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func TestRegisterTask_RejectsDuplicatesAndBadCron(t *testing.T) {
	s := newTestScheduler(t)
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.RegisterTask(TaskConfig{ID: "probe", Name: "Probe", Cron: "*/5 * * * *", Func: noop}))
	assert.Error(t, s.RegisterTask(TaskConfig{ID: "probe", Name: "Probe", Cron: "*/5 * * * *", Func: noop}))
	assert.Error(t, s.RegisterTask(TaskConfig{ID: "bad", Name: "Bad", Cron: "not a cron", Func: noop}))
	assert.Error(t, s.RegisterTask(TaskConfig{ID: "nofunc", Name: "No func", Cron: "*/5 * * * *"}))
}

func TestRunNow_RecordsOutcome(t *testing.T) {
	s := newTestScheduler(t)
	var runs atomic.Int32

	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:   "failing",
		Name: "Failing",
		Cron: "0 0 1 1 *",
		Func: func(context.Context) error {
			runs.Add(1)
			return errors.New("catalog unreachable")
		},
	}))
	s.Start()

	require.NoError(t, s.RunNow("failing"))
	require.Eventually(t, func() bool {
		info, err := s.GetTask("failing")
		return err == nil && info.LastRun != nil && !info.Running
	}, 2*time.Second, 10*time.Millisecond)

	info, err := s.GetTask("failing")
	require.NoError(t, err)
	assert.Equal(t, "catalog unreachable", info.LastError)
	assert.Equal(t, int32(1), runs.Load())
	assert.NotNil(t, info.NextRun)

	assert.Error(t, s.RunNow("missing"))
}

func TestStart_RunsOnStartTasks(t *testing.T) {
	s := newTestScheduler(t)
	ran := make(chan struct{}, 1)

	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:         "startup",
		Name:       "Startup",
		Cron:       "0 0 1 1 *",
		RunOnStart: true,
		Func: func(context.Context) error {
			ran <- struct{}{}
			return nil
		},
	}))
	s.Start()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("RunOnStart task did not run")
	}
}

func TestListTasks_OrderedByID(t *testing.T) {
	s := newTestScheduler(t)
	noop := func(context.Context) error { return nil }
	require.NoError(t, s.RegisterTask(TaskConfig{ID: "b", Name: "B", Cron: "*/5 * * * *", Func: noop}))
	require.NoError(t, s.RegisterTask(TaskConfig{ID: "a", Name: "A", Cron: "*/5 * * * *", Func: noop}))

	tasks := s.ListTasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "b", tasks[1].ID)
}
