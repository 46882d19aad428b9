package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/vantage/backend/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	runs     atomic.Int32
	err      error
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }
func (j *stubJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestAddJob(t *testing.T) {
	s := New(logger.NewNop())

	job := &stubJob{name: "test", schedule: "0 0 6 * * 1-5"}
	require.NoError(t, s.AddJob(job))

	assert.Equal(t, []string{"test"}, s.Jobs())
	assert.Error(t, s.AddJob(job), "duplicate job names must be rejected")
}

func TestAddJob_BadSchedule(t *testing.T) {
	s := New(logger.NewNop())

	err := s.AddJob(&stubJob{name: "bad", schedule: "not a cron expression"})
	assert.Error(t, err)
	assert.Empty(t, s.Jobs())
}

func TestRunJobImmediately(t *testing.T) {
	s := New(logger.NewNop())

	job := &stubJob{name: "manual", schedule: "0 0 6 * * *"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("manual"))
	require.Eventually(t, func() bool {
		return job.runs.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		h, _ := s.History("manual")
		return len(h.Results) == 1
	}, 2*time.Second, 10*time.Millisecond)

	history, err := s.History("manual")
	require.NoError(t, err)
	assert.True(t, history.Results[0].Success)
	assert.Equal(t, 1.0, history.SuccessRate())
}

func TestRunJobRetries(t *testing.T) {
	s := New(logger.NewNop())
	s.maxRetries = 2
	s.retryDelay = time.Millisecond

	job := &stubJob{name: "flaky", schedule: "0 0 6 * * *", err: errors.New("boom")}
	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.RunJob("flaky"))

	require.Eventually(t, func() bool {
		h, _ := s.History("flaky")
		return len(h.Results) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, int32(3), job.runs.Load(), "initial attempt plus two retries")

	history, err := s.History("flaky")
	require.NoError(t, err)
	assert.False(t, history.Results[0].Success)
	assert.Equal(t, "boom", history.Results[0].Error)
	assert.Equal(t, 0.0, history.SuccessRate())
}

func TestRunJob_Unknown(t *testing.T) {
	s := New(logger.NewNop())
	assert.Error(t, s.RunJob("missing"))

	_, err := s.History("missing")
	assert.Error(t, err)
}

func TestJobHistoryCap(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 150; i++ {
		h.AddResult(JobResult{JobName: "x", Success: i%2 == 0})
	}
	assert.Len(t, h.Results, 100)
}
