package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LNshuti/energy/pkg/logger"
)

type countingJob struct {
	name     string
	schedule string
	runs     atomic.Int64
	failFor  int64
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }

func (j *countingJob) Run(ctx context.Context) error {
	n := j.runs.Add(1)
	if n <= j.failFor {
		return errors.New("transient")
	}
	return nil
}

func TestAddJob(t *testing.T) {
	s := New(logger.Nop())

	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "0 */10 * * * *"}))
	assert.Error(t, s.AddJob(&countingJob{name: "a", schedule: "@hourly"}), "duplicate name")
	assert.Error(t, s.AddJob(&countingJob{name: "b", schedule: "not a schedule"}))

	assert.Equal(t, []string{"a"}, s.Jobs())
}

func TestRemoveJob(t *testing.T) {
	s := New(logger.Nop())
	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "@hourly"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.Jobs())
	assert.Error(t, s.RemoveJob("a"))
}

func TestRunNow_Retries(t *testing.T) {
	s := New(logger.Nop(), WithRetry(2, time.Millisecond))
	job := &countingJob{name: "flaky", schedule: "@hourly", failFor: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunNow(context.Background(), "flaky")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, int64(3), job.runs.Load())

	stats := s.Stats()["flaky"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.SuccessCount)
	assert.True(t, stats.LastSuccess)
}

func TestRunNow_GivesUp(t *testing.T) {
	s := New(logger.Nop(), WithRetry(1, time.Millisecond))
	require.NoError(t, s.AddJob(&countingJob{name: "broken", schedule: "@hourly", failFor: 100}))

	result, err := s.RunNow(context.Background(), "broken")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, "transient", result.Error)
	assert.Equal(t, 0.0, s.Stats()["broken"].SuccessRate)
}

func TestRunNow_UnknownJob(t *testing.T) {
	s := New(logger.Nop())
	_, err := s.RunNow(context.Background(), "missing")
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	s := New(logger.Nop())
	job := &countingJob{name: "tick", schedule: "* * * * * *"}
	require.NoError(t, s.AddJob(job))

	s.Start()
	assert.Eventually(t, func() bool { return job.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	s.Stop()
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+10; i++ {
		h.Add(JobResult{Success: i%2 == 0})
	}

	assert.Len(t, h.Results, historyLimit)
	assert.Len(t, h.Latest(5), 5)
	assert.Len(t, h.Latest(1000), historyLimit)
	assert.InDelta(t, 0.5, h.SuccessRate(), 1e-9)
	assert.Equal(t, 0.0, (&JobHistory{}).SuccessRate())
}
