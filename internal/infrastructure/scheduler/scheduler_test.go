package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeJob is a scripted Job.
type fakeJob struct {
	name string
	runs atomic.Int64
	err  error
}

func (j *fakeJob) Name() string        { return j.name }
func (j *fakeJob) Description() string { return "test job" }

func (j *fakeJob) Run(context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestScheduler_Register(t *testing.T) {
	s := New(Config{})
	job := &fakeJob{name: "nightly"}

	require.NoError(t, s.Register(job, MustParseCron(CronDailyMidnight), 0))

	assert.ErrorIs(t, s.Register(job, MustParseCron(CronDailyMidnight), 0), ErrJobAlreadyExists)
	assert.ErrorIs(t, s.Register(nil, MustParseCron(CronDailyMidnight), 0), ErrNilJob)
	assert.ErrorIs(t, s.Register(&fakeJob{name: "other"}, nil, 0), ErrNilSchedule)

	statuses := s.Jobs()
	require.Len(t, statuses, 1)
	assert.Equal(t, "nightly", statuses[0].Name)
	assert.Equal(t, CronDailyMidnight, statuses[0].Schedule)
	assert.True(t, statuses[0].Enabled)
	assert.False(t, statuses[0].NextRun.IsZero())
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(Config{})
	job := &fakeJob{name: "recompute"}
	require.NoError(t, s.Register(job, MustParseCron(CronDailyMidnight), 0))

	result, err := s.RunNow(context.Background(), "recompute")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(1), job.runs.Load())

	last := s.LastRun("recompute")
	require.NotNil(t, last)
	assert.True(t, last.Success)

	_, err = s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestScheduler_RunNow_FailureRecorded(t *testing.T) {
	s := New(Config{})
	job := &fakeJob{name: "flaky", err: errors.New("boom")}
	require.NoError(t, s.Register(job, MustParseCron(CronDailyMidnight), 0))

	result, err := s.RunNow(context.Background(), "flaky")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Error(t, result.Error)

	statuses := s.Jobs()
	require.Len(t, statuses, 1)
	assert.Equal(t, int64(1), statuses[0].RunCount)
	assert.Equal(t, int64(1), statuses[0].FailCount)
}

func TestScheduler_DisabledJobSkippedByLoop(t *testing.T) {
	s := New(Config{})
	enabled := &fakeJob{name: "recompute"}
	disabled := &fakeJob{name: "season_rollover"}
	require.NoError(t, s.Register(enabled, NewIntervalSchedule(MinInterval), 0))
	require.NoError(t, s.Register(disabled, NewIntervalSchedule(MinInterval), 0))
	require.NoError(t, s.DisableJob("season_rollover"))

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	// Once the enabled job has fired, the loop has ticked past both due
	// times. The disabled one must have been skipped.
	require.Eventually(t, func() bool {
		return enabled.runs.Load() >= 1
	}, 10*time.Second, 50*time.Millisecond)
	assert.Equal(t, int64(0), disabled.runs.Load())

	assert.ErrorIs(t, s.DisableJob("missing"), ErrJobNotFound)
	assert.ErrorIs(t, s.EnableJob("missing"), ErrJobNotFound)
}

func TestScheduler_RunNowReachesDisabledJob(t *testing.T) {
	s := New(Config{})
	job := &fakeJob{name: "season_rollover"}
	require.NoError(t, s.Register(job, MustParseCron(CronMonthlyFirst), 0))
	require.NoError(t, s.DisableJob("season_rollover"))

	// The enabled flag gates the tick loop only. Manual triggering is the
	// whole point of keeping a job registered but disabled.
	result, err := s.RunNow(context.Background(), "season_rollover")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(1), job.runs.Load())

	statuses := s.Jobs()
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].Enabled)
	assert.Equal(t, int64(1), statuses[0].RunCount)
}

func TestScheduler_Lifecycle(t *testing.T) {
	s := New(Config{})
	assert.False(t, s.IsRunning())
	assert.ErrorIs(t, s.Stop(), ErrSchedulerNotRunning)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerAlreadyRunning)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
}

func TestScheduler_RunsDueJobs(t *testing.T) {
	s := New(Config{})
	job := &fakeJob{name: "ticker"}

	// The minimum interval makes the job due on an early loop tick.
	require.NoError(t, s.Register(job, NewIntervalSchedule(MinInterval), 0))
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	require.Eventually(t, func() bool {
		return job.runs.Load() >= 1
	}, 5*time.Second, 50*time.Millisecond)
}
