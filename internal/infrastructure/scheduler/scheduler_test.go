package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name string
	runs int
	err  error
}

func (j *stubJob) Name() string        { return j.name }
func (j *stubJob) Description() string { return "stub job" }

func (j *stubJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestScheduler_RegisterAndList(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())

	job := &stubJob{name: "nightly_scan"}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	jobs := s.ListJobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "nightly_scan", jobs[0].Name)
	assert.True(t, jobs[0].Enabled)
	assert.Equal(t, "@every 1h0m0s", jobs[0].Schedule)
	assert.False(t, jobs[0].NextRun.IsZero())
}

func TestScheduler_RegisterDuplicateFails(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())

	require.NoError(t, s.Register(&stubJob{name: "scan"}, NewIntervalSchedule(time.Hour)))
	err := s.Register(&stubJob{name: "scan"}, NewIntervalSchedule(time.Hour))
	assert.ErrorIs(t, err, ErrJobAlreadyExists)
}

func TestScheduler_RegisterNilRejected(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())

	assert.ErrorIs(t, s.Register(nil, NewIntervalSchedule(time.Hour)), ErrNilJob)
	assert.ErrorIs(t, s.Register(&stubJob{name: "scan"}, nil), ErrNilSchedule)
}

func TestScheduler_RunNow(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())

	job := &stubJob{name: "scan"}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "scan")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, job.runs)

	info, err := s.GetJobInfo("scan")
	require.NoError(t, err)
	assert.NotNil(t, info.LastResult)
}

func TestScheduler_RunNowPropagatesJobError(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())

	job := &stubJob{name: "scan", err: errors.New("store down")}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "scan")
	assert.Error(t, err)
	assert.False(t, result.Success)

	snap := s.GetMetrics().Snapshot()
	assert.Equal(t, int64(1), snap.TotalFailures)
}

func TestScheduler_RunNowUnknownJob(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())

	_, err := s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestScheduler_EnableDisable(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())

	require.NoError(t, s.Register(&stubJob{name: "scan"}, NewIntervalSchedule(time.Hour)))
	require.NoError(t, s.DisableJob("scan"))

	info, err := s.GetJobInfo("scan")
	require.NoError(t, err)
	assert.False(t, info.Enabled)

	require.NoError(t, s.EnableJob("scan"))
	info, err = s.GetJobInfo("scan")
	require.NoError(t, err)
	assert.True(t, info.Enabled)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerAlreadyRunning)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.ErrorIs(t, s.Stop(), ErrSchedulerNotRunning)
}

func TestIntervalSchedule_Next(t *testing.T) {
	sched := NewIntervalSchedule(30 * time.Minute)

	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, at.Add(30*time.Minute), sched.Next(at))

	// Sub-second intervals are raised to the scheduler tick.
	assert.Equal(t, time.Second, NewIntervalSchedule(time.Millisecond).Interval)
}

func TestCronExpression_NextDaily(t *testing.T) {
	expr, err := ParseCronExpression(EveryDay2AM)
	require.NoError(t, err)

	// Before 02:00 rolls to the same day.
	at := time.Date(2026, 3, 2, 0, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC), expr.Next(at))

	// After 02:00 rolls to the next day.
	at = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 3, 2, 0, 0, 0, time.UTC), expr.Next(at))
}

func TestCronExpression_NextStep(t *testing.T) {
	expr, err := ParseCronExpression(Every15Minutes)
	require.NoError(t, err)

	at := time.Date(2026, 3, 2, 9, 7, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC), expr.Next(at))
}

func TestParseCronExpression_Invalid(t *testing.T) {
	cases := []string{
		"",
		"* * * *",
		"61 * * * *",
		"* 25 * * *",
		"*/0 * * * *",
		"a * * * *",
	}

	for _, expr := range cases {
		_, err := ParseCronExpression(expr)
		assert.Error(t, err, "expression %q", expr)
	}
}

func TestParseCronExpression_ListsAndRanges(t *testing.T) {
	expr, err := ParseCronExpression("0 9-11 * * 1,3,5")
	require.NoError(t, err)

	// Monday 2026-03-02 at 08:00 -> 09:00 same day.
	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), expr.Next(at))

	// Monday 11:30 -> Wednesday 09:00.
	at = time.Date(2026, 3, 2, 11, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC), expr.Next(at))
}
