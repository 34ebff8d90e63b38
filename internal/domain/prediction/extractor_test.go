package prediction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edupulse/edupulse-backend/internal/domain/analytics"
	"github.com/edupulse/edupulse-backend/pkg/timeutil"
)

func testWindow() timeutil.Window {
	ref := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return timeutil.TrailingWindow(ref, 60)
}

func day(month time.Month, d int) time.Time {
	return time.Date(2026, month, d, 0, 0, 0, 0, time.UTC)
}

func fptr(v float64) *float64 { return &v }

func tptr(t time.Time) *time.Time { return &t }

func activityAt(ts time.Time, at analytics.ActivityType) *analytics.ActivityEvent {
	return &analytics.ActivityEvent{ID: ts.Format(time.RFC3339), StudentID: "s1", Type: at, Timestamp: ts}
}

func rollupAt(date time.Time, engagement float64) *analytics.DailyRollup {
	return &analytics.DailyRollup{StudentID: "s1", Date: date, EngagementScore: engagement}
}

func sessionAt(ts time.Time) *analytics.SessionRecord {
	return &analytics.SessionRecord{ID: ts.Format(time.RFC3339), StudentID: "s1", StartedAt: ts, Duration: time.Hour}
}

func TestExtractFeatures_EmptyCollectionsYieldZeroVector(t *testing.T) {
	fv := ExtractFeatures(nil, nil, nil, testWindow())
	assert.True(t, fv.IsZero())
}

func TestExtractFeatures_IsDeterministic(t *testing.T) {
	activities := []*analytics.ActivityEvent{
		activityAt(day(time.January, 15), analytics.ActivityQuiz),
		activityAt(day(time.February, 20), analytics.ActivityDiscussion),
	}
	sessions := []*analytics.SessionRecord{sessionAt(day(time.February, 20))}
	rollups := []*analytics.DailyRollup{rollupAt(day(time.February, 25), 55)}

	first := ExtractFeatures(activities, sessions, rollups, testWindow())
	second := ExtractFeatures(activities, sessions, rollups, testWindow())
	assert.Equal(t, first, second)
}

func TestExtractFeatures_EngagementMeanAndTrend(t *testing.T) {
	rollups := []*analytics.DailyRollup{
		rollupAt(day(time.January, 10), 80),
		rollupAt(day(time.February, 25), 40),
		rollupAt(day(time.February, 28), 60),
	}

	fv := ExtractFeatures(nil, nil, rollups, testWindow())

	// Last seven days cover only the two February rollups.
	assert.InDelta(t, 50.0, fv.RecentEngagement, 1e-9)
	// Second-half mean 50, first-half mean 80.
	assert.InDelta(t, -30.0, fv.EngagementTrend, 1e-9)
}

func TestExtractFeatures_ScoreMeanAndTrend(t *testing.T) {
	early := activityAt(day(time.January, 15), analytics.ActivityQuiz)
	early.Score = fptr(80)
	late := activityAt(day(time.February, 20), analytics.ActivityQuiz)
	late.Score = fptr(60)
	unscored := activityAt(day(time.February, 21), analytics.ActivityLesson)

	fv := ExtractFeatures([]*analytics.ActivityEvent{early, late, unscored}, nil, nil, testWindow())

	assert.InDelta(t, 70.0, fv.AverageScore, 1e-9)
	assert.InDelta(t, -20.0, fv.ScoreTrend, 1e-9)
}

func TestExtractFeatures_AttendanceAndConsistency(t *testing.T) {
	sessions := make([]*analytics.SessionRecord, 0, 6)
	for d := 20; d < 26; d++ {
		sessions = append(sessions, sessionAt(day(time.February, d)))
	}

	fv := ExtractFeatures(nil, sessions, nil, testWindow())

	assert.InDelta(t, 0.1, fv.AttendanceRate, 1e-9)
	// Perfectly even daily intervals have zero variance.
	assert.InDelta(t, 1.0, fv.SessionConsistency, 1e-9)
}

func TestExtractFeatures_AttendanceIsCapped(t *testing.T) {
	sessions := make([]*analytics.SessionRecord, 0, 120)
	for i := 0; i < 120; i++ {
		sessions = append(sessions, sessionAt(day(time.February, 1).Add(time.Duration(i)*time.Hour)))
	}

	fv := ExtractFeatures(nil, sessions, nil, testWindow())
	assert.InDelta(t, 1.0, fv.AttendanceRate, 1e-9)
}

func TestExtractFeatures_SocialAndHelpSeeking(t *testing.T) {
	activities := []*analytics.ActivityEvent{
		activityAt(day(time.February, 1), analytics.ActivityDiscussion),
		activityAt(day(time.February, 2), analytics.ActivityLesson),
		activityAt(day(time.February, 3), analytics.ActivityHelp),
		activityAt(day(time.February, 4), analytics.ActivityHelp),
	}

	fv := ExtractFeatures(activities, nil, nil, testWindow())

	assert.InDelta(t, 0.25, fv.SocialInteraction, 1e-9)
	assert.InDelta(t, 0.2, fv.HelpSeekingBehavior, 1e-9)
}

func TestExtractFeatures_DeadlineMissRate(t *testing.T) {
	deadline := day(time.February, 10)

	missed := activityAt(day(time.February, 8), analytics.ActivityAssignment)
	missed.Deadline = tptr(deadline)
	missed.SubmittedAt = tptr(deadline.Add(48 * time.Hour))

	onTime := activityAt(day(time.February, 9), analytics.ActivityAssignment)
	onTime.Deadline = tptr(deadline)
	onTime.SubmittedAt = tptr(deadline.Add(-time.Hour))

	unbound := activityAt(day(time.February, 11), analytics.ActivityLesson)

	fv := ExtractFeatures([]*analytics.ActivityEvent{missed, onTime, unbound}, nil, nil, testWindow())
	assert.InDelta(t, 0.5, fv.DeadlineMissRate, 1e-9)
}

func TestExtractFeatures_InactivityPeriods(t *testing.T) {
	activities := []*analytics.ActivityEvent{
		activityAt(day(time.January, 5), analytics.ActivityLesson),
		activityAt(day(time.January, 20), analytics.ActivityLesson),
		activityAt(day(time.January, 22), analytics.ActivityLesson),
		activityAt(day(time.February, 10), analytics.ActivityLesson),
	}

	fv := ExtractFeatures(activities, nil, nil, testWindow())

	// Jan 5 -> Jan 20 and Jan 22 -> Feb 10 exceed the three-day gap.
	assert.InDelta(t, 2.0, fv.InactivityPeriods, 1e-9)
}

func TestExtractFeatures_TimeSpentTrend(t *testing.T) {
	early := rollupAt(day(time.January, 3), 50)
	early.TotalTimeSpent = 100 * time.Minute
	late := rollupAt(day(time.February, 27), 50)
	late.TotalTimeSpent = 150 * time.Minute

	fv := ExtractFeatures(nil, nil, []*analytics.DailyRollup{early, late}, testWindow())
	assert.InDelta(t, 50.0, fv.TimeSpentTrend, 1e-9)
}

func TestExtractFeatures_TimeSpentTrendWithoutBaseline(t *testing.T) {
	late := rollupAt(day(time.February, 27), 50)
	late.TotalTimeSpent = 150 * time.Minute

	fv := ExtractFeatures(nil, nil, []*analytics.DailyRollup{late}, testWindow())
	assert.Zero(t, fv.TimeSpentTrend)
}
