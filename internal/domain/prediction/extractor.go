package prediction

import (
	"sort"
	"time"

	"github.com/edupulse/edupulse-backend/internal/domain/analytics"
	"github.com/edupulse/edupulse-backend/pkg/timeutil"
)

// Extraction constants.
const (
	// recentEngagementDays is the sub-window for the recent-engagement mean.
	recentEngagementDays = 7

	// weekDays is the sub-window for the time-spent trend comparison.
	weekDays = 7

	// helpSeekingNormalizer caps the help-seeking count normalization.
	helpSeekingNormalizer = 10.0

	// inactivityGap is the minimum gap between events that counts as an
	// inactivity period.
	inactivityGap = 3 * 24 * time.Hour
)

// ExtractFeatures turns the learner's record streams over the window into a
// FeatureVector. It has no side effects, never fails on empty collections
// (each feature degrades to zero), and is deterministic for identical input.
func ExtractFeatures(
	activities []*analytics.ActivityEvent,
	sessions []*analytics.SessionRecord,
	rollups []*analytics.DailyRollup,
	window timeutil.Window,
) FeatureVector {
	firstHalf, secondHalf := window.Halves()

	fv := FeatureVector{
		RecentEngagement:      meanEngagement(rollups, window.LastDays(recentEngagementDays)),
		EngagementTrend:       meanEngagement(rollups, secondHalf) - meanEngagement(rollups, firstHalf),
		AverageScore:          meanScore(activities, window),
		ScoreTrend:            meanScore(activities, secondHalf) - meanScore(activities, firstHalf),
		AttendanceRate:        attendanceRate(sessions, window),
		TimeSpentTrend:        timeSpentTrend(rollups, window),
		SocialInteraction:     activityFraction(activities, analytics.ActivityType.IsSocial),
		HelpSeekingBehavior:   helpSeeking(activities),
		SessionConsistency:    sessionConsistency(sessions),
		DifficultyProgression: meanDifficulty(activities, secondHalf) - meanDifficulty(activities, firstHalf),
		DeadlineMissRate:      deadlineMissRate(activities),
		InactivityPeriods:     inactivityPeriods(activities, sessions, rollups),
	}

	// Rates and ratios are clamped into their documented ranges.
	fv.RecentEngagement = clamp(fv.RecentEngagement, 0, 100)
	fv.AverageScore = clamp(fv.AverageScore, 0, 100)
	fv.AttendanceRate = clamp(fv.AttendanceRate, 0, 1)
	fv.SocialInteraction = clamp(fv.SocialInteraction, 0, 1)
	fv.HelpSeekingBehavior = clamp(fv.HelpSeekingBehavior, 0, 1)
	fv.SessionConsistency = clamp(fv.SessionConsistency, 0, 1)
	fv.DeadlineMissRate = clamp(fv.DeadlineMissRate, 0, 1)

	return fv
}

// meanEngagement averages rollup engagement scores whose date falls in the
// sub-window. Empty input yields 0.
func meanEngagement(rollups []*analytics.DailyRollup, w timeutil.Window) float64 {
	sum, n := 0.0, 0
	for _, r := range rollups {
		if w.Contains(r.Date) {
			sum += r.EngagementScore
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// meanScore averages available assessment scores inside the sub-window.
func meanScore(activities []*analytics.ActivityEvent, w timeutil.Window) float64 {
	sum, n := 0.0, 0
	for _, a := range activities {
		if a.Score != nil && w.Contains(a.Timestamp) {
			sum += *a.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// attendanceRate is observed sessions over one expected session per window
// day, capped at 1 by the caller's clamp.
func attendanceRate(sessions []*analytics.SessionRecord, w timeutil.Window) float64 {
	days := w.Days()
	if days == 0 {
		return 0
	}
	return float64(len(sessions)) / float64(days)
}

// timeSpentTrend is the percent change in rollup time spent, last week of the
// window versus first week. An empty first week yields 0.
func timeSpentTrend(rollups []*analytics.DailyRollup, w timeutil.Window) float64 {
	sumIn := func(sub timeutil.Window) float64 {
		var total time.Duration
		for _, r := range rollups {
			if sub.Contains(r.Date) {
				total += r.TotalTimeSpent
			}
		}
		return total.Minutes()
	}

	first := sumIn(w.FirstDays(weekDays))
	last := sumIn(w.LastDays(weekDays))
	if first == 0 {
		return 0
	}
	return (last - first) / first * 100
}

// activityFraction is the fraction of activities matching the predicate.
func activityFraction(activities []*analytics.ActivityEvent, match func(analytics.ActivityType) bool) float64 {
	if len(activities) == 0 {
		return 0
	}
	n := 0
	for _, a := range activities {
		if match(a.Type) {
			n++
		}
	}
	return float64(n) / float64(len(activities))
}

// helpSeeking normalizes the count of help-related activities into [0,1].
func helpSeeking(activities []*analytics.ActivityEvent) float64 {
	n := 0
	for _, a := range activities {
		if a.Type.IsHelpSeeking() {
			n++
		}
	}
	return float64(n) / helpSeekingNormalizer
}

// sessionConsistency is 1 minus the normalized variance of inter-session
// intervals. The variance is normalized by the squared mean interval so the
// measure is scale-free. Fewer than two sessions yields 0.
func sessionConsistency(sessions []*analytics.SessionRecord) float64 {
	if len(sessions) < 2 {
		return 0
	}

	starts := make([]time.Time, len(sessions))
	for i, s := range sessions {
		starts[i] = s.StartedAt
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	intervals := make([]float64, 0, len(starts)-1)
	for i := 1; i < len(starts); i++ {
		intervals = append(intervals, starts[i].Sub(starts[i-1]).Hours())
	}

	mean := 0.0
	for _, iv := range intervals {
		mean += iv
	}
	mean /= float64(len(intervals))
	if mean == 0 {
		return 0
	}

	variance := 0.0
	for _, iv := range intervals {
		d := iv - mean
		variance += d * d
	}
	variance /= float64(len(intervals))

	normalized := clamp(variance/(mean*mean), 0, 1)
	return 1 - normalized
}

// meanDifficulty averages difficulty tags of activities inside the sub-window.
func meanDifficulty(activities []*analytics.ActivityEvent, w timeutil.Window) float64 {
	sum, n := 0.0, 0
	for _, a := range activities {
		if a.Difficulty != nil && w.Contains(a.Timestamp) {
			sum += float64(*a.Difficulty)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// deadlineMissRate is the fraction of deadline-bound activities submitted late.
func deadlineMissRate(activities []*analytics.ActivityEvent) float64 {
	bound, missed := 0, 0
	for _, a := range activities {
		if !a.HasDeadline() {
			continue
		}
		bound++
		if a.MissedDeadline() {
			missed++
		}
	}
	if bound == 0 {
		return 0
	}
	return float64(missed) / float64(bound)
}

// inactivityPeriods counts gaps longer than three days between consecutive
// events of any kind (activities, session starts, rollup dates).
func inactivityPeriods(
	activities []*analytics.ActivityEvent,
	sessions []*analytics.SessionRecord,
	rollups []*analytics.DailyRollup,
) float64 {
	times := make([]time.Time, 0, len(activities)+len(sessions)+len(rollups))
	for _, a := range activities {
		times = append(times, a.Timestamp)
	}
	for _, s := range sessions {
		times = append(times, s.StartedAt)
	}
	for _, r := range rollups {
		times = append(times, r.Date)
	}
	if len(times) < 2 {
		return 0
	}

	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	gaps := 0
	for i := 1; i < len(times); i++ {
		if times[i].Sub(times[i-1]) > inactivityGap {
			gaps++
		}
	}
	return float64(gaps)
}
