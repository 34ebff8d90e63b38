package prediction

// FeatureVector is the fixed-size numeric summary of a learner's recent
// behavior, computed over a trailing window. Missing source data degrades
// to zero; every rate/ratio field is clamped into its documented range.
type FeatureVector struct {
	// RecentEngagement is the mean engagement score of the last 7 days (0-100).
	RecentEngagement float64 `json:"recentEngagement"`

	// EngagementTrend is second-half minus first-half mean engagement.
	EngagementTrend float64 `json:"engagementTrend"`

	// AverageScore is the mean of available quiz/assessment scores (0-100).
	AverageScore float64 `json:"averageScore"`

	// ScoreTrend is second-half minus first-half mean score.
	ScoreTrend float64 `json:"scoreTrend"`

	// AttendanceRate is observed sessions over expected sessions, capped at 1.
	AttendanceRate float64 `json:"attendanceRate"`

	// TimeSpentTrend is the percent change in time spent, last week vs first week.
	TimeSpentTrend float64 `json:"timeSpentTrend"`

	// SocialInteraction is the fraction of activities that are
	// discussion/chat/forum (0-1).
	SocialInteraction float64 `json:"socialInteraction"`

	// HelpSeekingBehavior is the normalized count of help-related activities (0-1).
	HelpSeekingBehavior float64 `json:"helpSeekingBehavior"`

	// SessionConsistency is 1 minus the normalized variance of inter-session
	// intervals (0-1).
	SessionConsistency float64 `json:"sessionConsistency"`

	// DifficultyProgression is the trend of recent difficulty-tagged activities.
	DifficultyProgression float64 `json:"difficultyProgression"`

	// DeadlineMissRate is the fraction of deadline-bound activities submitted
	// late (0-1).
	DeadlineMissRate float64 `json:"deadlineMissRate"`

	// InactivityPeriods counts gaps longer than 3 days between consecutive
	// events in the window.
	InactivityPeriods float64 `json:"inactivityPeriods"`
}

// featureCount is the dimensionality of the vector.
const featureCount = 12

// values returns the features in declaration order.
// Order matters to the shallow-network model's weight matrices.
func (f FeatureVector) values() [featureCount]float64 {
	return [featureCount]float64{
		f.RecentEngagement,
		f.EngagementTrend,
		f.AverageScore,
		f.ScoreTrend,
		f.AttendanceRate,
		f.TimeSpentTrend,
		f.SocialInteraction,
		f.HelpSeekingBehavior,
		f.SessionConsistency,
		f.DifficultyProgression,
		f.DeadlineMissRate,
		f.InactivityPeriods,
	}
}

// ZeroFeatureCount returns how many features are exactly zero.
// Data-quality scoring penalizes each zero-valued feature.
func (f FeatureVector) ZeroFeatureCount() int {
	count := 0
	for _, v := range f.values() {
		if v == 0 {
			count++
		}
	}
	return count
}

// IsZero reports whether every feature is zero.
func (f FeatureVector) IsZero() bool {
	return f.ZeroFeatureCount() == featureCount
}

// clamp returns v limited to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
