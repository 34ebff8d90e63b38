package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataQuality_PenalizesZeroFeatures(t *testing.T) {
	full := FeatureVector{
		RecentEngagement: 60, EngagementTrend: 2, AverageScore: 80, ScoreTrend: 1,
		AttendanceRate: 0.9, TimeSpentTrend: 5, SocialInteraction: 0.4,
		HelpSeekingBehavior: 0.3, SessionConsistency: 0.7, DifficultyProgression: 0.5,
		DeadlineMissRate: 0.1, InactivityPeriods: 1,
	}
	assert.InDelta(t, 1.0, DataQuality(full), 1e-9)

	// Healthy learners legitimately leave six features at zero (both trends,
	// time-spent trend, difficulty progression, miss rate, inactivity); each
	// zero still costs the fixed penalty.
	assert.InDelta(t, 1-0.05*6, DataQuality(healthyVector()), 1e-9)
}

func TestDataQuality_Floor(t *testing.T) {
	// Twelve zeros would push quality to 0.4, still above the floor; the
	// floor only binds if the penalty step grows.
	assert.InDelta(t, 0.4, DataQuality(FeatureVector{}), 1e-9)
	assert.GreaterOrEqual(t, DataQuality(FeatureVector{}), qualityFloor)
}

func TestComputeConfidence_Blend(t *testing.T) {
	// quality 0.4 (all-zero vector), agreement 0.5:
	// 0.6*0.4 + 0.4*0.5 = 0.44 -> 44.
	assert.InDelta(t, 44.0, ComputeConfidence(FeatureVector{}, 0.5), 1e-9)
}

func TestComputeConfidence_NeverReachesFull(t *testing.T) {
	full := FeatureVector{
		RecentEngagement: 60, EngagementTrend: 2, AverageScore: 80, ScoreTrend: 1,
		AttendanceRate: 0.9, TimeSpentTrend: 5, SocialInteraction: 0.4,
		HelpSeekingBehavior: 0.3, SessionConsistency: 0.7, DifficultyProgression: 0.5,
		DeadlineMissRate: 0.1, InactivityPeriods: 1,
	}
	assert.InDelta(t, 95.0, ComputeConfidence(full, 1.0), 1e-9)
}

func TestComputeConfidence_SparseDataStaysLow(t *testing.T) {
	res := Combine(Models(), FeatureVector{})
	c := ComputeConfidence(FeatureVector{}, res.Agreement)
	assert.Less(t, c, 60.0)
	assert.Greater(t, c, 0.0)
}
