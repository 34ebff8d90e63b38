package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// strugglingVector mirrors a learner with collapsed engagement, failing
// scores, and poor attendance.
func strugglingVector() FeatureVector {
	return FeatureVector{
		RecentEngagement:  20,
		EngagementTrend:   -15,
		AverageScore:      45,
		ScoreTrend:        -8,
		AttendanceRate:    0.4,
		DeadlineMissRate:  0.5,
		InactivityPeriods: 8,
	}
}

// healthyVector mirrors a learner with neutral-to-good signals everywhere.
func healthyVector() FeatureVector {
	return FeatureVector{
		RecentEngagement:    70,
		EngagementTrend:     0,
		AverageScore:        75,
		ScoreTrend:          0,
		AttendanceRate:      1,
		SocialInteraction:   0.5,
		HelpSeekingBehavior: 0.5,
		SessionConsistency:  0.9,
	}
}

func sampleVectors() map[string]FeatureVector {
	return map[string]FeatureVector{
		"struggling": strugglingVector(),
		"healthy":    healthyVector(),
		"no_data":    {},
		"extreme_bad": {
			EngagementTrend:   -50,
			ScoreTrend:        -25,
			DeadlineMissRate:  1,
			InactivityPeriods: 20,
		},
		"extreme_good": {
			RecentEngagement:    100,
			EngagementTrend:     50,
			AverageScore:        100,
			ScoreTrend:          25,
			AttendanceRate:      1,
			TimeSpentTrend:      100,
			SocialInteraction:   1,
			HelpSeekingBehavior: 1,
			SessionConsistency:  1,
			DifficultyProgression: 5,
		},
	}
}

func TestModels_ScoreStaysInRange(t *testing.T) {
	for name, fv := range sampleVectors() {
		for _, m := range Models() {
			s := m.Score(fv)
			assert.GreaterOrEqual(t, s, 0.0, "%s/%s", m.Name(), name)
			assert.LessOrEqual(t, s, 100.0, "%s/%s", m.Name(), name)
		}
	}
}

func TestLinearModel_NeutralInputScoresFifty(t *testing.T) {
	// An all-zero vector leaves only the intercept, which the logistic curve
	// maps to the middle of the range.
	s := LinearModel{}.Score(FeatureVector{})
	assert.InDelta(t, 50.0, s, 1e-9)
}

func TestLinearModel_SeparatesStrugglingFromHealthy(t *testing.T) {
	bad := LinearModel{}.Score(strugglingVector())
	good := LinearModel{}.Score(healthyVector())

	assert.Greater(t, bad, 85.0)
	assert.Less(t, good, 5.0)
}

func TestRuleTreeModel_KnownScores(t *testing.T) {
	tests := []struct {
		name string
		fv   FeatureVector
		want float64
	}{
		{"struggling hits the cap", strugglingVector(), 100},
		{"healthy stays at base", healthyVector(), 30},
		{"no data trips the zero thresholds", FeatureVector{}, 82},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RuleTreeModel{}.Score(tt.fv), 1e-9)
		})
	}
}

func TestResidualModel_KnownScores(t *testing.T) {
	assert.InDelta(t, 93.75, ResidualModel{}.Score(FeatureVector{}), 1e-9)
	assert.InDelta(t, 38.0, ResidualModel{}.Score(healthyVector()), 1e-9)
}

func TestNetworkModel_OrdersLearnersSensibly(t *testing.T) {
	bad := NetworkModel{}.Score(strugglingVector())
	good := NetworkModel{}.Score(healthyVector())

	assert.Greater(t, bad, 80.0)
	assert.Less(t, good, 20.0)
}

func TestModels_AreDeterministic(t *testing.T) {
	fv := strugglingVector()
	for _, m := range Models() {
		assert.Equal(t, m.Score(fv), m.Score(fv), m.Name())
	}
}
