package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRecommendations_CriticalScoreGetsEmergencyIntervention(t *testing.T) {
	recs := GenerateRecommendations(90, nil)

	require.NotEmpty(t, recs)
	assert.Equal(t, "Emergency intervention", recs[0].Action)
	assert.Equal(t, RecommendationImmediate, recs[0].Type)
	assert.Equal(t, PriorityHigh, recs[0].Priority)
}

func TestGenerateRecommendations_HolisticSupportAlwaysPresent(t *testing.T) {
	for _, score := range []float64{0, 40, 75, 95} {
		recs := GenerateRecommendations(score, nil)
		last := recs[len(recs)-1]
		assert.Equal(t, "Holistic support", last.Action, "score %.0f", score)
		assert.Equal(t, RecommendationLongTerm, last.Type)
	}
}

func TestGenerateRecommendations_FactorDrivenRules(t *testing.T) {
	tests := []struct {
		name   string
		factor RiskFactor
		action string
	}{
		{"engagement factor", RiskFactor{Name: "Low Engagement", Category: CategoryEngagement}, "Boost engagement"},
		{"isolation factor", RiskFactor{Name: "Social Isolation", Category: CategorySocial}, "Boost engagement"},
		{"performance factor", RiskFactor{Name: "Poor Performance", Category: CategoryPerformance}, "Academic support"},
		{"deadline factor", RiskFactor{Name: "High Deadline Miss Rate", Category: CategoryBehavior}, "Academic support"},
		{"attendance factor", RiskFactor{Name: "Low Attendance", Category: CategoryAttendance}, "Monitor attendance"},
		{"inactivity factor", RiskFactor{Name: "Frequent Inactivity", Category: CategoryBehavior}, "Monitor attendance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := GenerateRecommendations(40, []RiskFactor{tt.factor})
			actions := make([]string, len(recs))
			for i, r := range recs {
				actions[i] = r.Action
			}
			assert.Contains(t, actions, tt.action)
		})
	}
}

func TestGenerateRecommendations_SortedByPriority(t *testing.T) {
	risks, _, _ := AnalyzeFactors(strugglingVector())
	recs := GenerateRecommendations(88, risks)

	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t, recs[i-1].Priority.Rank(), recs[i].Priority.Rank())
	}
	// High-priority entries keep rule order: emergency before the boosts.
	assert.Equal(t, "Emergency intervention", recs[0].Action)
}

func TestGenerateRecommendations_NoFactorsLowScore(t *testing.T) {
	recs := GenerateRecommendations(20, nil)
	require.Len(t, recs, 1)
	assert.Equal(t, "Holistic support", recs[0].Action)
}
