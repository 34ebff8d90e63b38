package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factorNames(factors []RiskFactor) []string {
	names := make([]string, len(factors))
	for i, f := range factors {
		names[i] = f.Name
	}
	return names
}

func TestAnalyzeFactors_StrugglingLearner(t *testing.T) {
	risks, protective, indicators := AnalyzeFactors(strugglingVector())

	require.GreaterOrEqual(t, len(risks), 4)
	names := factorNames(risks)
	assert.Contains(t, names, "Low Engagement")
	assert.Contains(t, names, "Declining Engagement")
	assert.Contains(t, names, "Poor Performance")
	assert.Contains(t, names, "Low Attendance")

	assert.Empty(t, protective)
	assert.NotEmpty(t, indicators)
}

func TestAnalyzeFactors_HealthyLearner(t *testing.T) {
	risks, protective, _ := AnalyzeFactors(healthyVector())

	assert.Empty(t, risks)
	require.Len(t, protective, 1)
	assert.Equal(t, "Consistent Study Habits", protective[0].Name)
}

func TestAnalyzeFactors_SortedByWeightDescending(t *testing.T) {
	risks, _, _ := AnalyzeFactors(strugglingVector())
	for i := 1; i < len(risks); i++ {
		assert.GreaterOrEqual(t, risks[i-1].Weight, risks[i].Weight)
	}
}

func TestAnalyzeFactors_SeverityEscalation(t *testing.T) {
	mild := FeatureVector{RecentEngagement: 45, AverageScore: 75, AttendanceRate: 1, SocialInteraction: 0.5}
	severe := FeatureVector{RecentEngagement: 20, AverageScore: 75, AttendanceRate: 1, SocialInteraction: 0.5}

	mildRisks, _, _ := AnalyzeFactors(mild)
	severeRisks, _, _ := AnalyzeFactors(severe)

	require.Len(t, mildRisks, 1)
	require.Len(t, severeRisks, 1)
	assert.Equal(t, SeverityMedium, mildRisks[0].Severity)
	assert.Equal(t, SeverityHigh, severeRisks[0].Severity)
}

func TestAnalyzeFactors_ProtectiveThresholdsAreStrict(t *testing.T) {
	// Exactly at a protective threshold does not fire the factor.
	fv := healthyVector()
	fv.SessionConsistency = 0.8
	_, protective, _ := AnalyzeFactors(fv)
	assert.Empty(t, protective)
}

func TestAnalyzeFactors_MultipleProtectiveFactors(t *testing.T) {
	fv := healthyVector()
	fv.HelpSeekingBehavior = 0.6
	fv.SocialInteraction = 0.7
	fv.ScoreTrend = 8

	_, protective, _ := AnalyzeFactors(fv)
	require.Len(t, protective, 4)
}
