package prediction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectTimeline_RisingTrendIsMonotonic(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fv := FeatureVector{EngagementTrend: 12, ScoreTrend: 6, TimeSpentTrend: 9}

	tp := ProjectTimeline(60, fv, now)

	assert.LessOrEqual(t, tp.RiskIn30Days, tp.RiskIn60Days)
	assert.LessOrEqual(t, tp.RiskIn60Days, tp.RiskIn90Days)
	assert.InDelta(t, 64.5, tp.RiskIn30Days, 1e-9)
	assert.InDelta(t, 69.0, tp.RiskIn60Days, 1e-9)
	assert.InDelta(t, 73.5, tp.RiskIn90Days, 1e-9)
	assert.Nil(t, tp.CriticalPoint)
}

func TestProjectTimeline_FallingTrendIsMonotonicDown(t *testing.T) {
	now := time.Now().UTC()
	fv := FeatureVector{EngagementTrend: -20, ScoreTrend: -10, TimeSpentTrend: -30}

	tp := ProjectTimeline(60, fv, now)

	assert.GreaterOrEqual(t, tp.RiskIn30Days, tp.RiskIn60Days)
	assert.GreaterOrEqual(t, tp.RiskIn60Days, tp.RiskIn90Days)
}

func TestProjectTimeline_Clamping(t *testing.T) {
	now := time.Now().UTC()

	up := ProjectTimeline(95, FeatureVector{EngagementTrend: 60, ScoreTrend: 60, TimeSpentTrend: 60}, now)
	assert.InDelta(t, 100.0, up.RiskIn90Days, 1e-9)

	down := ProjectTimeline(5, FeatureVector{EngagementTrend: -60, ScoreTrend: -60, TimeSpentTrend: -60}, now)
	assert.InDelta(t, 0.0, down.RiskIn90Days, 1e-9)
}

func TestProjectTimeline_CriticalPointIsFirstMatchingHorizon(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// 80 + 12*0.5 = 86 at 30 days already crosses the critical threshold.
	fv := FeatureVector{EngagementTrend: 12, ScoreTrend: 12, TimeSpentTrend: 12}
	tp := ProjectTimeline(80, fv, now)

	require.NotNil(t, tp.CriticalPoint)
	assert.Equal(t, now.AddDate(0, 0, 30), *tp.CriticalPoint)
}

func TestProjectTimeline_CriticalPointAtLaterHorizon(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// trendFactor 10: 75+5=80, 75+10=85 -> the 60-day horizon is first.
	fv := FeatureVector{EngagementTrend: 10, ScoreTrend: 10, TimeSpentTrend: 10}
	tp := ProjectTimeline(75, fv, now)

	require.NotNil(t, tp.CriticalPoint)
	assert.Equal(t, now.AddDate(0, 0, 60), *tp.CriticalPoint)
}

func TestProjectTimeline_FlatTrendHoldsSteady(t *testing.T) {
	now := time.Now().UTC()
	tp := ProjectTimeline(55, FeatureVector{}, now)

	assert.InDelta(t, 55.0, tp.RiskIn30Days, 1e-9)
	assert.InDelta(t, 55.0, tp.RiskIn60Days, 1e-9)
	assert.InDelta(t, 55.0, tp.RiskIn90Days, 1e-9)
	assert.Nil(t, tp.CriticalPoint)
}
