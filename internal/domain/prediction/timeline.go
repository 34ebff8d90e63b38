package prediction

import "time"

// Horizon multipliers for the trend factor at 30, 60, and 90 days.
const (
	horizon30Factor = 0.5
	horizon60Factor = 1.0
	horizon90Factor = 1.5
)

// ProjectTimeline extrapolates the current risk score along the averaged
// trend features. Each horizon projects risk as the current score plus the
// trend factor scaled by how far out the horizon lies, clamped to [0,100].
// CriticalPoint is the date of the first horizon whose projection reaches the
// critical threshold; later horizons never override an earlier match.
func ProjectTimeline(currentRisk float64, fv FeatureVector, now time.Time) TimelineProjection {
	trendFactor := (fv.EngagementTrend + fv.ScoreTrend + fv.TimeSpentTrend) / 3

	project := func(mult float64) float64 {
		return clamp(currentRisk+trendFactor*mult, 0, 100)
	}

	tp := TimelineProjection{
		RiskIn30Days: project(horizon30Factor),
		RiskIn60Days: project(horizon60Factor),
		RiskIn90Days: project(horizon90Factor),
	}

	horizons := []struct {
		days int
		risk float64
	}{
		{30, tp.RiskIn30Days},
		{60, tp.RiskIn60Days},
		{90, tp.RiskIn90Days},
	}
	for _, h := range horizons {
		if h.risk >= CriticalThreshold {
			at := now.AddDate(0, 0, h.days)
			tp.CriticalPoint = &at
			break
		}
	}

	return tp
}
