package prediction

// Risk level thresholds. A score at or above a threshold falls into that
// level; everything below the medium threshold is low risk.
const (
	CriticalThreshold = 85.0
	HighThreshold     = 70.0
	MediumThreshold   = 50.0
)

// ClassifyRisk maps a risk score to its level. The mapping is total: every
// score, including out-of-range ones, lands in exactly one level.
func ClassifyRisk(score float64) RiskLevel {
	switch {
	case score >= CriticalThreshold:
		return RiskCritical
	case score >= HighThreshold:
		return RiskHigh
	case score >= MediumThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}
