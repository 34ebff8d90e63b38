package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRisk_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  RiskLevel
	}{
		{0, RiskLow},
		{49.999, RiskLow},
		{50, RiskMedium},
		{69.999, RiskMedium},
		{70, RiskHigh},
		{84.999, RiskHigh},
		{85, RiskCritical},
		{100, RiskCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRisk(tt.score), "score %.3f", tt.score)
	}
}

func TestClassifyRisk_TotalAndMonotonic(t *testing.T) {
	prev := RiskLow
	for score := 0.0; score <= 100.0; score += 0.25 {
		level := ClassifyRisk(score)
		assert.True(t, level.IsValid(), "score %.2f", score)
		assert.GreaterOrEqual(t, level.Ordinal(), prev.Ordinal(), "score %.2f", score)
		prev = level
	}
}

func TestClassifyRisk_OutOfRangeScores(t *testing.T) {
	assert.Equal(t, RiskLow, ClassifyRisk(-10))
	assert.Equal(t, RiskCritical, ClassifyRisk(150))
}
