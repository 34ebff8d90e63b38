package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombine_ScoreIsMeanOfModels(t *testing.T) {
	for name, fv := range sampleVectors() {
		res := Combine(Models(), fv)
		require.Len(t, res.Breakdown, 4, name)

		sum := 0.0
		for _, b := range res.Breakdown {
			sum += b.Score
		}
		assert.InDelta(t, sum/4, res.Score, 1e-9, name)
		assert.GreaterOrEqual(t, res.Score, 0.0, name)
		assert.LessOrEqual(t, res.Score, 100.0, name)
	}
}

func TestCombine_AgreementBounds(t *testing.T) {
	for name, fv := range sampleVectors() {
		res := Combine(Models(), fv)
		assert.GreaterOrEqual(t, res.Agreement, 0.0, name)
		assert.LessOrEqual(t, res.Agreement, 1.0, name)
	}
}

func TestCombine_StrugglingLearnerScoresHigh(t *testing.T) {
	res := Combine(Models(), strugglingVector())
	assert.GreaterOrEqual(t, res.Score, 70.0)
}

func TestCombine_HealthyLearnerScoresLow(t *testing.T) {
	res := Combine(Models(), healthyVector())
	assert.Less(t, res.Score, 50.0)
}

func TestCombine_IdenticalModelsAgreeFully(t *testing.T) {
	models := []Model{RuleTreeModel{}, RuleTreeModel{}, RuleTreeModel{}}
	res := Combine(models, healthyVector())
	assert.InDelta(t, 1.0, res.Agreement, 1e-9)
}

func TestCombine_NoModels(t *testing.T) {
	res := Combine(nil, healthyVector())
	assert.Zero(t, res.Score)
	assert.Empty(t, res.Breakdown)
}
