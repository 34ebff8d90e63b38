package predictor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/edupulse-backend/internal/domain/prediction"
	"github.com/edupulse/edupulse-backend/internal/domain/shared"
)

// seedCachedScore plants a finished prediction so the scan serves the learner
// from cache with a controlled risk score.
func seedCachedScore(cache *fakeCache, studentID, courseID string, score float64) {
	key := prediction.CacheKey(studentID, courseID)
	cache.entries[key] = &prediction.Prediction{
		ID:          "cached-" + studentID,
		StudentID:   studentID,
		CourseID:    courseID,
		RiskScore:   score,
		RiskLevel:   prediction.ClassifyRisk(score),
		Confidence:  50,
		GeneratedAt: fixedClock()(),
	}
}

func TestScanAtRisk_FiltersAndSortsByScore(t *testing.T) {
	engine, deps := newTestEngine(t)

	scores := map[string]float64{"s1": 20, "s2": 72, "s3": 95, "s4": 68, "s5": 85}
	deps.roster.ids = []string{"s1", "s2", "s3", "s4", "s5"}
	for id, score := range scores {
		seedCachedScore(deps.cache, id, "c1", score)
	}

	result, err := engine.ScanAtRisk(context.Background(), ScanQuery{CourseID: "c1", Threshold: 70})
	require.NoError(t, err)

	require.Len(t, result.Students, 3)
	assert.Equal(t, []float64{95, 85, 72}, []float64{
		result.Students[0].RiskScore,
		result.Students[1].RiskScore,
		result.Students[2].RiskScore,
	})
	assert.Equal(t, "s3", result.Students[0].StudentID)
	assert.Equal(t, "s5", result.Students[1].StudentID)
	assert.Equal(t, "s2", result.Students[2].StudentID)
	assert.Equal(t, 5, result.Scanned)
	assert.Zero(t, result.Failed)
}

func TestScanAtRisk_ThresholdIsInclusive(t *testing.T) {
	engine, deps := newTestEngine(t)

	deps.roster.ids = []string{"s1", "s2"}
	seedCachedScore(deps.cache, "s1", "", 70)
	seedCachedScore(deps.cache, "s2", "", 69.99)

	result, err := engine.ScanAtRisk(context.Background(), ScanQuery{Threshold: 70})
	require.NoError(t, err)

	require.Len(t, result.Students, 1)
	assert.Equal(t, "s1", result.Students[0].StudentID)
}

func TestScanAtRisk_OneFailureDoesNotAbortOthers(t *testing.T) {
	engine, deps := newTestEngine(t)

	deps.roster.ids = []string{"s1", "s2", "s3"}
	deps.store.errs["s2"] = errors.New("connection reset")
	seedCachedScore(deps.cache, "s1", "", 90)
	seedCachedScore(deps.cache, "s3", "", 75)

	result, err := engine.ScanAtRisk(context.Background(), ScanQuery{Threshold: 70})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Scanned)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Students, 2)
	assert.Equal(t, "s1", result.Students[0].StudentID)
	assert.Equal(t, "s3", result.Students[1].StudentID)
}

func TestScanAtRisk_EmitsCompletionEvent(t *testing.T) {
	engine, deps := newTestEngine(t)

	deps.roster.ids = []string{"s1"}
	seedCachedScore(deps.cache, "s1", "", 40)

	result, err := engine.ScanAtRisk(context.Background(), ScanQuery{Threshold: 70})
	require.NoError(t, err)
	assert.Empty(t, result.Students)

	completed := deps.publisher.byType(shared.EventRiskScanCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, result.ScanID, completed[0].AggregateID())
}

func TestScanAtRisk_RespectsRosterLimit(t *testing.T) {
	engine, deps := newTestEngine(t)

	deps.roster.ids = []string{"s1", "s2", "s3", "s4"}
	for _, id := range deps.roster.ids {
		seedCachedScore(deps.cache, id, "", 80)
	}

	result, err := engine.ScanAtRisk(context.Background(), ScanQuery{Threshold: 0, Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Scanned)
	assert.Len(t, result.Students, 2)
}

func TestScanAtRisk_ValidatesQuery(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.ScanAtRisk(context.Background(), ScanQuery{Threshold: 120})
	assert.True(t, shared.IsValidation(err))

	_, err = engine.ScanAtRisk(context.Background(), ScanQuery{Limit: -1})
	assert.True(t, shared.IsValidation(err))
}

func TestScanAtRisk_ConcurrentLearnersComputeIndependently(t *testing.T) {
	engine, deps := newTestEngine(t)

	// No cache seeding: every learner runs the full pipeline concurrently on
	// an empty store and lands on the same elevated score.
	deps.roster.ids = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}

	result, err := engine.ScanAtRisk(context.Background(), ScanQuery{Threshold: 0})
	require.NoError(t, err)

	require.Len(t, result.Students, 10)
	for _, s := range result.Students {
		assert.InDelta(t, result.Students[0].RiskScore, s.RiskScore, 1e-9)
	}
	assert.Zero(t, result.Failed)

	scan := deps.publisher.byType(shared.EventRiskScanCompleted)
	assert.Len(t, scan, 1)
}
