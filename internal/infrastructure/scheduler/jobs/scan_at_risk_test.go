package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/edupulse-backend/internal/application/predictor"
)

type fakeScanner struct {
	results map[string]*predictor.ScanResult
	errs    map[string]error
	queries []predictor.ScanQuery
}

func (f *fakeScanner) ScanAtRisk(ctx context.Context, query predictor.ScanQuery) (*predictor.ScanResult, error) {
	f.queries = append(f.queries, query)
	if err := f.errs[query.CourseID]; err != nil {
		return nil, err
	}
	if r, ok := f.results[query.CourseID]; ok {
		return r, nil
	}
	return &predictor.ScanResult{CourseID: query.CourseID}, nil
}

func scanResult(courseID string, scanned, atRisk, failed int) *predictor.ScanResult {
	students := make([]predictor.AtRiskStudent, atRisk)
	return &predictor.ScanResult{
		CourseID: courseID,
		Students: students,
		Scanned:  scanned,
		Failed:   failed,
	}
}

func TestScanAtRiskJob_SweepsConfiguredCourses(t *testing.T) {
	scanner := &fakeScanner{
		results: map[string]*predictor.ScanResult{
			"go-basics":  scanResult("go-basics", 40, 6, 0),
			"algorithms": scanResult("algorithms", 25, 3, 1),
		},
	}

	cfg := DefaultScanAtRiskConfig()
	cfg.CourseIDs = []string{"go-basics", "algorithms"}
	job := NewScanAtRiskJob(scanner, nil, cfg)

	require.NoError(t, job.Run(context.Background()))

	stats := job.LastRunStats()
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.CoursesScanned)
	assert.Equal(t, 65, stats.LearnersTotal)
	assert.Equal(t, 9, stats.AtRiskFound)
	assert.Equal(t, 1, stats.LearnersFailed)
	assert.Equal(t, 6, stats.AtRiskByCourse["go-basics"])
	assert.Equal(t, 3, stats.AtRiskByCourse["algorithms"])
}

func TestScanAtRiskJob_PassesThresholdAndLimit(t *testing.T) {
	scanner := &fakeScanner{}

	cfg := ScanAtRiskConfig{
		CourseIDs:      []string{"go-basics"},
		Threshold:      85,
		LimitPerCourse: 100,
	}
	job := NewScanAtRiskJob(scanner, nil, cfg)

	require.NoError(t, job.Run(context.Background()))

	require.Len(t, scanner.queries, 1)
	assert.Equal(t, 85.0, scanner.queries[0].Threshold)
	assert.Equal(t, 100, scanner.queries[0].Limit)
}

func TestScanAtRiskJob_EmptyCourseListSweepsEverything(t *testing.T) {
	scanner := &fakeScanner{
		results: map[string]*predictor.ScanResult{
			"": scanResult("", 200, 15, 2),
		},
	}

	job := NewScanAtRiskJob(scanner, nil, DefaultScanAtRiskConfig())
	require.NoError(t, job.Run(context.Background()))

	require.Len(t, scanner.queries, 1)
	assert.Empty(t, scanner.queries[0].CourseID)

	stats := job.LastRunStats()
	assert.Equal(t, 200, stats.LearnersTotal)
	assert.Equal(t, 15, stats.AtRiskFound)
}

func TestScanAtRiskJob_OneCourseFailureDoesNotAbort(t *testing.T) {
	scanner := &fakeScanner{
		results: map[string]*predictor.ScanResult{
			"go-basics": scanResult("go-basics", 40, 6, 0),
		},
		errs: map[string]error{
			"algorithms": errors.New("roster unavailable"),
		},
	}

	cfg := DefaultScanAtRiskConfig()
	cfg.CourseIDs = []string{"algorithms", "go-basics"}
	job := NewScanAtRiskJob(scanner, nil, cfg)

	require.NoError(t, job.Run(context.Background()))

	stats := job.LastRunStats()
	assert.Equal(t, 1, stats.CoursesScanned)
	assert.Equal(t, 1, stats.CoursesFailed)
	assert.Len(t, stats.Errors, 1)
	assert.Equal(t, 6, stats.AtRiskFound)
}

func TestScanAtRiskJob_AllCoursesFailingReturnsError(t *testing.T) {
	scanner := &fakeScanner{
		errs: map[string]error{
			"go-basics":  errors.New("roster unavailable"),
			"algorithms": errors.New("roster unavailable"),
		},
	}

	cfg := DefaultScanAtRiskConfig()
	cfg.CourseIDs = []string{"go-basics", "algorithms"}
	job := NewScanAtRiskJob(scanner, nil, cfg)

	assert.Error(t, job.Run(context.Background()))
}

func TestScanAtRiskJob_Identity(t *testing.T) {
	job := NewScanAtRiskJob(&fakeScanner{}, nil, DefaultScanAtRiskConfig())

	assert.Equal(t, "scan_at_risk", job.Name())
	assert.NotEmpty(t, job.Description())
	assert.Nil(t, job.LastRunStats())
}
