// Package jobs contains implementations of scheduled jobs for the EduPulse
// analytics backend.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/edupulse/edupulse-backend/internal/application/predictor"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCAN AT-RISK JOB
// ══════════════════════════════════════════════════════════════════════════════

// RiskScanner runs a batch at-risk scan. Implemented by predictor.Engine.
type RiskScanner interface {
	ScanAtRisk(ctx context.Context, query predictor.ScanQuery) (*predictor.ScanResult, error)
}

// ScanAtRiskJob periodically sweeps course rosters and recomputes dropout-risk
// predictions, so advisers see overnight deterioration without anyone opening
// a dashboard. Alerts for HIGH and CRITICAL learners are raised by the engine
// as a side effect of each prediction.
type ScanAtRiskJob struct {
	// Dependencies
	scanner RiskScanner
	logger  *slog.Logger

	// Configuration
	config ScanAtRiskConfig

	// State
	lastRunStats atomic.Value // *ScanAtRiskStats
}

// ScanAtRiskConfig contains configuration for the at-risk scan job.
type ScanAtRiskConfig struct {
	// CourseIDs lists the courses to sweep. An empty list runs a single
	// scan across all active enrollments.
	CourseIDs []string

	// Threshold is the minimum risk score for a learner to be counted
	// at risk.
	Threshold float64

	// LimitPerCourse caps how many roster entries are scanned per course
	// (0 means no cap).
	LimitPerCourse int

	// Timeout is the maximum duration for the whole job.
	Timeout time.Duration
}

// DefaultScanAtRiskConfig returns sensible defaults.
func DefaultScanAtRiskConfig() ScanAtRiskConfig {
	return ScanAtRiskConfig{
		Threshold: 70,
		Timeout:   10 * time.Minute,
	}
}

// ScanAtRiskStats contains statistics from a scan run.
type ScanAtRiskStats struct {
	StartedAt      time.Time
	CompletedAt    time.Time
	Duration       time.Duration
	CoursesScanned int
	CoursesFailed  int
	LearnersTotal  int
	LearnersFailed int
	AtRiskFound    int
	AtRiskByCourse map[string]int
	Errors         []error
}

// NewScanAtRiskJob creates a new at-risk scan job.
func NewScanAtRiskJob(scanner RiskScanner, logger *slog.Logger, config ScanAtRiskConfig) *ScanAtRiskJob {
	if logger == nil {
		logger = slog.Default()
	}

	return &ScanAtRiskJob{
		scanner: scanner,
		logger:  logger,
		config:  config,
	}
}

// Name returns the job name.
func (j *ScanAtRiskJob) Name() string {
	return "scan_at_risk"
}

// Description returns a human-readable description.
func (j *ScanAtRiskJob) Description() string {
	return "Sweeps course rosters and recomputes dropout-risk predictions"
}

// Run executes the scan job.
func (j *ScanAtRiskJob) Run(ctx context.Context) error {
	startedAt := time.Now()
	stats := &ScanAtRiskStats{
		StartedAt:      startedAt,
		AtRiskByCourse: make(map[string]int),
		Errors:         make([]error, 0),
	}

	j.logger.Info("starting scan_at_risk job", "courses", len(j.config.CourseIDs))

	// Apply timeout
	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	// An empty course list means one roster-wide sweep.
	courses := j.config.CourseIDs
	if len(courses) == 0 {
		courses = []string{""}
	}

	for _, courseID := range courses {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := j.scanCourse(ctx, courseID, stats); err != nil {
			stats.CoursesFailed++
			stats.Errors = append(stats.Errors, err)
			j.logger.Error("course scan failed",
				"course_id", courseID,
				"error", err,
			)
		}
	}

	// Finalize stats
	stats.CompletedAt = time.Now()
	stats.Duration = stats.CompletedAt.Sub(startedAt)
	j.lastRunStats.Store(stats)

	j.logger.Info("scan_at_risk job completed",
		"duration", stats.Duration.String(),
		"courses_scanned", stats.CoursesScanned,
		"learners_total", stats.LearnersTotal,
		"at_risk_found", stats.AtRiskFound,
		"learners_failed", stats.LearnersFailed,
	)

	if stats.CoursesFailed == len(courses) {
		return fmt.Errorf("all %d course scans failed: %w", len(courses), stats.Errors[0])
	}

	return nil
}

// scanCourse runs one batch scan and folds its result into the stats.
func (j *ScanAtRiskJob) scanCourse(ctx context.Context, courseID string, stats *ScanAtRiskStats) error {
	result, err := j.scanner.ScanAtRisk(ctx, predictor.ScanQuery{
		CourseID:  courseID,
		Threshold: j.config.Threshold,
		Limit:     j.config.LimitPerCourse,
	})
	if err != nil {
		return err
	}

	stats.CoursesScanned++
	stats.LearnersTotal += result.Scanned
	stats.LearnersFailed += result.Failed
	stats.AtRiskFound += len(result.Students)
	stats.AtRiskByCourse[courseID] = len(result.Students)

	return nil
}

// LastRunStats returns statistics from the last scan run.
func (j *ScanAtRiskJob) LastRunStats() *ScanAtRiskStats {
	stats := j.lastRunStats.Load()
	if stats == nil {
		return nil
	}
	return stats.(*ScanAtRiskStats)
}
