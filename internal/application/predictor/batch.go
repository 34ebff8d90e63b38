package predictor

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edupulse/edupulse-backend/internal/domain/prediction"
	"github.com/edupulse/edupulse-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// BATCH AT-RISK SCAN
// ══════════════════════════════════════════════════════════════════════════════

// ScanQuery parameterizes a batch at-risk scan.
type ScanQuery struct {
	// CourseID scopes the scan to one course roster; empty scans everyone.
	CourseID string

	// Threshold is the minimum risk score for a learner to appear in the
	// result. Scores at the threshold are included.
	Threshold float64

	// Limit caps how many roster entries are scanned (0 means no cap).
	Limit int
}

// Validate checks the scan parameters.
func (q *ScanQuery) Validate() error {
	if q.Threshold < 0 || q.Threshold > 100 {
		return errors.New("threshold must be within [0,100]")
	}
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	return nil
}

// AtRiskStudent is one entry in a scan result.
type AtRiskStudent struct {
	StudentID  string                 `json:"studentId"`
	RiskScore  float64                `json:"riskScore"`
	RiskLevel  prediction.RiskLevel   `json:"riskLevel"`
	Prediction *prediction.Prediction `json:"prediction"`
}

// ScanResult summarizes a completed scan. Failed learners are omitted from
// Students and only counted; each failure is logged individually.
type ScanResult struct {
	ScanID    string          `json:"scanId"`
	CourseID  string          `json:"courseId,omitempty"`
	Students  []AtRiskStudent `json:"students"`
	Scanned   int             `json:"scanned"`
	Failed    int             `json:"failed"`
	Duration  time.Duration   `json:"duration"`
	StartedAt time.Time       `json:"startedAt"`
}

// ScanAtRisk runs the single-learner prediction concurrently across the
// course roster, keeps learners scoring at or above the threshold, and sorts
// them by risk score descending. One learner's failure never aborts the scan
// of the others.
func (e *Engine) ScanAtRisk(ctx context.Context, query ScanQuery) (*ScanResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("predictor", "ScanAtRisk", shared.ErrValidation, err.Error(), err)
	}
	if e.roster == nil {
		return nil, shared.NewDomainError("predictor", "ScanAtRisk", shared.ErrInvalidState, "no roster configured")
	}

	startedAt := e.now()
	wallStart := time.Now()

	studentIDs, err := e.roster.EnrolledStudentIDs(ctx, query.CourseID, query.Limit)
	if err != nil {
		return nil, shared.WrapError("predictor", "ScanAtRisk", shared.ErrExternalService, "roster query failed", err)
	}

	result := &ScanResult{
		ScanID:    uuid.New().String(),
		CourseID:  query.CourseID,
		Students:  make([]AtRiskStudent, 0, len(studentIDs)),
		Scanned:   len(studentIDs),
		StartedAt: startedAt,
	}

	type outcome struct {
		pred *prediction.Prediction
		err  error
		id   string
	}

	outcomes := make([]outcome, len(studentIDs))
	sem := make(chan struct{}, e.config.BatchWorkers)
	var wg sync.WaitGroup

	for i, id := range studentIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			pred, err := e.Predict(ctx, PredictQuery{StudentID: id, CourseID: query.CourseID})
			outcomes[i] = outcome{pred: pred, err: err, id: id}
		}(i, id)
	}
	wg.Wait()

	for _, o := range outcomes {
		if o.err != nil {
			result.Failed++
			e.logger.Warn("scan skipped learner",
				slog.String("student_id", o.id),
				slog.String("course_id", query.CourseID),
				slog.Any("error", o.err))
			continue
		}
		if o.pred.RiskScore >= query.Threshold {
			result.Students = append(result.Students, AtRiskStudent{
				StudentID:  o.pred.StudentID,
				RiskScore:  o.pred.RiskScore,
				RiskLevel:  o.pred.RiskLevel,
				Prediction: o.pred,
			})
		}
	}

	sort.SliceStable(result.Students, func(i, j int) bool {
		return result.Students[i].RiskScore > result.Students[j].RiskScore
	})

	result.Duration = time.Since(wallStart)

	e.publish(shared.NewRiskScanCompletedEvent(
		result.ScanID, query.CourseID,
		result.Scanned, len(result.Students), result.Failed, result.Duration))

	e.logger.Info("at-risk scan completed",
		slog.String("scan_id", result.ScanID),
		slog.String("course_id", query.CourseID),
		slog.Int("scanned", result.Scanned),
		slog.Int("at_risk", len(result.Students)),
		slog.Int("failed", result.Failed),
		slog.Duration("duration", result.Duration))

	return result, nil
}
