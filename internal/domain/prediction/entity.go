// Package prediction implements the dropout-risk predictive engine:
// feature extraction, the four-model scoring ensemble, risk classification,
// factor analysis, intervention recommendations, and timeline projection.
// This is a pure domain layer with zero external dependencies.
package prediction

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors for prediction package.
var (
	ErrInvalidStudentID = errors.New("prediction: invalid student ID")
	ErrScoreOutOfRange  = errors.New("prediction: risk score out of range")
	ErrEmptyPrediction  = errors.New("prediction: prediction cannot be nil")
	ErrCacheMiss        = errors.New("prediction: cache miss")
)

// ═══════════════════════════════════════════════════════════════════════════
// Risk Level
// ═══════════════════════════════════════════════════════════════════════════

// RiskLevel is the ordinal classification of dropout risk.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Ordinal returns the rank of the level, LOW being 0.
func (l RiskLevel) Ordinal() int {
	switch l {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	default:
		return -1
	}
}

// IsValid checks if the level is one of the four known values.
func (l RiskLevel) IsValid() bool {
	return l.Ordinal() >= 0
}

// RequiresAlert reports whether predictions at this level raise an alert.
func (l RiskLevel) RequiresAlert() bool {
	return l == RiskHigh || l == RiskCritical
}

// String returns the string representation.
func (l RiskLevel) String() string {
	return string(l)
}

// ═══════════════════════════════════════════════════════════════════════════
// Factors
// ═══════════════════════════════════════════════════════════════════════════

// Severity grades how serious a risk factor is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// FactorCategory groups factors for the recommendation rules.
type FactorCategory string

const (
	CategoryEngagement  FactorCategory = "engagement"
	CategoryPerformance FactorCategory = "performance"
	CategoryAttendance  FactorCategory = "attendance"
	CategorySocial      FactorCategory = "social"
	CategoryBehavior    FactorCategory = "behavior"
)

// RiskFactor is a human-readable contributor to dropout risk.
type RiskFactor struct {
	Name        string         `json:"name"`
	Category    FactorCategory `json:"category"`
	Weight      float64        `json:"weight"` // 0-1, higher is worse
	Severity    Severity       `json:"severity"`
	Description string         `json:"description"`
}

// ProtectiveFactor is an observed behavior that reduces dropout risk.
type ProtectiveFactor struct {
	Name        string         `json:"name"`
	Category    FactorCategory `json:"category"`
	Strength    float64        `json:"strength"` // 0-1, higher is better
	Description string         `json:"description"`
}

// Indicator is a headline feature value surfaced alongside the prediction
// so advisors can see the raw numbers behind the score.
type Indicator struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// ═══════════════════════════════════════════════════════════════════════════
// Recommendations
// ═══════════════════════════════════════════════════════════════════════════

// RecommendationType describes the intervention time frame.
type RecommendationType string

const (
	RecommendationImmediate RecommendationType = "immediate"
	RecommendationShortTerm RecommendationType = "short-term"
	RecommendationLongTerm  RecommendationType = "long-term"
)

// Priority orders recommendations for advisors.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the sort rank of the priority, high first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Recommendation is a prioritized intervention action.
type Recommendation struct {
	Type           RecommendationType `json:"type"`
	Priority       Priority           `json:"priority"`
	Action         string             `json:"action"`
	Description    string             `json:"description"`
	ExpectedImpact float64            `json:"expectedImpact"` // 0-100
}

// ═══════════════════════════════════════════════════════════════════════════
// Timeline
// ═══════════════════════════════════════════════════════════════════════════

// TimelineProjection extrapolates the risk score over fixed future horizons.
// Each projected value is clamped into [0,100].
type TimelineProjection struct {
	RiskIn30Days float64 `json:"riskIncrease30Days"`
	RiskIn60Days float64 `json:"riskIncrease60Days"`
	RiskIn90Days float64 `json:"riskIncrease90Days"`

	// CriticalPoint is the date of the first horizon whose projection
	// reaches the critical threshold, nil when no horizon does.
	CriticalPoint *time.Time `json:"criticalPoint,omitempty"`
}

// ═══════════════════════════════════════════════════════════════════════════
// Historical Comparison
// ═══════════════════════════════════════════════════════════════════════════

// TrendDirection labels how the risk score moved since the last prediction.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendWorsening TrendDirection = "worsening"
)

// HistoricalComparison relates the fresh risk score to the previously
// stored prediction for the same student/course pair.
type HistoricalComparison struct {
	PreviousScore float64        `json:"previousScore"`
	PreviousAt    time.Time      `json:"previousAt"`
	ScoreDelta    float64        `json:"scoreDelta"`
	Trend         TrendDirection `json:"trend"`
}

// CompareScores builds a comparison between a previous and current score.
// Deltas inside a ±5 point band count as stable.
func CompareScores(previous float64, previousAt time.Time, current float64) *HistoricalComparison {
	delta := current - previous
	trend := TrendStable
	switch {
	case delta > 5:
		trend = TrendWorsening
	case delta < -5:
		trend = TrendImproving
	}
	return &HistoricalComparison{
		PreviousScore: previous,
		PreviousAt:    previousAt,
		ScoreDelta:    delta,
		Trend:         trend,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Prediction Aggregate
// ═══════════════════════════════════════════════════════════════════════════

// Prediction is the aggregate root composed by the orchestrator.
// It is immutable after creation: a fresh invocation after cache expiry
// supersedes it rather than updating it.
type Prediction struct {
	ID          string                `json:"id"`
	StudentID   string                `json:"studentId"`
	CourseID    string                `json:"courseId,omitempty"`
	RiskScore   float64               `json:"riskScore"`
	RiskLevel   RiskLevel             `json:"riskLevel"`
	Factors     []RiskFactor          `json:"factors"`
	Protective  []ProtectiveFactor    `json:"protectiveFactors"`
	Indicators  []Indicator           `json:"indicators"`
	Recommended []Recommendation      `json:"recommendations"`
	Confidence  float64               `json:"confidence"` // 0-100, capped below 100
	Timeline    TimelineProjection    `json:"timeline"`
	Historical  *HistoricalComparison `json:"historicalComparison,omitempty"`
	GeneratedAt time.Time             `json:"generatedAt"`
}

// Validate checks the aggregate's documented invariants.
func (p *Prediction) Validate() error {
	if p == nil {
		return ErrEmptyPrediction
	}
	if p.StudentID == "" {
		return ErrInvalidStudentID
	}
	if p.RiskScore < 0 || p.RiskScore > 100 {
		return fmt.Errorf("%w: %.2f", ErrScoreOutOfRange, p.RiskScore)
	}
	if !p.RiskLevel.IsValid() {
		return fmt.Errorf("prediction: invalid risk level %q", p.RiskLevel)
	}
	if p.Confidence < 0 || p.Confidence >= 100 {
		return fmt.Errorf("prediction: confidence %.2f out of [0,100)", p.Confidence)
	}
	return nil
}

// CacheKey returns the cache key for a student/course pair.
func CacheKey(studentID, courseID string) string {
	if courseID == "" {
		return "prediction:" + studentID
	}
	return "prediction:" + studentID + ":" + courseID
}
