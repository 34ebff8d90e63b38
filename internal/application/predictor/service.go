// Package predictor orchestrates dropout risk predictions: it sequences
// feature extraction, model scoring, classification, and explanation, and
// attaches caching, history, and alerting around the pure computation.
package predictor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/edupulse/edupulse-backend/internal/domain/analytics"
	"github.com/edupulse/edupulse-backend/internal/domain/prediction"
	"github.com/edupulse/edupulse-backend/internal/domain/shared"
	"github.com/edupulse/edupulse-backend/pkg/circuitbreaker"
	"github.com/edupulse/edupulse-backend/pkg/retry"
	"github.com/edupulse/edupulse-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config tunes the prediction engine.
type Config struct {
	// WindowDays is the trailing analysis window in days.
	WindowDays int

	// CacheTTL bounds how long a prediction is served from cache.
	CacheTTL time.Duration

	// QueryTimeout bounds each analytics store query. A timeout is a hard
	// failure for that learner, never a retry-forever loop.
	QueryTimeout time.Duration

	// BatchWorkers caps concurrent learner computations during a scan.
	BatchWorkers int
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		WindowDays:   60,
		CacheTTL:     time.Hour,
		QueryTimeout: 10 * time.Second,
		BatchWorkers: 8,
	}
}

func (c *Config) normalize() {
	d := DefaultConfig()
	if c.WindowDays <= 0 {
		c.WindowDays = d.WindowDays
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = d.QueryTimeout
	}
	if c.BatchWorkers <= 0 {
		c.BatchWorkers = d.BatchWorkers
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ENGINE
// ══════════════════════════════════════════════════════════════════════════════

// Engine is the prediction orchestrator. The computation core is pure; the
// engine adds the impure edges: store queries, caching, history, and events.
type Engine struct {
	store     analytics.Repository
	roster    analytics.Roster
	cache     prediction.Cache
	history   prediction.Repository
	publisher shared.EventPublisher

	models       []prediction.Model
	retrier      *retry.Retrier
	breaker      *circuitbreaker.CircuitBreaker
	cacheRetrier *retry.Retrier
	cacheBreaker *circuitbreaker.CircuitBreaker
	logger       *slog.Logger
	config       Config

	// now is injectable so tests control GeneratedAt and the window.
	now func() time.Time
}

// NewEngine wires the orchestrator. The cache, history, and publisher may be
// nil; the engine then skips the corresponding step. The analytics store is
// required.
func NewEngine(
	store analytics.Repository,
	roster analytics.Roster,
	cache prediction.Cache,
	history prediction.Repository,
	publisher shared.EventPublisher,
	config Config,
	logger *slog.Logger,
) *Engine {
	config.normalize()
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		store:        store,
		roster:       roster,
		cache:        cache,
		history:      history,
		publisher:    publisher,
		models:       prediction.Models(),
		retrier:      retry.AnalyticsRetrier(),
		cacheRetrier: retry.CacheRetrier(),
		config:       config,
		logger:       logger,
		now:          timeutil.Now,
	}
	onStateChange := func(name string, from, to circuitbreaker.State) {
		logger.Warn("circuit breaker state changed",
			slog.String("breaker", name),
			slog.String("from", from.String()),
			slog.String("to", to.String()))
	}
	e.breaker = circuitbreaker.AnalyticsStoreBreaker(onStateChange)
	e.cacheBreaker = circuitbreaker.PredictionCacheBreaker(onStateChange)
	return e
}

// WithClock overrides the engine clock.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// ══════════════════════════════════════════════════════════════════════════════
// SINGLE-LEARNER PREDICTION
// ══════════════════════════════════════════════════════════════════════════════

// PredictQuery identifies the learner to analyze.
type PredictQuery struct {
	// StudentID is the learner identifier.
	StudentID string

	// CourseID scopes the analysis to one course; empty covers everything.
	CourseID string

	// ForceRefresh bypasses the cache and recomputes.
	ForceRefresh bool
}

// Validate checks the query parameters.
func (q *PredictQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("student_id must be provided")
	}
	return nil
}

// Predict returns the dropout risk prediction for one learner. A live cache
// entry is returned as-is, so repeat calls within the TTL are idempotent. On
// a miss the full pipeline runs and the composed prediction is cached,
// persisted, and, for HIGH or CRITICAL risk, announced as an alert event.
func (e *Engine) Predict(ctx context.Context, query PredictQuery) (*prediction.Prediction, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("predictor", "Predict", shared.ErrValidation, err.Error(), err)
	}

	key := prediction.CacheKey(query.StudentID, query.CourseID)

	if !query.ForceRefresh {
		if cached := e.cacheGet(ctx, key); cached != nil {
			return cached, nil
		}
	}

	window := timeutil.TrailingWindow(e.now(), e.config.WindowDays)

	records, err := e.fetchRecords(ctx, query.StudentID, query.CourseID, window)
	if err != nil {
		return nil, err
	}

	pred, err := e.compute(query.StudentID, query.CourseID, records, window)
	if err != nil {
		return nil, err
	}

	e.attachHistory(ctx, pred)

	// Persist and cache only a fully composed prediction.
	e.persist(ctx, key, pred)
	e.announce(pred)

	return pred, nil
}

// learnerRecords bundles the three record streams for one learner.
type learnerRecords struct {
	activities []*analytics.ActivityEvent
	sessions   []*analytics.SessionRecord
	rollups    []*analytics.DailyRollup
}

// fetchRecords loads the learner's record streams with the query timeout,
// retry, and breaker applied. Empty streams are not an error; a failed or
// timed-out query is, for this learner only.
func (e *Engine) fetchRecords(ctx context.Context, studentID, courseID string, window timeutil.Window) (*learnerRecords, error) {
	var records learnerRecords

	// A timed-out query is a hard failure for this learner; everything else
	// gets the bounded retry policy.
	classify := func(err error) error {
		if errors.Is(err, context.DeadlineExceeded) {
			return retry.Permanent(err)
		}
		return retry.Retryable(err)
	}

	err := e.breaker.Execute(ctx, func(ctx context.Context) error {
		return e.retrier.Do(ctx, func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, e.config.QueryTimeout)
			defer cancel()

			var err error
			if records.activities, err = e.store.ActivitiesInWindow(ctx, studentID, courseID, window); err != nil {
				return classify(err)
			}
			if records.sessions, err = e.store.SessionsInWindow(ctx, studentID, courseID, window); err != nil {
				return classify(err)
			}
			if records.rollups, err = e.store.RollupsInWindow(ctx, studentID, courseID, window); err != nil {
				return classify(err)
			}
			return nil
		})
	})
	if err != nil {
		kind := shared.ErrUpstreamQuery
		if errors.Is(err, context.DeadlineExceeded) {
			kind = shared.ErrUpstreamTimeout
		}
		return nil, shared.WrapError("predictor", "Predict", kind, "analytics query failed", err)
	}

	return &records, nil
}

// compute runs the pure pipeline: extract, score, combine, classify, explain,
// project, recommend, compose.
func (e *Engine) compute(studentID, courseID string, records *learnerRecords, window timeutil.Window) (*prediction.Prediction, error) {
	fv := prediction.ExtractFeatures(records.activities, records.sessions, records.rollups, window)

	result := prediction.Combine(e.models, fv)
	level := prediction.ClassifyRisk(result.Score)
	factors, protective, indicators := prediction.AnalyzeFactors(fv)
	confidence := prediction.ComputeConfidence(fv, result.Agreement)

	now := e.now()
	pred := &prediction.Prediction{
		ID:          uuid.New().String(),
		StudentID:   studentID,
		CourseID:    courseID,
		RiskScore:   result.Score,
		RiskLevel:   level,
		Factors:     factors,
		Protective:  protective,
		Indicators:  indicators,
		Recommended: prediction.GenerateRecommendations(result.Score, factors),
		Confidence:  confidence,
		Timeline:    prediction.ProjectTimeline(result.Score, fv, now),
		GeneratedAt: now,
	}

	if err := pred.Validate(); err != nil {
		// A derived value outside its range is a logic defect, not learner data.
		return nil, shared.WrapError("predictor", "Predict", shared.ErrInternal, "composed prediction is invalid", err)
	}
	return pred, nil
}

// attachHistory compares the fresh score against the latest stored prediction
// and emits a level-change event when the learner moved between tiers. Having
// no prior prediction is the normal first-run case.
func (e *Engine) attachHistory(ctx context.Context, pred *prediction.Prediction) {
	if e.history == nil {
		return
	}

	previous, err := e.history.Latest(ctx, pred.StudentID, pred.CourseID)
	if err != nil {
		if !shared.IsNotFound(err) {
			e.logger.Warn("history lookup failed",
				slog.String("student_id", pred.StudentID),
				slog.Any("error", err))
		}
		return
	}

	pred.Historical = prediction.CompareScores(previous.RiskScore, previous.GeneratedAt, pred.RiskScore)

	if previous.RiskLevel != pred.RiskLevel {
		e.publish(shared.NewRiskLevelChangedEvent(
			pred.StudentID, pred.CourseID,
			string(previous.RiskLevel), string(pred.RiskLevel)))
	}
}

// persist saves the prediction to history and the cache. Both are best-effort:
// the computed prediction is returned to the caller either way.
func (e *Engine) persist(ctx context.Context, key string, pred *prediction.Prediction) {
	if e.history != nil {
		if err := e.history.Save(ctx, pred); err != nil {
			e.logger.Warn("prediction history save failed",
				slog.String("student_id", pred.StudentID),
				slog.Any("error", err))
		}
	}

	if e.cache != nil {
		if err := e.cacheDo(ctx, func(ctx context.Context) error {
			return e.cache.Set(ctx, key, pred, e.config.CacheTTL)
		}); err != nil {
			e.logger.Warn("prediction cache store failed",
				slog.String("key", key),
				slog.Any("error", err))
		}
	}
}

// announce publishes the generation event, plus an alert for HIGH and
// CRITICAL risk levels.
func (e *Engine) announce(pred *prediction.Prediction) {
	e.publish(shared.NewPredictionGeneratedEvent(
		pred.StudentID, pred.CourseID,
		pred.RiskScore, string(pred.RiskLevel), pred.Confidence))

	if pred.RiskLevel.RequiresAlert() {
		e.publish(shared.NewRiskAlertRaisedEvent(
			pred.StudentID, pred.CourseID,
			pred.RiskScore, string(pred.RiskLevel)))
	}
}

func (e *Engine) publish(event shared.Event) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(event); err != nil {
		e.logger.Warn("event publish failed",
			slog.String("event_type", string(event.EventType())),
			slog.Any("error", err))
	}
}

// cacheDo runs one cache operation behind the cache retrier and breaker. The
// cache is an optimization, so the breaker sheds a degraded cache instead of
// letting it slow every prediction.
func (e *Engine) cacheDo(ctx context.Context, op func(ctx context.Context) error) error {
	return e.cacheBreaker.Execute(ctx, func(ctx context.Context) error {
		return e.cacheRetrier.Do(ctx, func(ctx context.Context) error {
			return retry.Retryable(op(ctx))
		})
	})
}

// cacheGet reads the cache, treating every failure as a miss.
func (e *Engine) cacheGet(ctx context.Context, key string) *prediction.Prediction {
	if e.cache == nil {
		return nil
	}

	var cached *prediction.Prediction
	err := e.cacheBreaker.Execute(ctx, func(ctx context.Context) error {
		return e.cacheRetrier.Do(ctx, func(ctx context.Context) error {
			p, err := e.cache.Get(ctx, key)
			if err != nil {
				// A miss is a healthy answer, not a cache failure.
				if errors.Is(err, prediction.ErrCacheMiss) {
					return nil
				}
				return retry.Retryable(err)
			}
			cached = p
			return nil
		})
	})
	if err != nil {
		e.logger.Warn("prediction cache read failed",
			slog.String("key", key),
			slog.Any("error", err))
		return nil
	}
	return cached
}

// InvalidatePrediction drops the cached prediction for a learner so the next
// call recomputes, used when fresh activity arrives mid-TTL.
func (e *Engine) InvalidatePrediction(ctx context.Context, studentID, courseID string) error {
	if e.cache == nil {
		return nil
	}

	key := prediction.CacheKey(studentID, courseID)
	if err := e.cacheDo(ctx, func(ctx context.Context) error {
		return e.cache.Delete(ctx, key)
	}); err != nil {
		return shared.WrapError("predictor", "InvalidatePrediction", shared.ErrExternalService, "cache delete failed", err)
	}
	return nil
}
