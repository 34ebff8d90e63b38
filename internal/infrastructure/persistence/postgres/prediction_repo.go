package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/edupulse/edupulse-backend/internal/domain/prediction"
	"github.com/edupulse/edupulse-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PREDICTION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// PredictionRepository implements prediction.Repository for PostgreSQL.
// The scalar columns exist for querying and dashboards; the full aggregate is
// kept as a JSONB payload so a stored prediction round-trips unchanged.
type PredictionRepository struct {
	conn *Connection
}

// NewPredictionRepository creates a new PredictionRepository.
func NewPredictionRepository(conn *Connection) *PredictionRepository {
	return &PredictionRepository{conn: conn}
}

// Save stores a generated prediction. Predictions are append-only: a new one
// supersedes the previous by generated_at ordering, never by update.
func (r *PredictionRepository) Save(ctx context.Context, p *prediction.Prediction) error {
	if err := p.Validate(); err != nil {
		return shared.WrapError("prediction", "Save", shared.ErrInvalidEntity, "refusing to persist invalid prediction", err)
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal prediction: %w", err)
	}

	query := `
		INSERT INTO predictions (id, student_id, course_id, risk_score, risk_level, confidence, payload, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.conn.Exec(ctx, query,
		p.ID,
		p.StudentID,
		p.CourseID,
		p.RiskScore,
		string(p.RiskLevel),
		p.Confidence,
		payload,
		p.GeneratedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.WrapError("prediction", "Save", shared.ErrAlreadyExists, "prediction already stored", err)
		}
		return shared.WrapError("prediction", "Save", shared.ErrExternalService, "insert failed", err)
	}

	return nil
}

// Latest returns the most recently generated prediction for the pair.
func (r *PredictionRepository) Latest(ctx context.Context, studentID, courseID string) (*prediction.Prediction, error) {
	query := `
		SELECT payload
		FROM predictions
		WHERE student_id = $1 AND course_id = $2
		ORDER BY generated_at DESC
		LIMIT 1
	`

	var payload []byte
	err := r.conn.QueryRow(ctx, query, studentID, courseID).Scan(&payload)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrPredictionNotFound
		}
		return nil, shared.WrapError("prediction", "Latest", shared.ErrExternalService, "query failed", err)
	}

	return unmarshalPrediction(payload)
}

// History returns up to limit predictions for the pair, newest first.
func (r *PredictionRepository) History(ctx context.Context, studentID, courseID string, limit int) ([]*prediction.Prediction, error) {
	query := `
		SELECT payload
		FROM predictions
		WHERE student_id = $1 AND course_id = $2
		ORDER BY generated_at DESC
	`
	args := []interface{}{studentID, courseID}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, shared.WrapError("prediction", "History", shared.ErrExternalService, "query failed", err)
	}
	defer rows.Close()

	var predictions []*prediction.Prediction
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan prediction row: %w", err)
		}
		p, err := unmarshalPrediction(payload)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}

	return predictions, rows.Err()
}

func unmarshalPrediction(payload []byte) (*prediction.Prediction, error) {
	var p prediction.Prediction
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prediction payload: %w", err)
	}
	return &p, nil
}
