package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/edupulse/edupulse-backend/internal/domain/analytics"
	"github.com/edupulse/edupulse-backend/internal/domain/shared"
	"github.com/edupulse/edupulse-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ANALYTICS REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AnalyticsRepository implements analytics.Repository for PostgreSQL. All
// window queries return rows in ascending time order; an empty window yields
// an empty slice, not an error.
type AnalyticsRepository struct {
	conn *Connection
}

var _ analytics.Repository = (*AnalyticsRepository)(nil)

// NewAnalyticsRepository creates a new AnalyticsRepository.
func NewAnalyticsRepository(conn *Connection) *AnalyticsRepository {
	return &AnalyticsRepository{conn: conn}
}

// ActivitiesInWindow returns the learner's activity events inside the window.
func (r *AnalyticsRepository) ActivitiesInWindow(ctx context.Context, studentID, courseID string, window timeutil.Window) ([]*analytics.ActivityEvent, error) {
	query := `
		SELECT id, student_id, course_id, activity_type, occurred_at,
		       duration_secs, score, difficulty, deadline, submitted_at
		FROM activity_events
		WHERE student_id = $1
		  AND occurred_at >= $2 AND occurred_at < $3
		  AND ($4 = '' OR course_id = $4)
		ORDER BY occurred_at ASC
	`

	rows, err := r.conn.Query(ctx, query, studentID, window.From, window.To, courseID)
	if err != nil {
		return nil, shared.WrapError("analytics", "ActivitiesInWindow", shared.ErrExternalService, "query failed", err)
	}
	defer rows.Close()

	var events []*analytics.ActivityEvent
	for rows.Next() {
		var (
			e            analytics.ActivityEvent
			activityType string
			durationSecs int64
		)
		err := rows.Scan(
			&e.ID,
			&e.StudentID,
			&e.CourseID,
			&activityType,
			&e.Timestamp,
			&durationSecs,
			&e.Score,
			&e.Difficulty,
			&e.Deadline,
			&e.SubmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity event: %w", err)
		}
		e.Type = analytics.ActivityType(activityType)
		e.Duration = time.Duration(durationSecs) * time.Second
		events = append(events, &e)
	}

	return events, rows.Err()
}

// SessionsInWindow returns the learner's sessions started inside the window.
func (r *AnalyticsRepository) SessionsInWindow(ctx context.Context, studentID, courseID string, window timeutil.Window) ([]*analytics.SessionRecord, error) {
	// Sessions are not course-scoped: a learner studies in one sitting.
	_ = courseID

	query := `
		SELECT id, student_id, started_at, duration_secs
		FROM session_records
		WHERE student_id = $1
		  AND started_at >= $2 AND started_at < $3
		ORDER BY started_at ASC
	`

	rows, err := r.conn.Query(ctx, query, studentID, window.From, window.To)
	if err != nil {
		return nil, shared.WrapError("analytics", "SessionsInWindow", shared.ErrExternalService, "query failed", err)
	}
	defer rows.Close()

	var sessions []*analytics.SessionRecord
	for rows.Next() {
		var (
			s            analytics.SessionRecord
			durationSecs int64
		)
		if err := rows.Scan(&s.ID, &s.StudentID, &s.StartedAt, &durationSecs); err != nil {
			return nil, fmt.Errorf("failed to scan session record: %w", err)
		}
		s.Duration = time.Duration(durationSecs) * time.Second
		sessions = append(sessions, &s)
	}

	return sessions, rows.Err()
}

// RollupsInWindow returns the learner's daily analytics rollups inside the window.
func (r *AnalyticsRepository) RollupsInWindow(ctx context.Context, studentID, courseID string, window timeutil.Window) ([]*analytics.DailyRollup, error) {
	query := `
		SELECT student_id, course_id, day, engagement_score,
		       avg_quiz_score, time_spent_secs, activity_count
		FROM daily_analytics
		WHERE student_id = $1
		  AND day >= $2::date AND day < $3::date
		  AND ($4 = '' OR course_id = $4)
		ORDER BY day ASC
	`

	rows, err := r.conn.Query(ctx, query, studentID, window.From, window.To, courseID)
	if err != nil {
		return nil, shared.WrapError("analytics", "RollupsInWindow", shared.ErrExternalService, "query failed", err)
	}
	defer rows.Close()

	var rollups []*analytics.DailyRollup
	for rows.Next() {
		var (
			d             analytics.DailyRollup
			timeSpentSecs int64
		)
		err := rows.Scan(
			&d.StudentID,
			&d.CourseID,
			&d.Date,
			&d.EngagementScore,
			&d.AverageQuizScore,
			&timeSpentSecs,
			&d.ActivityCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily rollup: %w", err)
		}
		d.TotalTimeSpent = time.Duration(timeSpentSecs) * time.Second
		rollups = append(rollups, &d)
	}

	return rollups, rows.Err()
}

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// RosterRepository implements analytics.Roster over the enrollments table.
type RosterRepository struct {
	conn *Connection
}

var _ analytics.Roster = (*RosterRepository)(nil)

// NewRosterRepository creates a new RosterRepository.
func NewRosterRepository(conn *Connection) *RosterRepository {
	return &RosterRepository{conn: conn}
}

// EnrolledStudentIDs returns active learner IDs, optionally scoped to one
// course; limit 0 means no cap.
func (r *RosterRepository) EnrolledStudentIDs(ctx context.Context, courseID string, limit int) ([]string, error) {
	query := `
		SELECT DISTINCT student_id
		FROM enrollments
		WHERE active
		  AND ($1 = '' OR course_id = $1)
		ORDER BY student_id
	`
	args := []interface{}{courseID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, shared.WrapError("analytics", "EnrolledStudentIDs", shared.ErrExternalService, "query failed", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan student id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
