package analytics

import (
	"context"

	"github.com/edupulse/edupulse-backend/pkg/timeutil"
)

// Repository provides read access to the learner record streams.
// All queries are pre-scoped by student, optional course, and time window;
// implementations must return empty slices (not errors) when no records
// exist in the window.
type Repository interface {
	// ActivitiesInWindow returns the student's activity events inside the window,
	// ordered by timestamp ascending. courseID may be empty for all courses.
	ActivitiesInWindow(ctx context.Context, studentID, courseID string, window timeutil.Window) ([]*ActivityEvent, error)

	// SessionsInWindow returns the student's sessions started inside the window,
	// ordered by start time ascending. courseID may be empty for all courses;
	// implementations that track sessions platform-wide may ignore it.
	SessionsInWindow(ctx context.Context, studentID, courseID string, window timeutil.Window) ([]*SessionRecord, error)

	// RollupsInWindow returns the student's daily rollups inside the window,
	// ordered by date ascending. courseID may be empty for all courses.
	RollupsInWindow(ctx context.Context, studentID, courseID string, window timeutil.Window) ([]*DailyRollup, error)
}

// Roster lists candidate learners for batch risk scans.
type Roster interface {
	// EnrolledStudentIDs returns the IDs of students enrolled in the course,
	// or all enrolled students when courseID is empty. A limit of 0 means
	// no limit.
	EnrolledStudentIDs(ctx context.Context, courseID string, limit int) ([]string, error)
}
