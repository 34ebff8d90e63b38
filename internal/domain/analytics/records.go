// Package analytics contains domain entities for the learner-activity record
// streams consumed by the risk-prediction engine: activity events, working
// sessions, and daily engagement rollups.
// This is a pure domain layer with zero external dependencies.
package analytics

import (
	"errors"
	"time"
)

// Domain errors for analytics package.
var (
	ErrInvalidStudentID  = errors.New("analytics: invalid student ID")
	ErrInvalidTimestamp  = errors.New("analytics: invalid timestamp")
	ErrNegativeDuration  = errors.New("analytics: duration cannot be negative")
	ErrScoreOutOfRange   = errors.New("analytics: score must be within [0,100]")
	ErrUnknownActivity   = errors.New("analytics: unknown activity type")
	ErrInvalidRollupDate = errors.New("analytics: invalid rollup date")
)

// ActivityType classifies a learner activity event.
type ActivityType string

const (
	ActivityLesson     ActivityType = "lesson"
	ActivityQuiz       ActivityType = "quiz"
	ActivityAssignment ActivityType = "assignment"
	ActivityDiscussion ActivityType = "discussion"
	ActivityChat       ActivityType = "chat"
	ActivityForum      ActivityType = "forum"
	ActivityHelp       ActivityType = "help_request"
	ActivityResource   ActivityType = "resource"
)

// IsValid checks if the activity type is one of the known values.
func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityLesson, ActivityQuiz, ActivityAssignment, ActivityDiscussion,
		ActivityChat, ActivityForum, ActivityHelp, ActivityResource:
		return true
	}
	return false
}

// IsSocial reports whether the activity is a peer-interaction activity
// (discussion, chat, forum).
func (t ActivityType) IsSocial() bool {
	return t == ActivityDiscussion || t == ActivityChat || t == ActivityForum
}

// IsHelpSeeking reports whether the activity is a help-seeking activity.
func (t ActivityType) IsHelpSeeking() bool {
	return t == ActivityHelp
}

// IsAssessed reports whether the activity type can carry a score.
func (t ActivityType) IsAssessed() bool {
	return t == ActivityQuiz || t == ActivityAssignment
}

// ActivityEvent is a single learner action recorded by the platform.
// Optional fields are pointers: absence of data is distinct from zero.
type ActivityEvent struct {
	ID        string
	StudentID string
	CourseID  string
	Type      ActivityType
	Timestamp time.Time
	Duration  time.Duration

	// Score is the assessment score in [0,100] for quiz/assignment events.
	Score *float64

	// Difficulty is the 1-5 difficulty tag, when the content is tagged.
	Difficulty *int

	// Deadline and SubmittedAt are set for deadline-bound activities.
	Deadline    *time.Time
	SubmittedAt *time.Time

	Metadata map[string]string
}

// NewActivityEvent creates a validated activity event.
func NewActivityEvent(id, studentID string, activityType ActivityType, ts time.Time) (*ActivityEvent, error) {
	if studentID == "" {
		return nil, ErrInvalidStudentID
	}
	if !activityType.IsValid() {
		return nil, ErrUnknownActivity
	}
	if ts.IsZero() {
		return nil, ErrInvalidTimestamp
	}
	return &ActivityEvent{
		ID:        id,
		StudentID: studentID,
		Type:      activityType,
		Timestamp: ts,
	}, nil
}

// WithScore attaches an assessment score.
func (e *ActivityEvent) WithScore(score float64) error {
	if score < 0 || score > 100 {
		return ErrScoreOutOfRange
	}
	e.Score = &score
	return nil
}

// HasDeadline reports whether the event is deadline-bound.
func (e *ActivityEvent) HasDeadline() bool {
	return e.Deadline != nil
}

// MissedDeadline reports whether a deadline-bound event was submitted late.
// Events with a deadline but no submission count as missed.
func (e *ActivityEvent) MissedDeadline() bool {
	if e.Deadline == nil {
		return false
	}
	if e.SubmittedAt == nil {
		return true
	}
	return e.SubmittedAt.After(*e.Deadline)
}

// SessionRecord is one working session of a learner.
type SessionRecord struct {
	ID        string
	StudentID string
	StartedAt time.Time
	Duration  time.Duration
}

// NewSessionRecord creates a validated session record.
func NewSessionRecord(id, studentID string, startedAt time.Time, duration time.Duration) (*SessionRecord, error) {
	if studentID == "" {
		return nil, ErrInvalidStudentID
	}
	if startedAt.IsZero() {
		return nil, ErrInvalidTimestamp
	}
	if duration < 0 {
		return nil, ErrNegativeDuration
	}
	return &SessionRecord{
		ID:        id,
		StudentID: studentID,
		StartedAt: startedAt,
		Duration:  duration,
	}, nil
}

// EndedAt returns when the session ended.
func (s *SessionRecord) EndedAt() time.Time {
	return s.StartedAt.Add(s.Duration)
}

// DailyRollup is the per-day aggregate the analytics pipeline materializes
// for each learner. Engagement score is a platform-computed 0-100 composite.
type DailyRollup struct {
	StudentID       string
	CourseID        string
	Date            time.Time
	EngagementScore float64

	// AverageQuizScore is nil on days without assessed activity.
	AverageQuizScore *float64

	TotalTimeSpent time.Duration
	ActivityCount  int
}

// NewDailyRollup creates a validated daily rollup.
func NewDailyRollup(studentID string, date time.Time, engagement float64) (*DailyRollup, error) {
	if studentID == "" {
		return nil, ErrInvalidStudentID
	}
	if date.IsZero() {
		return nil, ErrInvalidRollupDate
	}
	if engagement < 0 || engagement > 100 {
		return nil, ErrScoreOutOfRange
	}
	return &DailyRollup{
		StudentID:       studentID,
		Date:            date,
		EngagementScore: engagement,
	}, nil
}
