// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"encoding/json"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven architecture.
// Each event represents something significant that happened in the domain.
const (
	// Risk engine events
	EventPredictionGenerated EventType = "risk.prediction_generated"
	EventRiskAlertRaised     EventType = "risk.alert_raised"
	EventRiskScanCompleted   EventType = "risk.scan_completed"
	EventRiskLevelChanged    EventType = "risk.level_changed"

	// Analytics events
	EventRollupRecorded   EventType = "analytics.rollup_recorded"
	EventActivityRecorded EventType = "analytics.activity_recorded"

	// System events
	EventCacheEvicted EventType = "system.cache_evicted"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Risk Engine Events
// ═══════════════════════════════════════════════════════════════════════════

// RiskAlertRaisedEvent is emitted when a prediction classifies a student
// at HIGH or CRITICAL dropout risk.
type RiskAlertRaisedEvent struct {
	BaseEvent
	StudentID string  `json:"student_id"`
	CourseID  string  `json:"course_id,omitempty"`
	RiskScore float64 `json:"risk_score"`
	RiskLevel string  `json:"risk_level"`
}

// Payload implements Event interface.
func (e RiskAlertRaisedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"course_id":  e.CourseID,
		"risk_score": e.RiskScore,
		"risk_level": e.RiskLevel,
	}
}

// NewRiskAlertRaisedEvent creates a new RiskAlertRaisedEvent.
func NewRiskAlertRaisedEvent(studentID, courseID string, riskScore float64, riskLevel string) RiskAlertRaisedEvent {
	return RiskAlertRaisedEvent{
		BaseEvent: NewBaseEvent(EventRiskAlertRaised, studentID),
		StudentID: studentID,
		CourseID:  courseID,
		RiskScore: riskScore,
		RiskLevel: riskLevel,
	}
}

// PredictionGeneratedEvent is emitted whenever a fresh prediction is composed
// (cache hits do not re-emit it).
type PredictionGeneratedEvent struct {
	BaseEvent
	StudentID  string  `json:"student_id"`
	CourseID   string  `json:"course_id,omitempty"`
	RiskScore  float64 `json:"risk_score"`
	RiskLevel  string  `json:"risk_level"`
	Confidence float64 `json:"confidence"`
}

// Payload implements Event interface.
func (e PredictionGeneratedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"course_id":  e.CourseID,
		"risk_score": e.RiskScore,
		"risk_level": e.RiskLevel,
		"confidence": e.Confidence,
	}
}

// NewPredictionGeneratedEvent creates a new PredictionGeneratedEvent.
func NewPredictionGeneratedEvent(studentID, courseID string, riskScore float64, riskLevel string, confidence float64) PredictionGeneratedEvent {
	return PredictionGeneratedEvent{
		BaseEvent:  NewBaseEvent(EventPredictionGenerated, studentID),
		StudentID:  studentID,
		CourseID:   courseID,
		RiskScore:  riskScore,
		RiskLevel:  riskLevel,
		Confidence: confidence,
	}
}

// RiskScanCompletedEvent is emitted when a batch at-risk scan finishes.
type RiskScanCompletedEvent struct {
	BaseEvent
	ScanID          string        `json:"scan_id"`
	CourseID        string        `json:"course_id,omitempty"`
	StudentsScanned int           `json:"students_scanned"`
	AtRiskFound     int           `json:"at_risk_found"`
	FailedStudents  int           `json:"failed_students"`
	Duration        time.Duration `json:"duration"`
}

// Payload implements Event interface.
func (e RiskScanCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"scan_id":          e.ScanID,
		"course_id":        e.CourseID,
		"students_scanned": e.StudentsScanned,
		"at_risk_found":    e.AtRiskFound,
		"failed_students":  e.FailedStudents,
		"duration":         e.Duration.String(),
	}
}

// NewRiskScanCompletedEvent creates a new RiskScanCompletedEvent.
func NewRiskScanCompletedEvent(scanID, courseID string, scanned, atRisk, failed int, duration time.Duration) RiskScanCompletedEvent {
	return RiskScanCompletedEvent{
		BaseEvent:       NewBaseEvent(EventRiskScanCompleted, scanID),
		ScanID:          scanID,
		CourseID:        courseID,
		StudentsScanned: scanned,
		AtRiskFound:     atRisk,
		FailedStudents:  failed,
		Duration:        duration,
	}
}

// RiskLevelChangedEvent is emitted when a student's classified risk level
// differs from the previous stored prediction.
type RiskLevelChangedEvent struct {
	BaseEvent
	StudentID     string `json:"student_id"`
	CourseID      string `json:"course_id,omitempty"`
	PreviousLevel string `json:"previous_level"`
	NewLevel      string `json:"new_level"`
}

// Payload implements Event interface.
func (e RiskLevelChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":     e.StudentID,
		"course_id":      e.CourseID,
		"previous_level": e.PreviousLevel,
		"new_level":      e.NewLevel,
	}
}

// NewRiskLevelChangedEvent creates a new RiskLevelChangedEvent.
func NewRiskLevelChangedEvent(studentID, courseID, previousLevel, newLevel string) RiskLevelChangedEvent {
	return RiskLevelChangedEvent{
		BaseEvent:     NewBaseEvent(EventRiskLevelChanged, studentID),
		StudentID:     studentID,
		CourseID:      courseID,
		PreviousLevel: previousLevel,
		NewLevel:      newLevel,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	AggregateID   string          `json:"aggregate_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
