package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Topic carries every student lifecycle event.
const Topic = "student-registry.events"

// Event types published by the registry.
const (
	TypeStudentCreated = "student.created"
	TypeStudentUpdated = "student.updated"
	TypeStudentDeleted = "student.deleted"
)

// Source identifies this service in event envelopes.
const Source = "student-registry"

// Event is the envelope for all published events.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// StudentEvent is the payload for student lifecycle events.
type StudentEvent struct {
	StudentID  string `json:"student_id"`
	Name       string `json:"name,omitempty"`
	RollNumber int    `json:"roll_number,omitempty"`
	Department string `json:"department,omitempty"`
}

// NewEvent builds an envelope with a fresh ID and the service source.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    Source,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes lifecycle events. Publishing is fire-and-forget
// from the caller's perspective: implementations must not block requests on
// delivery.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
