package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeProject EntityType = "project"
	EntityTypeTask    EntityType = "task"
	EntityTypeExpense EntityType = "expense"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "expense.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "expense"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ProjectCreated creates a project.created event
func ProjectCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeProject, payload)
}

// ProjectUpdated creates a project.updated event
func ProjectUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeProject, payload)
}

// ProjectDeleted creates a project.deleted event
func ProjectDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeProject, payload)
}

// TaskCreated creates a task.created event
func TaskCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTask, payload)
}

// TaskUpdated creates a task.updated event
func TaskUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTask, payload)
}

// TaskDeleted creates a task.deleted event
func TaskDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTask, payload)
}

// ExpenseCreated creates an expense.created event
func ExpenseCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeExpense, payload)
}

// ExpenseUpdated creates an expense.updated event
func ExpenseUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeExpense, payload)
}

// ExpenseDeleted creates an expense.deleted event
func ExpenseDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeExpense, payload)
}
