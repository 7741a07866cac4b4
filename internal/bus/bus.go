// Package bus provides event bus implementations for publishing evaluation
// lifecycle events to downstream consumers (dashboards, result archives).
package bus

import (
	"context"
	"time"
)

// Handler is a function that handles events.
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for event bus implementations.
type Bus interface {
	// Publish publishes an event to a topic.
	Publish(ctx context.Context, topic string, event Event) error

	// Subscribe subscribes to events on a topic.
	Subscribe(ctx context.Context, topic string, handler Handler) error

	// Close closes the bus and releases resources.
	Close() error
}

// Event represents a bus event.
type Event struct {
	// ID is the unique event identifier.
	ID string `json:"id"`

	// Type is the event type (e.g., "eval.query.scored").
	Type string `json:"type"`

	// RunID links all events of one evaluation run.
	RunID string `json:"run_id"`

	// Timestamp is when the event was created.
	Timestamp int64 `json:"timestamp"`

	// Payload contains the event data.
	Payload any `json:"payload"`
}

// NewEvent creates an event for the current moment.
func NewEvent(eventType, runID string, payload any) Event {
	now := time.Now()
	return Event{
		ID:        runID + "-" + eventType + "-" + now.Format("150405.000000000"),
		Type:      eventType,
		RunID:     runID,
		Timestamp: now.Unix(),
		Payload:   payload,
	}
}

// Topics for evaluation lifecycle events.
const (
	TopicRunStarted   = "eval.run.started"
	TopicQueryScored  = "eval.query.scored"
	TopicQueryFailed  = "eval.query.failed"
	TopicRunCompleted = "eval.run.completed"
)
