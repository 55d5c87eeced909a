// Package events defines typed event structures for run lifecycle
// notifications published on the event bus.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic is the bus topic all execution events are published on.
const Topic = "nodeflow.executions"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ExecutionStartedEvent   EventType = "execution.started"
	ExecutionCompletedEvent EventType = "execution.completed"
	ExecutionFailedEvent    EventType = "execution.failed"
	NodeActivatedEvent      EventType = "node.activated"
	NodeFinishedEvent       EventType = "node.finished"
	NodeFailedEvent         EventType = "node.failed"
)

// BaseEvent carries the fields shared by every execution event.
type BaseEvent struct {
	ID          string         `json:"id"`
	Type        EventType      `json:"type"`
	Timestamp   time.Time      `json:"timestamp"`
	WorkflowID  string         `json:"workflow_id"`
	ExecutionID string         `json:"execution_id"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent creates a stamped base event for the given run.
func NewBaseEvent(eventType EventType, workflowID, executionID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		WorkflowID:  workflowID,
		ExecutionID: executionID,
	}
}

type ExecutionStarted struct {
	BaseEvent

	InitialData map[string]any `json:"initial_data,omitempty"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

type ExecutionCompleted struct {
	BaseEvent

	EventCount int           `json:"event_count"`
	Duration   time.Duration `json:"duration"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

type ExecutionFailed struct {
	BaseEvent

	Error    string        `json:"error"`
	Duration time.Duration `json:"duration"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}

type NodeActivated struct {
	BaseEvent

	NodeID string `json:"node_id"`
}

func (e NodeActivated) GetType() EventType {
	return NodeActivatedEvent
}

type NodeFinished struct {
	BaseEvent

	NodeID     string `json:"node_id"`
	DurationMs int64  `json:"duration_ms"`
}

func (e NodeFinished) GetType() EventType {
	return NodeFinishedEvent
}

type NodeFailed struct {
	BaseEvent

	NodeID string `json:"node_id"`
	Error  string `json:"error"`
}

func (e NodeFailed) GetType() EventType {
	return NodeFailedEvent
}
