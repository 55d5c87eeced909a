package execution

import "time"

// EventType identifies a scheduling milestone in the execution log.
type EventType string

const (
	ExecutionStartedEvent   EventType = "execution_started"
	ExecutionCompletedEvent EventType = "execution_completed"
	ExecutionFailedEvent    EventType = "execution_failed"
	ExecutionDeadlockEvent  EventType = "execution_deadlock"
	IterationLimitEvent     EventType = "execution_limit_exceeded"
	NodeExecutingEvent      EventType = "node_executing"
	NodeCompletedEvent      EventType = "node_completed"
	NodeErrorEvent          EventType = "node_error"
	VariableSetEvent        EventType = "variable_set"
)

// Event is one append-only entry in the execution log.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	NodeID    string         `json:"node_id,omitempty"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Summary is the outcome of a run: final status, results snapshot and the
// terminal error when the run failed. Partial results recorded before a
// failure remain visible here.
type Summary struct {
	ExecutionID string                    `json:"execution_id"`
	WorkflowID  string                    `json:"workflow_id"`
	Status      Status                    `json:"status"`
	Results     map[string]map[string]any `json:"results"`
	Error       string                    `json:"error,omitempty"`
	EventCount  int                       `json:"event_count"`
}
