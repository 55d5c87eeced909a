// Package execution holds the per-run execution state consumed and mutated
// by the scheduler: pending/completed node sets, node results, shared
// variables, status and the append-only event log.
package execution

import "time"

// Status represents the lifecycle state of a single run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Context stores state and data during a single workflow run. It is owned
// exclusively by that run: the scheduler mutates it, node capabilities may
// read and write variables through it. Access is serialized by the
// single-threaded run loop, so no locking is required.
type Context struct {
	WorkflowID  string
	ExecutionID string
	Status      Status
	Error       string

	variables    map[string]any
	nodeResults  map[string]map[string]any
	nodeErrors   map[string]string
	completed    map[string]struct{}
	pending      map[string]struct{}
	pendingOrder []string
	events       []Event
}

// NewContext creates a fresh execution context seeded with the initial data
// as variables.
func NewContext(workflowID, executionID string, initialData map[string]any) *Context {
	variables := make(map[string]any, len(initialData))
	for k, v := range initialData {
		variables[k] = v
	}

	return &Context{
		WorkflowID:  workflowID,
		ExecutionID: executionID,
		Status:      StatusRunning,
		variables:   variables,
		nodeResults: make(map[string]map[string]any),
		nodeErrors:  make(map[string]string),
		completed:   make(map[string]struct{}),
		pending:     make(map[string]struct{}),
	}
}

// Variable returns a named variable and whether it was set.
func (c *Context) Variable(name string) (any, bool) {
	value, ok := c.variables[name]

	return value, ok
}

// SetVariable sets a named variable and records a variable_set event.
// Variables are the shared mutable scratch space visible to every node
// capability invoked during the run.
func (c *Context) SetVariable(name string, value any) {
	c.variables[name] = value
	c.AddEvent(Event{
		Type:     VariableSetEvent,
		Metadata: map[string]any{"variable_name": name},
	})
}

// Variables returns the variable map. Callers must not retain it across
// node executions.
func (c *Context) Variables() map[string]any {
	return c.variables
}

// NodeResult returns the full output map recorded for a node. The second
// return reports whether any result has been recorded.
func (c *Context) NodeResult(nodeID string) (map[string]any, bool) {
	result, ok := c.nodeResults[nodeID]

	return result, ok
}

// PortValue returns the value recorded at a single output port of a node.
// Absent ports (or nodes without results) report ok=false.
func (c *Context) PortValue(nodeID, portID string) (any, bool) {
	result, ok := c.nodeResults[nodeID]
	if !ok {
		return nil, false
	}

	value, ok := result[portID]
	if !ok || value == nil {
		return nil, false
	}

	return value, true
}

// SetNodeResult records the full output map of a node and appends a
// node_completed event.
func (c *Context) SetNodeResult(nodeID string, outputs map[string]any) {
	c.nodeResults[nodeID] = outputs
	c.AddEvent(Event{
		Type:   NodeCompletedEvent,
		NodeID: nodeID,
	})
}

// Results returns a snapshot of all recorded node results.
func (c *Context) Results() map[string]map[string]any {
	snapshot := make(map[string]map[string]any, len(c.nodeResults))
	for nodeID, outputs := range c.nodeResults {
		snapshot[nodeID] = outputs
	}

	return snapshot
}

// SetNodeError records an error against a node and appends a node_error
// event.
func (c *Context) SetNodeError(nodeID, message string) {
	c.nodeErrors[nodeID] = message
	c.AddEvent(Event{
		Type:   NodeErrorEvent,
		NodeID: nodeID,
		Error:  message,
	})
}

// NodeError returns the error recorded against a node, if any.
func (c *Context) NodeError(nodeID string) (string, bool) {
	message, ok := c.nodeErrors[nodeID]

	return message, ok
}

// MarkNodePending adds a node to the pending set, preserving insertion
// order for deterministic selection. Already-completed and already-pending
// nodes are left untouched.
func (c *Context) MarkNodePending(nodeID string) {
	if _, done := c.completed[nodeID]; done {
		return
	}

	if _, queued := c.pending[nodeID]; queued {
		return
	}

	c.pending[nodeID] = struct{}{}
	c.pendingOrder = append(c.pendingOrder, nodeID)
}

// MarkNodeComplete moves a node from pending to completed. Re-marking an
// already-completed node is a no-op, not an error.
func (c *Context) MarkNodeComplete(nodeID string) {
	c.completed[nodeID] = struct{}{}

	if _, queued := c.pending[nodeID]; !queued {
		return
	}

	delete(c.pending, nodeID)

	for i, id := range c.pendingOrder {
		if id == nodeID {
			c.pendingOrder = append(c.pendingOrder[:i], c.pendingOrder[i+1:]...)

			break
		}
	}
}

// IsCompleted reports whether a node has completed.
func (c *Context) IsCompleted(nodeID string) bool {
	_, done := c.completed[nodeID]

	return done
}

// IsPending reports whether a node is in the pending set.
func (c *Context) IsPending(nodeID string) bool {
	_, queued := c.pending[nodeID]

	return queued
}

// PendingNodes returns the pending node ids in insertion order.
func (c *Context) PendingNodes() []string {
	snapshot := make([]string, len(c.pendingOrder))
	copy(snapshot, c.pendingOrder)

	return snapshot
}

// PendingCount returns the size of the pending set.
func (c *Context) PendingCount() int {
	return len(c.pending)
}

// CompletedNodes returns the completed node ids (unordered).
func (c *Context) CompletedNodes() []string {
	ids := make([]string, 0, len(c.completed))
	for id := range c.completed {
		ids = append(ids, id)
	}

	return ids
}

// AddEvent appends an event to the execution log, stamping the current
// time when the event carries none.
func (c *Context) AddEvent(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	c.events = append(c.events, event)
}

// Events returns the full execution log in chronological order.
func (c *Context) Events() []Event {
	return c.events
}

// Summary builds the run summary handed back to the caller.
func (c *Context) Summary() *Summary {
	return &Summary{
		ExecutionID: c.ExecutionID,
		WorkflowID:  c.WorkflowID,
		Status:      c.Status,
		Results:     c.Results(),
		Error:       c.Error,
		EventCount:  len(c.events),
	}
}
