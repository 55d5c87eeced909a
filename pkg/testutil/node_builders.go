// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"context"

	"github.com/google/uuid"

	"github.com/nodeflow/nodeflow/pkg/execution"
	"github.com/nodeflow/nodeflow/pkg/models"
)

// ExecuteFunc is the behavior a fake node runs when dispatched.
type ExecuteFunc func(ctx context.Context, inputs map[string]any, state *execution.Context) (map[string]any, error)

// FakeNode is a configurable node implementation for scheduler and
// workflow tests. Execution order and received inputs are recorded.
type FakeNode struct {
	models.BaseNode

	execute    ExecuteFunc
	CallCount  int
	LastInputs map[string]any
}

// Execute runs the configured behavior, recording the call.
func (n *FakeNode) Execute(ctx context.Context, inputs map[string]any, state *execution.Context) (map[string]any, error) {
	n.CallCount++
	n.LastInputs = inputs

	if n.execute == nil {
		return map[string]any{"status": "completed"}, nil
	}

	return n.execute(ctx, inputs, state)
}

// CreateTestNode creates a fake node with default values that can be overridden.
func CreateTestNode(id string, overrides ...func(*FakeNode)) *FakeNode {
	if id == "" {
		id = uuid.New().String()
	}

	node := &FakeNode{
		BaseNode: models.NewBaseNode(id, "Test Node", "A node for testing"),
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithExecute sets the node execution behavior.
func WithExecute(fn ExecuteFunc) func(*FakeNode) {
	return func(n *FakeNode) {
		n.execute = fn
	}
}

// WithOutputs makes the node return fixed outputs.
func WithOutputs(outputs map[string]any) func(*FakeNode) {
	return func(n *FakeNode) {
		n.execute = func(_ context.Context, _ map[string]any, _ *execution.Context) (map[string]any, error) {
			return outputs, nil
		}
	}
}

// WithError makes the node fail with the given error.
func WithError(err error) func(*FakeNode) {
	return func(n *FakeNode) {
		n.execute = func(_ context.Context, _ map[string]any, _ *execution.Context) (map[string]any, error) {
			return nil, err
		}
	}
}

// WithInputPort declares an input port on the node.
func WithInputPort(portID string, required bool) func(*FakeNode) {
	return func(n *FakeNode) {
		n.AddInputPort(portID, "Test input", required)
	}
}

// WithOutputPort declares an output port on the node.
func WithOutputPort(portID string) func(*FakeNode) {
	return func(n *FakeNode) {
		n.AddOutputPort(portID, "Test output")
	}
}

// CreateTestDefinition creates a stored workflow definition with defaults.
func CreateTestDefinition() *models.Definition {
	return &models.Definition{
		ID:          uuid.New().String(),
		Name:        "Test Workflow",
		Description: "A workflow for testing",
		Variables:   map[string]any{"env": "test"},
		Metadata:    map[string]any{"category": "test"},
		Nodes: []*models.NodeSpec{
			{
				ID:     "task-1",
				Type:   "task",
				Name:   "Test Task",
				Config: map[string]any{"task_type": "generic"},
			},
		},
	}
}
