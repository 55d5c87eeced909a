package task

import (
	"context"

	"github.com/nodeflow/nodeflow/pkg/protocol"
)

// TaskNodeFactory creates TaskNode instances.
type TaskNodeFactory struct{}

// Create creates a new TaskNode instance.
func (f *TaskNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewTaskNode(id, config)
}

// ID returns the factory ID.
func (f *TaskNodeFactory) ID() string {
	return "task"
}

// Name returns the factory name.
func (f *TaskNodeFactory) Name() string {
	return "Task"
}

// Description returns the factory description.
func (f *TaskNodeFactory) Description() string {
	return "Performs a typed unit of work with templated parameters resolved against the run state"
}

// Schema returns the JSON schema for Task node configuration.
func (f *TaskNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"task_type": map[string]any{
				"type":        "string",
				"description": "Kind of task being performed",
				"default":     "generic",
			},
			"name": map[string]any{
				"type":        "string",
				"description": "Display name for the node",
			},
			"parameters": map[string]any{
				"type":        "object",
				"description": "Task parameters. String values support templating with run state data.",
			},
		},
	}
}

// NewTaskNodeFactory creates a new factory instance.
func NewTaskNodeFactory() protocol.NodeFactory {
	return &TaskNodeFactory{}
}
