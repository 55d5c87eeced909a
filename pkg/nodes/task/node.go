// Package task provides the generic task node: it renders its configured
// parameters against the run state and reports completion.
package task

import (
	"context"
	"fmt"

	"github.com/nodeflow/nodeflow/pkg/execution"
	"github.com/nodeflow/nodeflow/pkg/models"
	"github.com/nodeflow/nodeflow/pkg/template"
)

const (
	InputPortMain    = "main"
	OutputPortStatus = "status"
	OutputPortResult = "result"
	OutputPortMsg    = "message"
)

// TaskNode represents a unit of work identified by a task type, with
// templated parameters resolved at execution time.
type TaskNode struct {
	models.BaseNode

	taskType   string
	parameters map[string]any
}

// NewTaskNode creates a task node from its configuration.
func NewTaskNode(id string, config map[string]any) (*TaskNode, error) {
	taskType := "generic"
	if t, ok := config["task_type"].(string); ok && t != "" {
		taskType = t
	}

	parameters, _ := config["parameters"].(map[string]any)

	name := taskType + " task"
	if n, ok := config["name"].(string); ok && n != "" {
		name = n
	}

	node := &TaskNode{
		BaseNode:   models.NewBaseNode(id, name, "Performs a "+taskType+" task"),
		taskType:   taskType,
		parameters: parameters,
	}

	node.AddInputPort(InputPortMain, "Upstream data triggering the task", false)
	node.AddOutputPort(OutputPortStatus, "Task completion status")
	node.AddOutputPort(OutputPortResult, "Rendered task parameters")
	node.AddOutputPort(OutputPortMsg, "Human-readable completion message")

	return node, nil
}

// Execute renders the configured parameters and reports completion.
func (n *TaskNode) Execute(ctx context.Context, inputs map[string]any, state *execution.Context) (map[string]any, error) {
	rendered, err := template.RenderMap(n.parameters, state)
	if err != nil {
		return nil, fmt.Errorf("failed to render task parameters: %w", err)
	}

	result := make(map[string]any, len(rendered)+1)
	for key, value := range rendered {
		result[key] = value
	}

	if upstream, ok := inputs[InputPortMain]; ok {
		result["input"] = upstream
	}

	return map[string]any{
		OutputPortStatus: "completed",
		OutputPortResult: result,
		OutputPortMsg:    fmt.Sprintf("Executed %s task", n.taskType),
	}, nil
}
