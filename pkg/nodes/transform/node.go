// Package transform provides the data-reshaping node.
package transform

import (
	"context"
	"errors"
	"fmt"

	"github.com/nodeflow/nodeflow/pkg/execution"
	"github.com/nodeflow/nodeflow/pkg/models"
	"github.com/nodeflow/nodeflow/pkg/template"
)

const (
	InputPortMain    = "main"
	OutputPortResult = "result"
)

// TransformNode reshapes data by rendering a configured expression
// against the run state merged with the node's inputs.
type TransformNode struct {
	models.BaseNode

	expression string
}

// NewTransformNode creates a transform node from its configuration.
func NewTransformNode(id string, config map[string]any) (*TransformNode, error) {
	expression, ok := config["expression"].(string)
	if !ok || expression == "" {
		return nil, errors.New("missing required field 'expression'")
	}

	name := "Transform"
	if n, ok := config["name"].(string); ok && n != "" {
		name = n
	}

	node := &TransformNode{
		BaseNode:   models.NewBaseNode(id, name, "Reshapes data with a template expression"),
		expression: expression,
	}

	node.AddInputPort(InputPortMain, "Data to transform", false)
	node.AddOutputPort(OutputPortResult, "The transformed value")

	return node, nil
}

// Execute renders the expression. Port inputs are exposed to the
// template under "input" alongside the usual run state data.
func (n *TransformNode) Execute(ctx context.Context, inputs map[string]any, state *execution.Context) (map[string]any, error) {
	data := map[string]any{
		"variables": state.Variables(),
		"vars":      state.Variables(),
		"results":   state.Results(),
		"input":     inputs,
		"execution": map[string]any{
			"id":          state.ExecutionID,
			"workflow_id": state.WorkflowID,
		},
	}

	result, err := template.Render(n.expression, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render transform expression: %w", err)
	}

	return map[string]any{
		OutputPortResult: result,
	}, nil
}
