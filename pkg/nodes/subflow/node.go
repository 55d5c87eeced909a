// Package subflow provides a node that runs a child workflow to completion.
package subflow

import (
	"context"
	"fmt"
	"maps"

	"github.com/nodeflow/nodeflow/pkg/execution"
	"github.com/nodeflow/nodeflow/pkg/models"
	"github.com/nodeflow/nodeflow/pkg/scheduler"
	"github.com/nodeflow/nodeflow/pkg/workflow"
)

const (
	InputPortMain       = "main"
	OutputPortStatus    = "status"
	OutputPortResults   = "results"
	OutputPortExecution = "execution_id"
)

// SubflowNode executes a child workflow as a single step of the parent.
// The node's inputs become the child's initial data, and the child's
// node results surface on the results output port.
type SubflowNode struct {
	models.BaseNode

	child *workflow.Workflow
	opts  []scheduler.Option
}

// NewSubflowNode creates a subflow node around a prebuilt child workflow.
// Scheduler options apply to the child run only.
func NewSubflowNode(id, name string, child *workflow.Workflow, opts ...scheduler.Option) *SubflowNode {
	node := &SubflowNode{
		BaseNode: models.NewBaseNode(id, name, "Runs a child workflow to completion"),
		child:    child,
		opts:     opts,
	}

	node.AddInputPort(InputPortMain, "Initial data passed to the child workflow", false)
	node.AddOutputPort(OutputPortStatus, "Terminal status of the child run")
	node.AddOutputPort(OutputPortResults, "Per-node results of the child run")
	node.AddOutputPort(OutputPortExecution, "Execution ID of the child run")

	return node
}

// Execute runs the child workflow and returns its summary.
func (n *SubflowNode) Execute(ctx context.Context, inputs map[string]any, state *execution.Context) (map[string]any, error) {
	initial := make(map[string]any, len(inputs))
	maps.Copy(initial, inputs)

	sched := scheduler.New(n.opts...)

	summary, err := sched.Run(ctx, n.child, initial)
	if err != nil {
		return nil, fmt.Errorf("subflow %q failed: %w", n.child.ID, err)
	}

	return map[string]any{
		OutputPortStatus:    string(summary.Status),
		OutputPortResults:   summary.Results,
		OutputPortExecution: summary.ExecutionID,
	}, nil
}
