// Package protocol defines the interfaces and contracts for pluggable nodes.
package protocol

import (
	"context"

	"github.com/nodeflow/nodeflow/pkg/execution"
	"github.com/nodeflow/nodeflow/pkg/models"
)

// Node is a single unit of computation in a workflow graph. It declares
// typed input and output ports and exposes one execution capability.
// Implementations are immutable during a run and may be shared across
// concurrent runs; per-run data flows through the inputs map and the
// execution context.
type Node interface {
	// ID returns the node identifier, unique within its workflow.
	ID() string

	// Name returns the human-readable node name.
	Name() string

	// InputPorts returns the declared input ports keyed by port id.
	InputPorts() map[string]models.InputPort

	// OutputPorts returns the declared output ports keyed by port id.
	OutputPorts() map[string]models.OutputPort

	// Execute runs the node with the assembled inputs. The returned map
	// binds output port ids to values and becomes the node's recorded
	// result. A returned error aborts the whole run.
	Execute(ctx context.Context, inputs map[string]any, state *execution.Context) (map[string]any, error)
}

// NodeFactory creates node instances and provides metadata about the node
// type. A separate registry maps type tags to factories.
type NodeFactory interface {
	// Create creates a new node instance with the given configuration.
	Create(ctx context.Context, id string, config map[string]any) (Node, error)

	// ID returns the unique type tag for this node type.
	ID() string

	// Name returns the human-readable name for this node type.
	Name() string

	// Description returns a description of what this node does.
	Description() string

	// Schema returns the JSON schema for configuring this node type.
	Schema() map[string]any
}
