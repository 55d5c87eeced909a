package decision

import (
	"context"

	"github.com/nodeflow/nodeflow/pkg/protocol"
)

// DecisionNodeFactory creates DecisionNode instances.
type DecisionNodeFactory struct{}

// Create creates a new DecisionNode instance.
func (f *DecisionNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewDecisionNode(id, config)
}

// ID returns the factory ID.
func (f *DecisionNodeFactory) ID() string {
	return "decision"
}

// Name returns the factory name.
func (f *DecisionNodeFactory) Name() string {
	return "Decision"
}

// Description returns the factory description.
func (f *DecisionNodeFactory) Description() string {
	return "Maps an input value to an outcome emitted on the result port, the branching source for conditional routes"
}

// Schema returns the JSON schema for Decision node configuration.
func (f *DecisionNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "Display name for the node",
			},
			"cases": map[string]any{
				"type":        "object",
				"description": "Maps stringified input values to outcomes",
			},
			"default": map[string]any{
				"description": "Outcome when no case matches",
			},
		},
	}
}

// NewDecisionNodeFactory creates a new factory instance.
func NewDecisionNodeFactory() protocol.NodeFactory {
	return &DecisionNodeFactory{}
}
