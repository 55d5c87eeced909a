package transform

import (
	"context"

	"github.com/nodeflow/nodeflow/pkg/protocol"
)

// TransformNodeFactory creates TransformNode instances.
type TransformNodeFactory struct{}

// Create creates a new TransformNode instance.
func (f *TransformNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewTransformNode(id, config)
}

// ID returns the factory ID.
func (f *TransformNodeFactory) ID() string {
	return "transform"
}

// Name returns the factory name.
func (f *TransformNodeFactory) Name() string {
	return "Transform"
}

// Description returns the factory description.
func (f *TransformNodeFactory) Description() string {
	return "Reshapes data by rendering a template expression against the run state"
}

// Schema returns the JSON schema for Transform node configuration.
func (f *TransformNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"expression": map[string]any{
				"type":        "string",
				"description": "Template expression producing the transformed value. Port inputs are available under .input.",
			},
			"name": map[string]any{
				"type":        "string",
				"description": "Display name for the node",
			},
		},
		"required": []string{"expression"},
	}
}

// NewTransformNodeFactory creates a new factory instance.
func NewTransformNodeFactory() protocol.NodeFactory {
	return &TransformNodeFactory{}
}
