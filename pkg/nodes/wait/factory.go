package wait

import (
	"context"

	"github.com/nodeflow/nodeflow/pkg/protocol"
)

// WaitNodeFactory creates WaitNode instances.
type WaitNodeFactory struct{}

// Create creates a new WaitNode instance.
func (f *WaitNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewWaitNode(id, config)
}

// ID returns the factory ID.
func (f *WaitNodeFactory) ID() string {
	return "wait"
}

// Name returns the factory name.
func (f *WaitNodeFactory) Name() string {
	return "Wait"
}

// Description returns the factory description.
func (f *WaitNodeFactory) Description() string {
	return "Pauses execution for a configured duration or until a named event occurs"
}

// Schema returns the JSON schema for Wait node configuration.
func (f *WaitNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "Display name for the node",
			},
			"duration": map[string]any{
				"description": "Duration to wait, either a Go duration string ('500ms', '2s') or seconds as a number",
			},
			"event": map[string]any{
				"type":        "string",
				"description": "Named event to wait for",
			},
		},
	}
}

// NewWaitNodeFactory creates a new factory instance.
func NewWaitNodeFactory() protocol.NodeFactory {
	return &WaitNodeFactory{}
}
