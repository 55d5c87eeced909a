package notification

import (
	"context"

	"github.com/nodeflow/nodeflow/pkg/protocol"
)

// NotificationNodeFactory creates NotificationNode instances.
type NotificationNodeFactory struct{}

// Create creates a new NotificationNode instance.
func (f *NotificationNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewNotificationNode(id, config)
}

// ID returns the factory ID.
func (f *NotificationNodeFactory) ID() string {
	return "notification"
}

// Name returns the factory name.
func (f *NotificationNodeFactory) Name() string {
	return "Notification"
}

// Description returns the factory description.
func (f *NotificationNodeFactory) Description() string {
	return "Emits a templated message at a configurable level on a delivery channel"
}

// Schema returns the JSON schema for Notification node configuration.
func (f *NotificationNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "Message to send. Supports templating with run state data.",
			},
			"level": map[string]any{
				"type":        "string",
				"description": "Severity of the message",
				"enum":        []string{"debug", "info", "warn", "error"},
				"default":     "info",
			},
			"channel": map[string]any{
				"type":        "string",
				"description": "Logical delivery channel recorded with the message",
				"default":     "log",
			},
			"name": map[string]any{
				"type":        "string",
				"description": "Display name for the node",
			},
		},
		"required": []string{"message"},
	}
}

// NewNotificationNodeFactory creates a new factory instance.
func NewNotificationNodeFactory() protocol.NodeFactory {
	return &NotificationNodeFactory{}
}
