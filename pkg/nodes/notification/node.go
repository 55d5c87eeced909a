// Package notification provides the leveled message node.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nodeflow/nodeflow/pkg/execution"
	"github.com/nodeflow/nodeflow/pkg/models"
	"github.com/nodeflow/nodeflow/pkg/template"
)

const (
	InputPortMain    = "main"
	OutputPortStatus = "status"
	OutputPortMsg    = "message"
	OutputPortChan   = "channel"
)

// NotificationNode renders a templated message and emits it on the
// process logger at the configured level, tagged with a delivery channel.
type NotificationNode struct {
	models.BaseNode

	message string
	level   string
	channel string
	logger  *slog.Logger
}

// NewNotificationNode creates a notification node from its configuration.
func NewNotificationNode(id string, config map[string]any) (*NotificationNode, error) {
	message, ok := config["message"].(string)
	if !ok || message == "" {
		return nil, errors.New("missing required field 'message'")
	}

	level := "info"
	if lvl, ok := config["level"].(string); ok && lvl != "" {
		level = lvl
	}

	channel := "log"
	if ch, ok := config["channel"].(string); ok && ch != "" {
		channel = ch
	}

	name := "Notification"
	if n, ok := config["name"].(string); ok && n != "" {
		name = n
	}

	node := &NotificationNode{
		BaseNode: models.NewBaseNode(id, name, "Sends a notification message"),
		message:  message,
		level:    level,
		channel:  channel,
		logger:   slog.Default(),
	}

	node.AddInputPort(InputPortMain, "Upstream data available to the message template", false)
	node.AddOutputPort(OutputPortStatus, "Delivery status")
	node.AddOutputPort(OutputPortMsg, "The rendered message")
	node.AddOutputPort(OutputPortChan, "The delivery channel used")

	return node, nil
}

// Execute renders and emits the message.
func (n *NotificationNode) Execute(ctx context.Context, inputs map[string]any, state *execution.Context) (map[string]any, error) {
	rendered, err := template.RenderWithState(n.message, state)
	if err != nil {
		return nil, fmt.Errorf("failed to render notification message: %w", err)
	}

	message := fmt.Sprintf("%v", rendered)
	logger := n.logger.With("node_id", n.ID(), "channel", n.channel)

	switch n.level {
	case "debug":
		logger.Debug(message)
	case "warn":
		logger.Warn(message)
	case "error":
		logger.Error(message)
	default:
		logger.Info(message)
	}

	return map[string]any{
		OutputPortStatus: "sent",
		OutputPortMsg:    message,
		OutputPortChan:   n.channel,
	}, nil
}
