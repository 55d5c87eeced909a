package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeflow/nodeflow/pkg/execution"
)

func TestNewNotificationNode_RequiresMessage(t *testing.T) {
	_, err := NewNotificationNode("n1", map[string]any{})
	require.Error(t, err)

	node, err := NewNotificationNode("n1", map[string]any{"message": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Notification", node.Name())
}

func TestNotificationNode_RendersTemplatedMessage(t *testing.T) {
	node, err := NewNotificationNode("n1", map[string]any{
		"message": "order {{.vars.order_id}} shipped",
		"channel": "ops",
		"level":   "warn",
	})
	require.NoError(t, err)

	state := execution.NewContext("wf-1", "exec-1", map[string]any{"order_id": "1234"})

	outputs, err := node.Execute(context.Background(), nil, state)
	require.NoError(t, err)

	assert.Equal(t, "sent", outputs[OutputPortStatus])
	assert.Equal(t, "order 1234 shipped", outputs[OutputPortMsg])
	assert.Equal(t, "ops", outputs[OutputPortChan])
}

func TestNotificationNode_BadTemplateFails(t *testing.T) {
	node, err := NewNotificationNode("n1", map[string]any{"message": "{{.broken"})
	require.NoError(t, err)

	state := execution.NewContext("wf-1", "exec-1", nil)

	_, err = node.Execute(context.Background(), nil, state)
	require.Error(t, err)
}
