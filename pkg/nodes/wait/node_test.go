package wait

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeflow/nodeflow/pkg/execution"
)

func TestNewWaitNode_RequiresDurationOrEvent(t *testing.T) {
	_, err := NewWaitNode("w1", map[string]any{})
	require.Error(t, err)

	_, err = NewWaitNode("w1", map[string]any{"duration": "10ms"})
	require.NoError(t, err)

	_, err = NewWaitNode("w1", map[string]any{"event": "approval"})
	require.NoError(t, err)
}

func TestNewWaitNode_DurationForms(t *testing.T) {
	_, err := NewWaitNode("w1", map[string]any{"duration": "bogus"})
	require.Error(t, err)

	_, err = NewWaitNode("w1", map[string]any{"duration": true})
	require.Error(t, err)

	// Bare numbers are seconds.
	node, err := NewWaitNode("w1", map[string]any{"duration": 0.01})
	require.NoError(t, err)

	state := execution.NewContext("wf-1", "exec-1", nil)
	start := time.Now()

	outputs, err := node.Execute(context.Background(), nil, state)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Equal(t, "completed", outputs[OutputPortStatus])
}

func TestWaitNode_CancelledContextStopsWait(t *testing.T) {
	node, err := NewWaitNode("w1", map[string]any{"duration": "10s"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	state := execution.NewContext("wf-1", "exec-1", nil)

	_, err = node.Execute(ctx, nil, state)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitNode_EventReportsWaiting(t *testing.T) {
	node, err := NewWaitNode("w1", map[string]any{"event": "approval"})
	require.NoError(t, err)

	state := execution.NewContext("wf-1", "exec-1", nil)

	outputs, err := node.Execute(context.Background(), nil, state)
	require.NoError(t, err)

	assert.Equal(t, "waiting", outputs[OutputPortStatus])
	assert.Equal(t, "Waiting for event: approval", outputs[OutputPortMsg])
}
