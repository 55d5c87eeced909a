package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeflow/nodeflow/pkg/execution"
)

func TestNewTaskNode_Defaults(t *testing.T) {
	node, err := NewTaskNode("t1", map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, "t1", node.ID())
	assert.Equal(t, "generic task", node.Name())
	assert.Contains(t, node.InputPorts(), InputPortMain)
	assert.Contains(t, node.OutputPorts(), OutputPortStatus)
	assert.Contains(t, node.OutputPorts(), OutputPortResult)
	assert.Contains(t, node.OutputPorts(), OutputPortMsg)
}

func TestTaskNode_ExecuteRendersParameters(t *testing.T) {
	node, err := NewTaskNode("t1", map[string]any{
		"task_type": "report",
		"parameters": map[string]any{
			"recipient": "{{.vars.user}}",
			"retries":   3,
		},
	})
	require.NoError(t, err)

	state := execution.NewContext("wf-1", "exec-1", map[string]any{"user": "ada"})

	outputs, err := node.Execute(context.Background(), map[string]any{}, state)
	require.NoError(t, err)

	assert.Equal(t, "completed", outputs[OutputPortStatus])
	assert.Equal(t, "Executed report task", outputs[OutputPortMsg])

	result, ok := outputs[OutputPortResult].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ada", result["recipient"])
	assert.Equal(t, 3, result["retries"])
}

func TestTaskNode_ExecuteIncludesUpstreamInput(t *testing.T) {
	node, err := NewTaskNode("t1", nil)
	require.NoError(t, err)

	state := execution.NewContext("wf-1", "exec-1", nil)

	outputs, err := node.Execute(context.Background(), map[string]any{InputPortMain: "payload"}, state)
	require.NoError(t, err)

	result, ok := outputs[OutputPortResult].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "payload", result["input"])
}

func TestTaskNode_BadTemplateFails(t *testing.T) {
	node, err := NewTaskNode("t1", map[string]any{
		"parameters": map[string]any{"bad": "{{.broken"},
	})
	require.NoError(t, err)

	state := execution.NewContext("wf-1", "exec-1", nil)

	_, err = node.Execute(context.Background(), nil, state)
	require.Error(t, err)
}
