package decision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeflow/nodeflow/pkg/execution"
)

func TestDecisionNode_MatchingCase(t *testing.T) {
	node, err := NewDecisionNode("d1", map[string]any{
		"cases": map[string]any{
			"high": "escalate",
			"low":  "ignore",
		},
	})
	require.NoError(t, err)

	state := execution.NewContext("wf-1", "exec-1", nil)

	outputs, err := node.Execute(context.Background(), map[string]any{InputPortMain: "high"}, state)
	require.NoError(t, err)

	assert.Equal(t, "escalate", outputs[OutputPortResult])
	assert.Equal(t, "high", outputs[OutputPortInput])
}

func TestDecisionNode_DefaultWhenNoCaseMatches(t *testing.T) {
	node, err := NewDecisionNode("d1", map[string]any{
		"cases":   map[string]any{"high": "escalate"},
		"default": "unknown",
	})
	require.NoError(t, err)

	state := execution.NewContext("wf-1", "exec-1", nil)

	outputs, err := node.Execute(context.Background(), map[string]any{InputPortMain: "medium"}, state)
	require.NoError(t, err)

	assert.Equal(t, "unknown", outputs[OutputPortResult])
}

func TestDecisionNode_PassThroughWithoutCasesOrDefault(t *testing.T) {
	node, err := NewDecisionNode("d1", map[string]any{})
	require.NoError(t, err)

	state := execution.NewContext("wf-1", "exec-1", nil)

	outputs, err := node.Execute(context.Background(), map[string]any{InputPortMain: 42}, state)
	require.NoError(t, err)

	assert.Equal(t, 42, outputs[OutputPortResult])
}

func TestDecisionNode_FallsBackToInputDataVariable(t *testing.T) {
	node, err := NewDecisionNode("d1", map[string]any{
		"cases": map[string]any{"go": "proceed"},
	})
	require.NoError(t, err)

	state := execution.NewContext("wf-1", "exec-1", map[string]any{"input_data": "go"})

	outputs, err := node.Execute(context.Background(), map[string]any{}, state)
	require.NoError(t, err)

	assert.Equal(t, "proceed", outputs[OutputPortResult])
	assert.Equal(t, "go", outputs[OutputPortInput])
}

func TestDecisionNode_NonStringCaseKeysMatchByStringForm(t *testing.T) {
	node, err := NewDecisionNode("d1", map[string]any{
		"cases": map[string]any{"3": "three"},
	})
	require.NoError(t, err)

	state := execution.NewContext("wf-1", "exec-1", nil)

	outputs, err := node.Execute(context.Background(), map[string]any{InputPortMain: 3}, state)
	require.NoError(t, err)

	assert.Equal(t, "three", outputs[OutputPortResult])
}
