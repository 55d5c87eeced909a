package subflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeflow/nodeflow/pkg/execution"
	"github.com/nodeflow/nodeflow/pkg/testutil"
	"github.com/nodeflow/nodeflow/pkg/workflow"
)

func TestSubflowNode_RunsChildToCompletion(t *testing.T) {
	child := testutil.CreateTestNode("child-task",
		testutil.WithInputPort("payload", true),
		testutil.WithExecute(func(_ context.Context, inputs map[string]any, _ *execution.Context) (map[string]any, error) {
			return map[string]any{"echo": inputs["payload"]}, nil
		}),
	)

	childWf, err := workflow.NewBuilder("Child").ID("child-wf").AddNode(child).Build()
	require.NoError(t, err)

	node := NewSubflowNode("sub1", "Run Child", childWf)

	state := execution.NewContext("wf-1", "exec-1", nil)

	outputs, err := node.Execute(context.Background(), map[string]any{"payload": "hello"}, state)
	require.NoError(t, err)

	assert.Equal(t, "completed", outputs[OutputPortStatus])
	assert.NotEmpty(t, outputs[OutputPortExecution])

	results, ok := outputs[OutputPortResults].(map[string]map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hello", results["child-task"]["echo"])
}

func TestSubflowNode_ChildFailurePropagates(t *testing.T) {
	child := testutil.CreateTestNode("broken",
		testutil.WithError(assert.AnError),
	)

	childWf, err := workflow.NewBuilder("Broken Child").ID("broken-wf").AddNode(child).Build()
	require.NoError(t, err)

	node := NewSubflowNode("sub1", "Run Child", childWf)

	state := execution.NewContext("wf-1", "exec-1", nil)

	_, err = node.Execute(context.Background(), nil, state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken-wf")
}
