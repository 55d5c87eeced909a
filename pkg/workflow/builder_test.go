package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeflow/nodeflow/pkg/testutil"
)

func TestBuilder_BuildsWorkflowWithDefaults(t *testing.T) {
	node := testutil.CreateTestNode("a", testutil.WithOutputPort("value"))

	wf, err := NewBuilder("My Workflow").
		Description("does things").
		AddNode(node).
		SetVariable("env", "test").
		Build()
	require.NoError(t, err)

	assert.NotEmpty(t, wf.ID)
	assert.Equal(t, "My Workflow", wf.Name)
	assert.Equal(t, "does things", wf.Description)
	assert.Len(t, wf.Nodes, 1)
	assert.Equal(t, "test", wf.Variables["env"])
}

func TestBuilder_ExplicitIDPreserved(t *testing.T) {
	wf, err := NewBuilder("Workflow").ID("wf-42").Build()
	require.NoError(t, err)
	assert.Equal(t, "wf-42", wf.ID)
}

func TestBuilder_ConnectWiresNodes(t *testing.T) {
	wf, err := NewBuilder("Workflow").
		AddNode(testutil.CreateTestNode("a", testutil.WithOutputPort("value"))).
		AddNode(testutil.CreateTestNode("b", testutil.WithInputPort("input", false))).
		Connect("a", "value", "b", "input").
		Build()
	require.NoError(t, err)

	require.Len(t, wf.Connections, 1)
	conn := wf.Connections[0]
	assert.Equal(t, "a", conn.SourceNodeID)
	assert.Equal(t, "value", conn.SourcePortID)
	assert.Equal(t, "b", conn.TargetNodeID)
	assert.Equal(t, "input", conn.TargetPortID)
}

func TestBuilder_ConditionalRouteDefaults(t *testing.T) {
	wf, err := NewBuilder("Workflow").
		AddNode(testutil.CreateTestNode("a", testutil.WithOutputPort("result"))).
		AddNode(testutil.CreateTestNode("b", testutil.WithInputPort("input", false))).
		AddConditionalRoute("a", "result", "yes", "b", "", "").
		Build()
	require.NoError(t, err)

	require.Len(t, wf.ConditionalRoutes, 1)
	route := wf.ConditionalRoutes[0]
	assert.Equal(t, DefaultTargetPort, route.TargetPortID)
	assert.Equal(t, "result", route.DataPortID, "data port defaults to the condition port")
}

func TestBuilder_RejectsEdgesToUnknownNodes(t *testing.T) {
	_, err := NewBuilder("Workflow").
		AddNode(testutil.CreateTestNode("a", testutil.WithOutputPort("value"))).
		Connect("a", "value", "ghost", "input").
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")

	_, err = NewBuilder("Workflow").
		AddNode(testutil.CreateTestNode("a", testutil.WithOutputPort("result"))).
		AddConditionalRoute("ghost", "result", true, "a", "input", "").
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestBuilder_RejectsIncompleteConnection(t *testing.T) {
	_, err := NewBuilder("Workflow").
		AddNode(testutil.CreateTestNode("a", testutil.WithOutputPort("value"))).
		Connect("a", "", "a", "input").
		Build()
	require.Error(t, err)
}

func TestBuilder_AddNodeReplacesDuplicateID(t *testing.T) {
	first := testutil.CreateTestNode("a")
	second := testutil.CreateTestNode("a")

	wf, err := NewBuilder("Workflow").
		AddNode(first).
		AddNode(second).
		Build()
	require.NoError(t, err)

	assert.Len(t, wf.Nodes, 1)

	node, found := wf.Node("a")
	require.True(t, found)
	assert.Same(t, second, node)
}

func TestWorkflow_EdgeHelpers(t *testing.T) {
	wf, err := NewBuilder("Workflow").
		AddNode(testutil.CreateTestNode("a", testutil.WithOutputPort("value"), testutil.WithOutputPort("result"))).
		AddNode(testutil.CreateTestNode("b", testutil.WithInputPort("input", false))).
		AddNode(testutil.CreateTestNode("c", testutil.WithInputPort("input", false))).
		Connect("a", "value", "b", "input").
		AddConditionalRoute("a", "result", true, "c", "input", "").
		Build()
	require.NoError(t, err)

	assert.Len(t, wf.OutgoingConnections("a"), 1)
	assert.Len(t, wf.IncomingConnections("b"), 1)
	assert.Len(t, wf.OutgoingRoutes("a"), 1)
	assert.Len(t, wf.IncomingRoutes("c"), 1)

	assert.False(t, wf.HasIncomingEdges("a"))
	assert.True(t, wf.HasIncomingEdges("b"))
	assert.True(t, wf.HasIncomingEdges("c"))
}
