package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_VariablesSeededAndSettable(t *testing.T) {
	state := NewContext("wf-1", "exec-1", map[string]any{"env": "test"})

	value, ok := state.Variable("env")
	require.True(t, ok)
	assert.Equal(t, "test", value)

	state.SetVariable("count", 3)

	value, ok = state.Variable("count")
	require.True(t, ok)
	assert.Equal(t, 3, value)

	_, ok = state.Variable("missing")
	assert.False(t, ok)
}

func TestContext_PortValueAbsentAndNil(t *testing.T) {
	state := NewContext("wf-1", "exec-1", nil)

	_, ok := state.PortValue("node", "port")
	assert.False(t, ok)

	state.SetNodeResult("node", map[string]any{"port": "value", "empty": nil})

	value, ok := state.PortValue("node", "port")
	require.True(t, ok)
	assert.Equal(t, "value", value)

	// A nil output never binds downstream.
	_, ok = state.PortValue("node", "empty")
	assert.False(t, ok)

	_, ok = state.PortValue("node", "absent")
	assert.False(t, ok)
}

func TestContext_PendingOrderIsFIFO(t *testing.T) {
	state := NewContext("wf-1", "exec-1", nil)

	state.MarkNodePending("b")
	state.MarkNodePending("a")
	state.MarkNodePending("c")
	state.MarkNodePending("a") // duplicate, keeps original position

	assert.Equal(t, []string{"b", "a", "c"}, state.PendingNodes())
	assert.Equal(t, 3, state.PendingCount())
}

func TestContext_MarkNodeCompleteRemovesFromPending(t *testing.T) {
	state := NewContext("wf-1", "exec-1", nil)

	state.MarkNodePending("a")
	state.MarkNodePending("b")
	state.MarkNodeComplete("a")

	assert.True(t, state.IsCompleted("a"))
	assert.False(t, state.IsPending("a"))
	assert.Equal(t, []string{"b"}, state.PendingNodes())

	// Completed nodes never re-enter the pending set.
	state.MarkNodePending("a")
	assert.False(t, state.IsPending("a"))

	// Idempotent.
	state.MarkNodeComplete("a")
	assert.Equal(t, []string{"a"}, state.CompletedNodes())
}

func TestContext_SetNodeResultAppendsEvent(t *testing.T) {
	state := NewContext("wf-1", "exec-1", nil)

	state.SetNodeResult("node", map[string]any{"status": "ok"})

	events := state.Events()
	require.Len(t, events, 1)
	assert.Equal(t, NodeCompletedEvent, events[0].Type)
	assert.Equal(t, "node", events[0].NodeID)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestContext_ResultsSnapshotIsIndependent(t *testing.T) {
	state := NewContext("wf-1", "exec-1", nil)
	state.SetNodeResult("node", map[string]any{"status": "ok"})

	snapshot := state.Results()
	snapshot["other"] = map[string]any{}

	_, ok := state.NodeResult("other")
	assert.False(t, ok)
}

func TestContext_NodeErrors(t *testing.T) {
	state := NewContext("wf-1", "exec-1", nil)

	_, ok := state.NodeError("node")
	assert.False(t, ok)

	state.SetNodeError("node", "something broke")

	msg, ok := state.NodeError("node")
	require.True(t, ok)
	assert.Equal(t, "something broke", msg)

	events := state.Events()
	require.Len(t, events, 1)
	assert.Equal(t, NodeErrorEvent, events[0].Type)
}

func TestContext_Summary(t *testing.T) {
	state := NewContext("wf-1", "exec-1", nil)
	state.SetNodeResult("node", map[string]any{"status": "ok"})
	state.Status = StatusCompleted

	summary := state.Summary()
	assert.Equal(t, "wf-1", summary.WorkflowID)
	assert.Equal(t, "exec-1", summary.ExecutionID)
	assert.Equal(t, StatusCompleted, summary.Status)
	assert.Equal(t, "ok", summary.Results["node"]["status"])
	assert.Equal(t, 1, summary.EventCount)
}
