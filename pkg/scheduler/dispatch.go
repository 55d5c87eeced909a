package scheduler

import (
	"context"
	"log/slog"
	"reflect"
	"sort"
	"time"

	"github.com/nodeflow/nodeflow/pkg/events"
	"github.com/nodeflow/nodeflow/pkg/execution"
	"github.com/nodeflow/nodeflow/pkg/models"
	"github.com/nodeflow/nodeflow/pkg/otelhelper"
	"github.com/nodeflow/nodeflow/pkg/protocol"
	"github.com/nodeflow/nodeflow/pkg/workflow"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// startNodes returns the ids of nodes targeted by no connection and no
// conditional route, in the workflow's node order. A workflow whose nodes
// all have incoming edges yields no start nodes; the run then completes
// without executing anything, which is a defined outcome.
func (s *Scheduler) startNodes(wf *workflow.Workflow) []string {
	targets := make(map[string]struct{})

	for _, conn := range wf.Connections {
		targets[conn.TargetNodeID] = struct{}{}
	}

	for _, route := range wf.ConditionalRoutes {
		targets[route.TargetNodeID] = struct{}{}
	}

	starts := make([]string, 0, len(wf.Nodes))

	for nodeID := range wf.Nodes {
		if _, targeted := targets[nodeID]; !targeted {
			starts = append(starts, nodeID)
		}
	}

	// Map iteration order is not stable; keep start activation reproducible.
	sort.Strings(starts)

	return starts
}

// selectReady returns the first ready node from the pending set in
// insertion order. Selection order among simultaneously-ready nodes is not
// semantically significant, but an explicit FIFO keeps runs reproducible.
func (s *Scheduler) selectReady(wf *workflow.Workflow, state *execution.Context) (string, bool) {
	for _, nodeID := range state.PendingNodes() {
		if s.isReady(wf, state, nodeID) {
			return nodeID, true
		}
	}

	return "", false
}

// isReady reports whether every node feeding into nodeID has completed.
// Conditional routes count as hard dependencies regardless of whether
// their guard will match; the guard only governs activation and data.
func (s *Scheduler) isReady(wf *workflow.Workflow, state *execution.Context, nodeID string) bool {
	for _, conn := range wf.IncomingConnections(nodeID) {
		if !state.IsCompleted(conn.SourceNodeID) {
			return false
		}
	}

	for _, route := range wf.IncomingRoutes(nodeID) {
		if !state.IsCompleted(route.SourceNodeID) {
			return false
		}
	}

	return true
}

// routeSatisfied reports whether the value recorded at the route's
// condition port equals its condition value. A source without a recorded
// result is treated as not satisfied.
func (s *Scheduler) routeSatisfied(route *models.ConditionalRoute, state *execution.Context) bool {
	if !state.IsCompleted(route.SourceNodeID) {
		return false
	}

	value, ok := state.PortValue(route.SourceNodeID, route.ConditionPortID)
	if !ok {
		return false
	}

	return conditionMatches(value, route.ConditionValue)
}

// dispatch executes one node: assemble and validate inputs, invoke the
// capability, record outputs, activate successors. Any failure is recorded
// into the state before being returned.
func (s *Scheduler) dispatch(ctx context.Context, wf *workflow.Workflow, state *execution.Context, nodeID string, logger *slog.Logger) error {
	node, found := wf.Node(nodeID)
	if !found {
		err := &UnknownNodeError{NodeID: nodeID, WorkflowID: wf.ID}
		state.SetNodeError(nodeID, err.Error())
		state.MarkNodeComplete(nodeID)

		return err
	}

	// A completed node can't re-enter the pending set, but stay safe if it
	// ever does: drop it without re-executing.
	if state.IsCompleted(nodeID) {
		state.MarkNodeComplete(nodeID)

		return nil
	}

	state.AddEvent(execution.Event{
		Type:   execution.NodeExecutingEvent,
		NodeID: nodeID,
	})
	s.publish(ctx, logger, events.NodeActivated{
		BaseEvent: events.NewBaseEvent(events.NodeActivatedEvent, wf.ID, state.ExecutionID),
		NodeID:    nodeID,
	})
	logger.Info("Executing node", "node_id", nodeID, "node_name", node.Name())

	inputs := s.assembleInputs(wf, state, node)

	if missing := missingRequiredInputs(node, inputs); len(missing) > 0 {
		err := &MissingInputsError{NodeID: nodeID, NodeName: node.Name(), Ports: missing}
		state.SetNodeError(nodeID, err.Error())
		state.MarkNodeComplete(nodeID)

		return err
	}

	execCtx := ctx

	var span trace.Span
	if s.tracer != nil {
		execCtx, span = s.tracer.Start(ctx, "node.execute", trace.WithAttributes(
			attribute.String(otelhelper.NodeIDKey, nodeID),
			attribute.String(otelhelper.NodeNameKey, node.Name()),
			attribute.String(otelhelper.ExecutionIDKey, state.ExecutionID),
		))
	}

	startedAt := time.Now()
	outputs, err := node.Execute(execCtx, inputs, state)

	if err != nil {
		if span != nil {
			otelhelper.SetError(span, err)
			span.End()
		}

		state.SetNodeError(nodeID, err.Error())
		state.MarkNodeComplete(nodeID)
		s.publish(ctx, logger, events.NodeFailed{
			BaseEvent: events.NewBaseEvent(events.NodeFailedEvent, wf.ID, state.ExecutionID),
			NodeID:    nodeID,
			Error:     err.Error(),
		})

		return &NodeExecutionError{NodeID: nodeID, Err: err}
	}

	if span != nil {
		span.End()
	}

	state.SetNodeResult(nodeID, outputs)
	state.MarkNodeComplete(nodeID)
	s.publish(ctx, logger, events.NodeFinished{
		BaseEvent:  events.NewBaseEvent(events.NodeFinishedEvent, wf.ID, state.ExecutionID),
		NodeID:     nodeID,
		DurationMs: time.Since(startedAt).Milliseconds(),
	})

	for _, nextID := range s.nextNodes(wf, state, nodeID) {
		if !state.IsCompleted(nextID) {
			state.MarkNodePending(nextID)
		}
	}

	return nil
}

// assembleInputs builds the input map for a node. Binding order:
// unconditional connections, then satisfied conditional routes, then (for
// start nodes only) same-named execution variables. The first writer to a
// target port wins; absent and nil source values never bind.
func (s *Scheduler) assembleInputs(wf *workflow.Workflow, state *execution.Context, node protocol.Node) map[string]any {
	inputs := make(map[string]any)

	for _, conn := range wf.IncomingConnections(node.ID()) {
		if _, bound := inputs[conn.TargetPortID]; bound {
			continue
		}

		if value, ok := state.PortValue(conn.SourceNodeID, conn.SourcePortID); ok {
			inputs[conn.TargetPortID] = value
		}
	}

	for _, route := range wf.IncomingRoutes(node.ID()) {
		if _, bound := inputs[route.TargetPortID]; bound {
			continue
		}

		if !s.routeSatisfied(route, state) {
			continue
		}

		if value, ok := state.PortValue(route.SourceNodeID, route.DataPortID); ok {
			inputs[route.TargetPortID] = value
		}
	}

	if !wf.HasIncomingEdges(node.ID()) {
		for portID := range node.InputPorts() {
			if _, bound := inputs[portID]; bound {
				continue
			}

			if value, ok := state.Variable(portID); ok {
				inputs[portID] = value
			}
		}
	}

	return inputs
}

// missingRequiredInputs collects every declared required input port left
// unbound, so validation reports them all in one batched error.
func missingRequiredInputs(node protocol.Node, inputs map[string]any) []string {
	var missing []string

	for portID, port := range node.InputPorts() {
		if !port.Required {
			continue
		}

		if _, bound := inputs[portID]; !bound {
			missing = append(missing, portID)
		}
	}

	sort.Strings(missing)

	return missing
}

// nextNodes computes the successors of a just-completed node. A node with
// outgoing conditional routes activates only the targets of satisfied
// routes; its unconditional outgoing connections then carry data but never
// drive activation. A node with no routes activates every connection
// target.
func (s *Scheduler) nextNodes(wf *workflow.Workflow, state *execution.Context, nodeID string) []string {
	routes := wf.OutgoingRoutes(nodeID)

	if len(routes) > 0 {
		var next []string

		for _, route := range routes {
			if s.routeSatisfied(route, state) {
				next = append(next, route.TargetNodeID)
			}
		}

		return next
	}

	var next []string

	for _, conn := range wf.OutgoingConnections(nodeID) {
		next = append(next, conn.TargetNodeID)
	}

	return next
}

// conditionMatches compares a recorded port value against a route's
// condition value. Numeric values compare by magnitude across int/float
// representations, since JSON-decoded definitions carry float64 while node
// outputs often carry native ints.
func conditionMatches(value, expected any) bool {
	if reflect.DeepEqual(value, expected) {
		return true
	}

	valueFloat, valueOK := toFloat(value)
	expectedFloat, expectedOK := toFloat(expected)

	return valueOK && expectedOK && valueFloat == expectedFloat
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

