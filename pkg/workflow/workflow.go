// Package workflow provides the runtime workflow graph, the fluent
// authoring builder and the repository over the persistence layer.
package workflow

import (
	"github.com/nodeflow/nodeflow/pkg/models"
	"github.com/nodeflow/nodeflow/pkg/protocol"
)

// Workflow is a directed graph of nodes connected by unconditional
// connections and condition-guarded routes. It is authored once, read-only
// during runs, and may be shared across concurrent runs, each with its own
// execution context.
type Workflow struct {
	ID                string
	Name              string
	Description       string
	Nodes             map[string]protocol.Node
	Connections       []*models.Connection
	ConditionalRoutes []*models.ConditionalRoute
	Variables         map[string]any
}

// Node returns the node registered under the given id.
func (w *Workflow) Node(id string) (protocol.Node, bool) {
	node, ok := w.Nodes[id]

	return node, ok
}

// IncomingConnections returns the unconditional connections targeting the
// given node, in definition order.
func (w *Workflow) IncomingConnections(nodeID string) []*models.Connection {
	var incoming []*models.Connection

	for _, conn := range w.Connections {
		if conn.TargetNodeID == nodeID {
			incoming = append(incoming, conn)
		}
	}

	return incoming
}

// OutgoingConnections returns the unconditional connections originating at
// the given node, in definition order.
func (w *Workflow) OutgoingConnections(nodeID string) []*models.Connection {
	var outgoing []*models.Connection

	for _, conn := range w.Connections {
		if conn.SourceNodeID == nodeID {
			outgoing = append(outgoing, conn)
		}
	}

	return outgoing
}

// IncomingRoutes returns the conditional routes targeting the given node,
// in definition order.
func (w *Workflow) IncomingRoutes(nodeID string) []*models.ConditionalRoute {
	var incoming []*models.ConditionalRoute

	for _, route := range w.ConditionalRoutes {
		if route.TargetNodeID == nodeID {
			incoming = append(incoming, route)
		}
	}

	return incoming
}

// OutgoingRoutes returns the conditional routes originating at the given
// node, in definition order.
func (w *Workflow) OutgoingRoutes(nodeID string) []*models.ConditionalRoute {
	var outgoing []*models.ConditionalRoute

	for _, route := range w.ConditionalRoutes {
		if route.SourceNodeID == nodeID {
			outgoing = append(outgoing, route)
		}
	}

	return outgoing
}

// HasIncomingEdges reports whether any connection or route targets the
// node. Nodes without incoming edges are the start nodes of a run.
func (w *Workflow) HasIncomingEdges(nodeID string) bool {
	for _, conn := range w.Connections {
		if conn.TargetNodeID == nodeID {
			return true
		}
	}

	for _, route := range w.ConditionalRoutes {
		if route.TargetNodeID == nodeID {
			return true
		}
	}

	return false
}
