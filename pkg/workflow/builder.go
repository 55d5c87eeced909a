package workflow

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nodeflow/nodeflow/pkg/models"
	"github.com/nodeflow/nodeflow/pkg/protocol"
)

// DefaultTargetPort is the input port a conditional route binds to when
// the author leaves the target port empty.
const DefaultTargetPort = "input"

// Builder provides a fluent interface for authoring workflows.
type Builder struct {
	id          string
	name        string
	description string
	nodes       map[string]protocol.Node
	nodeOrder   []string
	connections []*models.Connection
	routes      []*models.ConditionalRoute
	variables   map[string]any
	validate    *validator.Validate
}

// NewBuilder creates a workflow builder with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:      name,
		nodes:     make(map[string]protocol.Node),
		variables: make(map[string]any),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ID sets the workflow id. When unset, Build generates one.
func (b *Builder) ID(id string) *Builder {
	b.id = id

	return b
}

// Description sets the workflow description.
func (b *Builder) Description(description string) *Builder {
	b.description = description

	return b
}

// AddNode adds a node to the workflow. Adding a node with an id already
// present replaces the earlier one.
func (b *Builder) AddNode(node protocol.Node) *Builder {
	if _, exists := b.nodes[node.ID()]; !exists {
		b.nodeOrder = append(b.nodeOrder, node.ID())
	}

	b.nodes[node.ID()] = node

	return b
}

// Connect creates an unconditional connection between two node ports.
func (b *Builder) Connect(sourceNodeID, sourcePortID, targetNodeID, targetPortID string) *Builder {
	b.connections = append(b.connections, &models.Connection{
		SourceNodeID: sourceNodeID,
		SourcePortID: sourcePortID,
		TargetNodeID: targetNodeID,
		TargetPortID: targetPortID,
	})

	return b
}

// AddConditionalRoute creates a guarded route between two nodes. An empty
// target port defaults to "input"; an empty data port defaults to the
// condition port, so the matched value itself flows to the target.
func (b *Builder) AddConditionalRoute(sourceNodeID, conditionPortID string, conditionValue any, targetNodeID, targetPortID, dataPortID string) *Builder {
	if targetPortID == "" {
		targetPortID = DefaultTargetPort
	}

	if dataPortID == "" {
		dataPortID = conditionPortID
	}

	b.routes = append(b.routes, &models.ConditionalRoute{
		SourceNodeID:    sourceNodeID,
		ConditionPortID: conditionPortID,
		ConditionValue:  conditionValue,
		TargetNodeID:    targetNodeID,
		TargetPortID:    targetPortID,
		DataPortID:      dataPortID,
	})

	return b
}

// SetVariable seeds a workflow variable available to every run.
func (b *Builder) SetVariable(name string, value any) *Builder {
	b.variables[name] = value

	return b
}

// Build validates the graph and returns the immutable workflow. Edges
// referencing nodes absent from the workflow are rejected here, at
// authoring time, rather than surfacing mid-run.
func (b *Builder) Build() (*Workflow, error) {
	id := b.id
	if id == "" {
		id = uuid.New().String()
	}

	for _, conn := range b.connections {
		if err := b.validate.Struct(conn); err != nil {
			return nil, fmt.Errorf("invalid connection: %w", err)
		}

		if _, ok := b.nodes[conn.SourceNodeID]; !ok {
			return nil, fmt.Errorf("connection references unknown source node %q", conn.SourceNodeID)
		}

		if _, ok := b.nodes[conn.TargetNodeID]; !ok {
			return nil, fmt.Errorf("connection references unknown target node %q", conn.TargetNodeID)
		}
	}

	for _, route := range b.routes {
		if err := b.validate.Struct(route); err != nil {
			return nil, fmt.Errorf("invalid conditional route: %w", err)
		}

		if _, ok := b.nodes[route.SourceNodeID]; !ok {
			return nil, fmt.Errorf("conditional route references unknown source node %q", route.SourceNodeID)
		}

		if _, ok := b.nodes[route.TargetNodeID]; !ok {
			return nil, fmt.Errorf("conditional route references unknown target node %q", route.TargetNodeID)
		}
	}

	nodes := make(map[string]protocol.Node, len(b.nodes))
	for nodeID, node := range b.nodes {
		nodes[nodeID] = node
	}

	variables := make(map[string]any, len(b.variables))
	for name, value := range b.variables {
		variables[name] = value
	}

	return &Workflow{
		ID:                id,
		Name:              b.name,
		Description:       b.description,
		Nodes:             nodes,
		Connections:       b.connections,
		ConditionalRoutes: b.routes,
		Variables:         variables,
	}, nil
}
