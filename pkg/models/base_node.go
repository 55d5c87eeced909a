package models

// BaseNode provides the declarative half of a workflow node: identity plus
// the input and output port declarations. Node implementations embed it and
// add their Execute capability.
type BaseNode struct {
	id          string
	name        string
	description string
	inputPorts  map[string]InputPort
	outputPorts map[string]OutputPort
}

// NewBaseNode creates the shared node base with empty port declarations.
func NewBaseNode(id, name, description string) BaseNode {
	return BaseNode{
		id:          id,
		name:        name,
		description: description,
		inputPorts:  make(map[string]InputPort),
		outputPorts: make(map[string]OutputPort),
	}
}

// ID returns the node identifier, unique within a workflow.
func (n *BaseNode) ID() string {
	return n.id
}

// Name returns the human-readable node name.
func (n *BaseNode) Name() string {
	return n.name
}

// Description returns the node description.
func (n *BaseNode) Description() string {
	return n.description
}

// AddInputPort declares an input port. Returns the base for chaining.
func (n *BaseNode) AddInputPort(id, description string, required bool) *BaseNode {
	n.inputPorts[id] = InputPort{
		Port:     Port{Name: id, Description: description},
		Required: required,
	}

	return n
}

// AddOutputPort declares an output port. Returns the base for chaining.
func (n *BaseNode) AddOutputPort(id, description string) *BaseNode {
	n.outputPorts[id] = OutputPort{
		Port: Port{Name: id, Description: description},
	}

	return n
}

// InputPorts returns the declared input ports keyed by port id.
func (n *BaseNode) InputPorts() map[string]InputPort {
	return n.inputPorts
}

// OutputPorts returns the declared output ports keyed by port id.
func (n *BaseNode) OutputPorts() map[string]OutputPort {
	return n.outputPorts
}
