// Package models defines the core domain models for node-based workflow execution.
package models

// Port represents a connection point on a node.
type Port struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// InputPort extends Port with input-specific properties.
type InputPort struct {
	Port

	// Required inputs must be bound before the node may execute.
	Required bool `json:"required"`
}

// OutputPort extends Port with output-specific properties.
type OutputPort struct {
	Port
}

// PortDirection represents the direction of data flow for a port.
type PortDirection string

const (
	PortDirectionInput  PortDirection = "input"
	PortDirectionOutput PortDirection = "output"
)

// GetDirection returns the direction of the port.
func (p InputPort) GetDirection() PortDirection {
	return PortDirectionInput
}

// GetDirection returns the direction of the port.
func (p OutputPort) GetDirection() PortDirection {
	return PortDirectionOutput
}
