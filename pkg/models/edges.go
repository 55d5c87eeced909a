package models

// Connection is an unconditional data-flow edge between two node ports.
// It also implies a hard execution-order dependency of the target on the
// source.
type Connection struct {
	SourceNodeID string `json:"source_node_id" validate:"required"`
	SourcePortID string `json:"source_port_id" validate:"required"`
	TargetNodeID string `json:"target_node_id" validate:"required"`
	TargetPortID string `json:"target_port_id" validate:"required"`
}

// ConditionalRoute is a guarded edge. It propagates data and activates its
// target only when the value recorded at the source's condition port equals
// ConditionValue. Like a Connection it counts as a hard dependency on the
// source node regardless of whether the guard ends up matching.
type ConditionalRoute struct {
	SourceNodeID    string `json:"source_node_id"    validate:"required"`
	ConditionPortID string `json:"condition_port_id" validate:"required"`
	ConditionValue  any    `json:"condition_value"`
	TargetNodeID    string `json:"target_node_id"    validate:"required"`
	TargetPortID    string `json:"target_port_id"`
	DataPortID      string `json:"data_port_id"`
}
