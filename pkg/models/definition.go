package models

import "time"

// NodeSpec is the stored form of a node: a type tag plus configuration.
// The registry materializes it into a live node instance.
type NodeSpec struct {
	ID     string         `json:"id"   validate:"required"`
	Type   string         `json:"type" validate:"required"`
	Name   string         `json:"name" validate:"required,min=1"`
	Config map[string]any `json:"config,omitempty"`
}

// Definition is the serializable form of a workflow: nodes as type-tagged
// specs rather than live instances. This is what the persistence layer
// stores and the parser materializes. Execution state is never persisted.
type Definition struct {
	ID                string              `json:"id"`
	Name              string              `json:"name" validate:"required,min=3"`
	Description       string              `json:"description,omitempty"`
	Nodes             []*NodeSpec         `json:"nodes"`
	Connections       []*Connection       `json:"connections,omitempty"`
	ConditionalRoutes []*ConditionalRoute `json:"conditional_routes,omitempty"`
	Variables         map[string]any      `json:"variables,omitempty"`
	Metadata          map[string]any      `json:"metadata,omitempty"`
	CreatedAt         time.Time           `json:"created_at,omitzero"`
	UpdatedAt         time.Time           `json:"updated_at,omitzero"`
}
