// Package parser loads workflow definitions from JSON documents and
// materializes them into runnable workflows.
package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/nodeflow/nodeflow/pkg/models"
	"github.com/nodeflow/nodeflow/pkg/registry"
	"github.com/nodeflow/nodeflow/pkg/workflow"
)

// definitionSchema is the JSON schema every workflow document must satisfy
// before it is decoded.
const definitionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "nodes"],
  "properties": {
    "id": {"type": "string"},
    "name": {"type": "string", "minLength": 3},
    "description": {"type": "string"},
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "type"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "type": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "config": {"type": "object"}
        }
      }
    },
    "connections": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["source_node_id", "source_port_id", "target_node_id", "target_port_id"],
        "properties": {
          "source_node_id": {"type": "string", "minLength": 1},
          "source_port_id": {"type": "string", "minLength": 1},
          "target_node_id": {"type": "string", "minLength": 1},
          "target_port_id": {"type": "string", "minLength": 1}
        }
      }
    },
    "conditional_routes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["source_node_id", "condition_port_id", "target_node_id"],
        "properties": {
          "source_node_id": {"type": "string", "minLength": 1},
          "condition_port_id": {"type": "string", "minLength": 1},
          "condition_value": {},
          "target_node_id": {"type": "string", "minLength": 1},
          "target_port_id": {"type": "string"},
          "data_port_id": {"type": "string"}
        }
      }
    },
    "variables": {"type": "object"},
    "metadata": {"type": "object"}
  }
}`

// ValidationError carries every schema violation found in a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("workflow document is invalid: %s", strings.Join(e.Problems, "; "))
}

// Parse validates a JSON document against the workflow schema and decodes
// it into a definition.
func Parse(data []byte) (*models.Definition, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(definitionSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate workflow document: %w", err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}

		return nil, &ValidationError{Problems: problems}
	}

	var def models.Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to decode workflow document: %w", err)
	}

	return &def, nil
}

// Materialize turns a stored definition into a runnable workflow by
// creating each node through the registry and wiring the graph.
func Materialize(ctx context.Context, def *models.Definition, reg *registry.Registry) (*workflow.Workflow, error) {
	builder := workflow.NewBuilder(def.Name).
		ID(def.ID).
		Description(def.Description)

	for _, spec := range def.Nodes {
		config := spec.Config
		if config == nil {
			config = map[string]any{}
		}

		if spec.Name != "" {
			if _, ok := config["name"]; !ok {
				config["name"] = spec.Name
			}
		}

		node, err := reg.CreateNode(ctx, spec.Type, spec.ID, config)
		if err != nil {
			return nil, fmt.Errorf("failed to create node %q: %w", spec.ID, err)
		}

		builder.AddNode(node)
	}

	for _, conn := range def.Connections {
		builder.Connect(conn.SourceNodeID, conn.SourcePortID, conn.TargetNodeID, conn.TargetPortID)
	}

	for _, route := range def.ConditionalRoutes {
		builder.AddConditionalRoute(
			route.SourceNodeID,
			route.ConditionPortID,
			route.ConditionValue,
			route.TargetNodeID,
			route.TargetPortID,
			route.DataPortID,
		)
	}

	for name, value := range def.Variables {
		builder.SetVariable(name, value)
	}

	return builder.Build()
}

// ParseAndMaterialize is a convenience that parses a document and
// materializes the result in one step.
func ParseAndMaterialize(ctx context.Context, data []byte, reg *registry.Registry) (*workflow.Workflow, error) {
	def, err := Parse(data)
	if err != nil {
		return nil, err
	}

	return Materialize(ctx, def, reg)
}
