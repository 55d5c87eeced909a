// Package registry maps node type tags to factories that materialize
// stored node specs into live node instances.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/nodeflow/nodeflow/pkg/protocol"
	"github.com/xeipuuv/gojsonschema"
)

type Registry struct {
	logger    *slog.Logger
	factories map[string]protocol.NodeFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger,
		factories: make(map[string]protocol.NodeFactory),
	}
}

// RegisterNode registers a node factory under its type tag. Registering
// the same tag twice replaces the earlier factory.
func (r *Registry) RegisterNode(factory protocol.NodeFactory) {
	r.factories[factory.ID()] = factory
	r.logger.Debug("Registered node type", "type", factory.ID())
}

// CreateNode validates the configuration against the factory's schema and
// creates a node instance.
func (r *Registry) CreateNode(ctx context.Context, nodeType, id string, config map[string]any) (protocol.Node, error) {
	factory, ok := r.factories[nodeType]
	if !ok {
		return nil, fmt.Errorf("node type '%s' not registered", nodeType)
	}

	if err := r.validateConfig(factory, config); err != nil {
		return nil, fmt.Errorf("invalid configuration for node type '%s': %w", nodeType, err)
	}

	return factory.Create(ctx, id, config)
}

// Factory returns the registered factory for a type tag.
func (r *Registry) Factory(nodeType string) (protocol.NodeFactory, bool) {
	factory, ok := r.factories[nodeType]

	return factory, ok
}

// AvailableNodes returns the registered type tags, sorted.
func (r *Registry) AvailableNodes() []string {
	types := make([]string, 0, len(r.factories))
	for nodeType := range r.factories {
		types = append(types, nodeType)
	}

	sort.Strings(types)

	return types
}

func (r *Registry) validateConfig(factory protocol.NodeFactory, config map[string]any) error {
	schema := factory.Schema()
	if schema == nil {
		return nil
	}

	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return fmt.Errorf("configuration does not match schema: %s", strings.Join(details, "; "))
	}

	return nil
}
