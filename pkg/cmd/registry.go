// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"

	"github.com/nodeflow/nodeflow/pkg/nodes/decision"
	"github.com/nodeflow/nodeflow/pkg/nodes/notification"
	"github.com/nodeflow/nodeflow/pkg/nodes/task"
	"github.com/nodeflow/nodeflow/pkg/nodes/transform"
	"github.com/nodeflow/nodeflow/pkg/nodes/wait"
	"github.com/nodeflow/nodeflow/pkg/registry"
)

// NewRegistry creates a node registry with every native node type registered.
func NewRegistry(logger *slog.Logger) *registry.Registry {
	reg := registry.NewRegistry(logger)

	reg.RegisterNode(task.NewTaskNodeFactory())
	reg.RegisterNode(decision.NewDecisionNodeFactory())
	reg.RegisterNode(wait.NewWaitNodeFactory())
	reg.RegisterNode(notification.NewNotificationNodeFactory())
	reg.RegisterNode(transform.NewTransformNodeFactory())

	return reg
}
