// Package persistence provides data storage abstraction for workflow definitions.
package persistence

import (
	"context"

	"github.com/nodeflow/nodeflow/pkg/models"
)

type Persistence interface {
	Workflows(ctx context.Context) ([]*models.Definition, error)
	SaveWorkflow(ctx context.Context, def *models.Definition) error
	WorkflowByID(ctx context.Context, id string) (*models.Definition, error)
	DeleteWorkflow(ctx context.Context, id string) error
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
