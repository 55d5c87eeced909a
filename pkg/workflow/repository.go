package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nodeflow/nodeflow/pkg/models"
	"github.com/nodeflow/nodeflow/pkg/persistence"
)

// Repository wraps a persistence backend with definition-level operations.
type Repository struct {
	persistence persistence.Persistence
}

func NewRepository(persistence persistence.Persistence) *Repository {
	return &Repository{
		persistence: persistence,
	}
}

func (r *Repository) HealthCheck(ctx context.Context) (string, bool) {
	if r.persistence == nil {
		return "Persistence layer not initialized", false
	}

	if err := r.persistence.HealthCheck(ctx); err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

func (r *Repository) FetchAll(ctx context.Context) ([]*models.Definition, error) {
	definitions, err := r.persistence.Workflows(ctx)
	if err != nil {
		return make([]*models.Definition, 0), err
	}

	return definitions, nil
}

func (r *Repository) FetchByID(ctx context.Context, id string) (*models.Definition, error) {
	return r.persistence.WorkflowByID(ctx, id)
}

func (r *Repository) Create(ctx context.Context, def *models.Definition) (*models.Definition, error) {
	if def.ID == "" {
		def.ID = uuid.New().String()
	}

	now := time.Now()
	def.CreatedAt = now
	def.UpdatedAt = now

	err := r.persistence.SaveWorkflow(ctx, def)
	if err != nil {
		return nil, err
	}

	return def, nil
}

func (r *Repository) Update(ctx context.Context, id string, def *models.Definition) (*models.Definition, error) {
	existing, err := r.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	def.ID = id
	def.CreatedAt = existing.CreatedAt
	def.UpdatedAt = time.Now()

	err = r.persistence.SaveWorkflow(ctx, def)
	if err != nil {
		return nil, err
	}

	return def, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.persistence.WorkflowByID(ctx, id); err != nil {
		return err
	}

	return r.persistence.DeleteWorkflow(ctx, id)
}
