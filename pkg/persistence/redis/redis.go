// Package redis provides Redis-backed persistence for workflow definitions.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/nodeflow/nodeflow/pkg/models"
	"github.com/nodeflow/nodeflow/pkg/persistence"
)

const keyPrefix = "nodeflow:workflows:"

// Persistence implements the persistence.Persistence interface on top of
// Redis. Each workflow definition is stored as a JSON string under
// nodeflow:workflows:<id>.
type Persistence struct {
	client redis.UniversalClient
}

// NewPersistence creates a Redis-backed persistence from a connection URL
// such as redis://localhost:6379/0.
func NewPersistence(ctx context.Context, url string) (persistence.Persistence, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Persistence{client: client}, nil
}

// Workflows returns all stored workflow definitions.
func (rp *Persistence) Workflows(ctx context.Context) ([]*models.Definition, error) {
	definitions := make([]*models.Definition, 0)

	iter := rp.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		body, err := rp.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to fetch workflow at %s: %w", iter.Val(), err)
		}

		var def models.Definition
		if err := json.Unmarshal([]byte(body), &def); err != nil {
			return nil, fmt.Errorf("failed to unmarshal workflow at %s: %w", iter.Val(), err)
		}

		definitions = append(definitions, &def)
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan workflows: %w", err)
	}

	return definitions, nil
}

// WorkflowByID retrieves a workflow definition by its ID.
func (rp *Persistence) WorkflowByID(ctx context.Context, id string) (*models.Definition, error) {
	body, err := rp.client.Get(ctx, keyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, persistence.NewWorkflowError("WorkflowByID", id, persistence.ErrWorkflowNotFound)
		}

		return nil, fmt.Errorf("failed to fetch workflow %s: %w", id, err)
	}

	var def models.Definition
	if err := json.Unmarshal([]byte(body), &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow %s: %w", id, err)
	}

	return &def, nil
}

// SaveWorkflow stores a workflow definition.
func (rp *Persistence) SaveWorkflow(ctx context.Context, def *models.Definition) error {
	now := time.Now().UTC()
	if def.CreatedAt.IsZero() {
		def.CreatedAt = now
	}

	def.UpdatedAt = now

	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow %s: %w", def.ID, err)
	}

	if err := rp.client.Set(ctx, keyPrefix+def.ID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save workflow %s: %w", def.ID, err)
	}

	return nil
}

// DeleteWorkflow removes a workflow definition by its ID.
func (rp *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	if err := rp.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	return nil
}

// HealthCheck verifies the Redis connection is alive.
func (rp *Persistence) HealthCheck(ctx context.Context) error {
	return rp.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (rp *Persistence) Close(_ context.Context) error {
	return rp.client.Close()
}
