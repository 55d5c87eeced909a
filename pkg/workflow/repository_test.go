package workflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeflow/nodeflow/pkg/persistence"
	"github.com/nodeflow/nodeflow/pkg/persistence/file"
	"github.com/nodeflow/nodeflow/pkg/testutil"
	"github.com/nodeflow/nodeflow/pkg/workflow"
)

func testRepository(t *testing.T) *workflow.Repository {
	t.Helper()

	return workflow.NewRepository(file.NewPersistence(t.TempDir()))
}

func TestRepository_CreateAssignsID(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)

	def := testutil.CreateTestDefinition()
	def.ID = ""

	created, err := repo.Create(ctx, def)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestRepository_FetchByID(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)

	def := testutil.CreateTestDefinition()
	_, err := repo.Create(ctx, def)
	require.NoError(t, err)

	loaded, err := repo.FetchByID(ctx, def.ID)
	require.NoError(t, err)
	assert.Equal(t, def.Name, loaded.Name)

	_, err = repo.FetchByID(ctx, "missing")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestRepository_UpdatePreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)

	def := testutil.CreateTestDefinition()
	created, err := repo.Create(ctx, def)
	require.NoError(t, err)

	replacement := testutil.CreateTestDefinition()
	replacement.Name = "Renamed Workflow"

	updated, err := repo.Update(ctx, created.ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Renamed Workflow", updated.Name)
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)

	def := testutil.CreateTestDefinition()
	_, err := repo.Create(ctx, def)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, def.ID))

	err = repo.Delete(ctx, def.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestRepository_FetchAllAndHealth(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)

	definitions, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, definitions)

	message, healthy := repo.HealthCheck(ctx)
	assert.True(t, healthy)
	assert.NotEmpty(t, message)
}
