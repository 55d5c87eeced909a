package file

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeflow/nodeflow/pkg/persistence"
	"github.com/nodeflow/nodeflow/pkg/testutil"
)

func TestFilePersistence_SaveAndFetch(t *testing.T) {
	ctx := context.Background()
	fp := NewPersistence(t.TempDir())

	def := testutil.CreateTestDefinition()

	require.NoError(t, fp.SaveWorkflow(ctx, def))
	assert.False(t, def.CreatedAt.IsZero())
	assert.False(t, def.UpdatedAt.IsZero())

	loaded, err := fp.WorkflowByID(ctx, def.ID)
	require.NoError(t, err)
	assert.Equal(t, def.ID, loaded.ID)
	assert.Equal(t, def.Name, loaded.Name)
	require.Len(t, loaded.Nodes, 1)
	assert.Equal(t, "task", loaded.Nodes[0].Type)
}

func TestFilePersistence_FileURLPrefixStripped(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fp := NewPersistence("file://" + dir)

	def := testutil.CreateTestDefinition()
	require.NoError(t, fp.SaveWorkflow(ctx, def))

	loaded, err := fp.WorkflowByID(ctx, def.ID)
	require.NoError(t, err)
	assert.Equal(t, def.ID, loaded.ID)
}

func TestFilePersistence_MissingWorkflow(t *testing.T) {
	ctx := context.Background()
	fp := NewPersistence(t.TempDir())

	_, err := fp.WorkflowByID(ctx, "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestFilePersistence_WorkflowsListsAllSorted(t *testing.T) {
	ctx := context.Background()
	fp := NewPersistence(t.TempDir())

	first := testutil.CreateTestDefinition()
	first.ID = "b-workflow"
	second := testutil.CreateTestDefinition()
	second.ID = "a-workflow"

	require.NoError(t, fp.SaveWorkflow(ctx, first))
	require.NoError(t, fp.SaveWorkflow(ctx, second))

	definitions, err := fp.Workflows(ctx)
	require.NoError(t, err)
	require.Len(t, definitions, 2)
	assert.Equal(t, "a-workflow", definitions[0].ID)
	assert.Equal(t, "b-workflow", definitions[1].ID)
}

func TestFilePersistence_WorkflowsEmptyDirectory(t *testing.T) {
	ctx := context.Background()
	fp := NewPersistence(t.TempDir())

	definitions, err := fp.Workflows(ctx)
	require.NoError(t, err)
	assert.Empty(t, definitions)
}

func TestFilePersistence_Delete(t *testing.T) {
	ctx := context.Background()
	fp := NewPersistence(t.TempDir())

	def := testutil.CreateTestDefinition()
	require.NoError(t, fp.SaveWorkflow(ctx, def))
	require.NoError(t, fp.DeleteWorkflow(ctx, def.ID))

	_, err := fp.WorkflowByID(ctx, def.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))

	// Deleting a missing workflow is a no-op.
	require.NoError(t, fp.DeleteWorkflow(ctx, "missing"))
}

func TestFilePersistence_HealthCheck(t *testing.T) {
	ctx := context.Background()

	fp := NewPersistence(t.TempDir())
	require.NoError(t, fp.HealthCheck(ctx))

	missing := NewPersistence("/nonexistent/nodeflow-test")
	assert.Error(t, missing.HealthCheck(ctx))

	require.NoError(t, fp.Close(ctx))
}
