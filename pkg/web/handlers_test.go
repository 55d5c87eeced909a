package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeflow/nodeflow/pkg/execution"
	"github.com/nodeflow/nodeflow/pkg/models"
	"github.com/nodeflow/nodeflow/pkg/nodes/task"
	"github.com/nodeflow/nodeflow/pkg/persistence/file"
	"github.com/nodeflow/nodeflow/pkg/registry"
	"github.com/nodeflow/nodeflow/pkg/scheduler"
	"github.com/nodeflow/nodeflow/pkg/testutil"
	"github.com/nodeflow/nodeflow/pkg/web"
	"github.com/nodeflow/nodeflow/pkg/workflow"
)

func setupTestApp(t *testing.T) (*fiber.App, *workflow.Repository) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	persistence := file.NewPersistence(t.TempDir())
	repository := workflow.NewRepository(persistence)

	reg := registry.NewRegistry(logger)
	reg.RegisterNode(task.NewTaskNodeFactory())

	sched := scheduler.New(scheduler.WithLogger(logger))

	handlers := web.NewAPIHandlers(repository, reg, sched)

	return web.NewApp(handlers), repository
}

func TestAPI_CreateAndGetWorkflow(t *testing.T) {
	app, _ := setupTestApp(t)

	body := []byte(`{
	  "id": "wf-web",
	  "name": "Web Workflow",
	  "nodes": [{"id": "start", "type": "task", "name": "Start", "config": {}}]
	}`)

	req := httptest.NewRequest(http.MethodPost, "/workflows", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/workflows/wf-web", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var def models.Definition
	require.NoError(t, json.Unmarshal(payload, &def))
	assert.Equal(t, "Web Workflow", def.Name)
	require.Len(t, def.Nodes, 1)
}

func TestAPI_CreateWorkflowRejectsInvalidDocument(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/workflows", bytes.NewBufferString(`{"name": "x"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_GetWorkflowNotFound(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/workflows/missing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_ListWorkflows(t *testing.T) {
	app, repository := setupTestApp(t)

	def := testutil.CreateTestDefinition()
	_, err := repository.Create(context.Background(), def)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/workflows/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var listing struct {
		Workflows  []*models.Definition `json:"workflows"`
		TotalCount int                  `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(payload, &listing))
	assert.Equal(t, 1, listing.TotalCount)
}

func TestAPI_DeleteWorkflow(t *testing.T) {
	app, repository := setupTestApp(t)

	def := testutil.CreateTestDefinition()
	def.ID = "wf-delete"
	_, err := repository.Create(context.Background(), def)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/workflows/wf-delete", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(http.MethodDelete, "/workflows/wf-delete", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_RunWorkflow(t *testing.T) {
	app, repository := setupTestApp(t)

	def := &models.Definition{
		ID:   "wf-run",
		Name: "Runnable Workflow",
		Nodes: []*models.NodeSpec{
			{ID: "start", Type: "task", Name: "Start", Config: map[string]any{"task_type": "generic"}},
		},
	}
	_, err := repository.Create(context.Background(), def)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/workflows/wf-run/run", bytes.NewBufferString(`{"env": "test"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var summary execution.Summary
	require.NoError(t, json.Unmarshal(payload, &summary))
	assert.Equal(t, "wf-run", summary.WorkflowID)
	assert.Equal(t, execution.StatusCompleted, summary.Status)
	assert.Contains(t, summary.Results, "start")
}

func TestAPI_NodeTypes(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/node-types", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var listing struct {
		NodeTypes []struct {
			Type string `json:"type"`
			Name string `json:"name"`
		} `json:"node_types"`
	}
	require.NoError(t, json.Unmarshal(payload, &listing))
	require.Len(t, listing.NodeTypes, 1)
	assert.Equal(t, "task", listing.NodeTypes[0].Type)
}

func TestAPI_Health(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
