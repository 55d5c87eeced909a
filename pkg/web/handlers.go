// Package web provides the HTTP API for workflow management and execution.
package web

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/nodeflow/nodeflow/pkg/parser"
	"github.com/nodeflow/nodeflow/pkg/registry"
	"github.com/nodeflow/nodeflow/pkg/scheduler"
	"github.com/nodeflow/nodeflow/pkg/workflow"
)

type APIHandlers struct {
	repository *workflow.Repository
	registry   *registry.Registry
	scheduler  *scheduler.Scheduler
	validator  *validator.Validate
}

func NewAPIHandlers(
	repository *workflow.Repository,
	registry *registry.Registry,
	sched *scheduler.Scheduler,
) *APIHandlers {
	return &APIHandlers{
		repository: repository,
		registry:   registry,
		scheduler:  sched,
		validator:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	definitions, err := h.repository.FetchAll(c.Context())
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"workflows":   definitions,
		"total_count": len(definitions),
	})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	def, err := h.repository.FetchByID(c.Context(), id)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(def)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	def, err := parser.Parse(c.Body())
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.validator.Struct(def); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.repository.Create(c.Context(), def)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.repository.Delete(c.Context(), id); err != nil {
		return handleError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RunWorkflow executes a stored workflow synchronously and returns the run
// summary. The request body, when present, supplies initial data.
func (h *APIHandlers) RunWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var initialData map[string]any
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &initialData); err != nil {
			return badRequest(c, "Invalid initial data: "+err.Error())
		}
	}

	def, err := h.repository.FetchByID(c.Context(), id)
	if err != nil {
		return handleError(c, err)
	}

	wf, err := parser.Materialize(c.Context(), def, h.registry)
	if err != nil {
		return badRequest(c, "Failed to materialize workflow: "+err.Error())
	}

	summary, err := h.scheduler.Run(c.Context(), wf, initialData)
	if err != nil {
		// The summary still carries partial results; surface both.
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"summary": summary,
			"error":   err.Error(),
		})
	}

	return c.JSON(summary)
}

// GetNodeTypes lists the registered node types and their configuration schemas.
func (h *APIHandlers) GetNodeTypes(c fiber.Ctx) error {
	types := h.registry.AvailableNodes()
	items := make([]fiber.Map, 0, len(types))

	for _, nodeType := range types {
		factory, ok := h.registry.Factory(nodeType)
		if !ok {
			continue
		}

		items = append(items, fiber.Map{
			"type":        factory.ID(),
			"name":        factory.Name(),
			"description": factory.Description(),
			"schema":      factory.Schema(),
		})
	}

	return c.JSON(fiber.Map{"node_types": items})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	message, healthy := h.repository.HealthCheck(c.Context())
	status := fiber.StatusOK

	if !healthy {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"healthy": healthy,
		"message": message,
	})
}
