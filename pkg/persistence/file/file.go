// Package file provides file-based persistence for workflow definitions.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nodeflow/nodeflow/pkg/models"
	"github.com/nodeflow/nodeflow/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the
// file system. Each workflow definition is stored as one JSON file under
// <root>/workflows/<id>.json.
type Persistence struct {
	root string
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{root: cleanRoot}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Workflows returns all stored workflow definitions, sorted by ID.
func (fp *Persistence) Workflows(ctx context.Context) ([]*models.Definition, error) {
	dir := path.Join(fp.root, "workflows")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []*models.Definition{}, nil
	}

	jsonFiles, err := fs.Glob(os.DirFS(dir), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow files: %w", err)
	}

	definitions := make([]*models.Definition, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		id := file[:len(file)-5] // Remove .json extension

		def, err := fp.WorkflowByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load workflow %s: %w", id, err)
		}

		definitions = append(definitions, def)
	}

	sort.Slice(definitions, func(i, j int) bool {
		return definitions[i].ID < definitions[j].ID
	})

	return definitions, nil
}

// WorkflowByID retrieves a workflow definition by its ID from the file system.
func (fp *Persistence) WorkflowByID(_ context.Context, id string) (*models.Definition, error) {
	filePath := filepath.Clean(path.Join(fp.root, "workflows", id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewWorkflowError("WorkflowByID", id, persistence.ErrWorkflowNotFound)
		}

		return nil, fmt.Errorf("failed to fetch workflow %s: %w", id, err)
	}

	var def models.Definition

	err = json.Unmarshal(body, &def)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow %s: %w", id, err)
	}

	return &def, nil
}

// SaveWorkflow saves a workflow definition to the file system.
func (fp *Persistence) SaveWorkflow(_ context.Context, def *models.Definition) error {
	err := os.MkdirAll(path.Join(fp.root, "workflows"), 0750)
	if err != nil {
		return fmt.Errorf("failed to create workflows directory: %w", err)
	}

	now := time.Now().UTC()
	if def.CreatedAt.IsZero() {
		def.CreatedAt = now
	}

	def.UpdatedAt = now

	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workflow %s: %w", def.ID, err)
	}

	filePath := path.Join(fp.root, "workflows", def.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

// DeleteWorkflow removes a workflow definition by its ID.
func (fp *Persistence) DeleteWorkflow(_ context.Context, id string) error {
	filePath := path.Join(fp.root, "workflows", id+".json")

	err := os.Remove(filePath)

	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	return nil
}
