package interfaces

import (
	"context"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// TaskRepository defines the interface for Task data access
type TaskRepository interface {
	// Create creates a new task with auto-generated ID
	Create(ctx context.Context, t *model.Task) (*model.Task, error)

	// Get retrieves a task by ID
	Get(ctx context.Context, id int64) (*model.Task, error)

	// GetByCase retrieves all tasks belonging to a case
	GetByCase(ctx context.Context, caseID int64) ([]*model.Task, error)

	// Update updates an existing task
	Update(ctx context.Context, t *model.Task) (*model.Task, error)

	// Delete deletes a task by ID
	Delete(ctx context.Context, id int64) error
}
