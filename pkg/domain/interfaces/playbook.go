package interfaces

import (
	"context"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// PlaybookRepository defines the interface for Playbook template data access
type PlaybookRepository interface {
	// Create creates a new playbook template with auto-generated ID
	Create(ctx context.Context, p *model.Playbook) (*model.Playbook, error)

	// Get retrieves a playbook template by ID
	Get(ctx context.Context, id int64) (*model.Playbook, error)

	// List retrieves all playbook templates
	List(ctx context.Context) ([]*model.Playbook, error)

	// Update updates an existing playbook template
	Update(ctx context.Context, p *model.Playbook) (*model.Playbook, error)

	// Delete deletes a playbook template by ID
	Delete(ctx context.Context, id int64) error
}
