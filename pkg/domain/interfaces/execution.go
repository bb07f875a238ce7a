package interfaces

import (
	"context"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// ExecutionRepository defines the interface for PlaybookExecution data access
type ExecutionRepository interface {
	// Create creates a new execution
	Create(ctx context.Context, e *model.PlaybookExecution) (*model.PlaybookExecution, error)

	// Get retrieves an execution by ID
	Get(ctx context.Context, id model.ExecutionID) (*model.PlaybookExecution, error)

	// GetByCasePlaybook retrieves the execution of an attachment
	GetByCasePlaybook(ctx context.Context, casePlaybookID model.CasePlaybookID) (*model.PlaybookExecution, error)

	// Update updates an existing execution
	Update(ctx context.Context, e *model.PlaybookExecution) (*model.PlaybookExecution, error)

	// Delete deletes an execution by ID
	Delete(ctx context.Context, id model.ExecutionID) error
}
