package interfaces

import (
	"context"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// CasePlaybookRepository defines the interface for the case-playbook
// attachment join
type CasePlaybookRepository interface {
	// Create creates a new attachment
	Create(ctx context.Context, cp *model.CasePlaybook) (*model.CasePlaybook, error)

	// Get retrieves an attachment by ID
	Get(ctx context.Context, id model.CasePlaybookID) (*model.CasePlaybook, error)

	// GetByCaseAndPlaybook retrieves the attachment for a (case, playbook)
	// pair. Returns nil, nil when the playbook is not attached to the case.
	GetByCaseAndPlaybook(ctx context.Context, caseID, playbookID int64) (*model.CasePlaybook, error)

	// GetByCase retrieves all attachments of a case
	GetByCase(ctx context.Context, caseID int64) ([]*model.CasePlaybook, error)

	// Delete deletes an attachment by ID
	Delete(ctx context.Context, id model.CasePlaybookID) error
}
