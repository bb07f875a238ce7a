package interfaces

import (
	"context"

	"github.com/secmon-lab/briareus/pkg/domain/model/auth"
)

// Repository defines the interface for data persistence
type Repository interface {
	Case() CaseRepository
	Task() TaskRepository
	Playbook() PlaybookRepository
	CasePlaybook() CasePlaybookRepository
	Execution() ExecutionRepository
	Notification() NotificationRepository
	User() UserRepository

	// Auth methods
	PutToken(ctx context.Context, token *auth.Token) error
	GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error)
	DeleteToken(ctx context.Context, tokenID auth.TokenID) error
}
