package interfaces

import (
	"context"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// UserRepository defines the interface for User data access
type UserRepository interface {
	// Put creates or replaces a user record
	Put(ctx context.Context, u *model.User) (*model.User, error)

	// Get retrieves a user by ID
	Get(ctx context.Context, id string) (*model.User, error)

	// List retrieves all users
	List(ctx context.Context) ([]*model.User, error)
}
