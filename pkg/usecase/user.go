package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// UserUseCase maintains the user directory that assignments and roles
// reference.
type UserUseCase struct {
	repo interfaces.Repository
}

func NewUserUseCase(repo interfaces.Repository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// PutUser creates or replaces a directory entry. Admin only.
func (uc *UserUseCase) PutUser(ctx context.Context, user *model.User) (*model.User, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanManageUsers() {
		return nil, goerr.Wrap(ErrForbidden, "only admins may manage users",
			goerr.V(UserIDKey, actor.Sub), goerr.V("role", actor.Role))
	}

	if user.ID == "" {
		return nil, goerr.Wrap(ErrValidation, "user ID is required")
	}
	user.Role = user.Role.Normalize()
	if !user.Role.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "invalid role", goerr.V("role", user.Role))
	}

	saved, err := uc.repo.User().Put(ctx, user)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save user", goerr.V(UserIDKey, user.ID))
	}

	return saved, nil
}

func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := uc.repo.User().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrUserNotFound, "user not found", goerr.V(UserIDKey, id))
	}

	return user, nil
}

func (uc *UserUseCase) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := uc.repo.User().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list users")
	}

	return users, nil
}
