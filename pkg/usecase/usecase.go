package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model/auth"
	"github.com/secmon-lab/briareus/pkg/service/event"
)

type UseCases struct {
	repo interfaces.Repository
	bus  *event.Bus

	Case         *CaseUseCase
	Task         *TaskUseCase
	Playbook     *PlaybookUseCase
	Execution    *ExecutionUseCase
	Notification *NotificationUseCase
	User         *UserUseCase
	Auth         AuthUseCase
}

type Option func(*UseCases)

// WithAuth sets the authentication use case (token validation or no-auth
// development mode).
func WithAuth(authUC AuthUseCase) Option {
	return func(uc *UseCases) {
		uc.Auth = authUC
	}
}

func New(repo interfaces.Repository, bus *event.Bus, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
		bus:  bus,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Case = NewCaseUseCase(repo, bus)
	uc.Task = NewTaskUseCase(repo, bus)
	uc.Playbook = NewPlaybookUseCase(repo)
	uc.Execution = NewExecutionUseCase(repo, bus)
	uc.Notification = NewNotificationUseCase(repo)
	uc.User = NewUserUseCase(repo)

	return uc
}

// actorFromContext extracts the authenticated actor. Every mutating
// operation requires one; its absence is an authorization failure, not a
// transport problem.
func actorFromContext(ctx context.Context) (*auth.Token, error) {
	token, err := auth.TokenFromContext(ctx)
	if err != nil {
		return nil, goerr.Wrap(ErrForbidden, "no authenticated actor")
	}
	return token, nil
}
