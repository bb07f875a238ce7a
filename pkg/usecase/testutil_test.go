package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/model/auth"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
	"github.com/secmon-lab/briareus/pkg/service/event"
	"github.com/secmon-lab/briareus/pkg/service/notify"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

// setup builds a full use case stack on the in-memory repository with a
// synchronous event bus, so notification fan-out is observable right after
// the triggering call returns.
func setup(t *testing.T) (*usecase.UseCases, *memory.Memory) {
	t.Helper()

	repo := memory.New()
	bus := event.New(event.WithSync())
	bus.Subscribe(notify.New(repo).HandleTransition)

	uc := usecase.New(repo, bus, usecase.WithAuth(usecase.NewTokenAuthUseCase(repo)))
	return uc, repo
}

func actorCtx(sub string, role types.Role) context.Context {
	token := auth.NewToken(sub, role, time.Hour)
	return auth.ContextWithToken(context.Background(), token)
}

func seedUser(t *testing.T, repo *memory.Memory, id string, role types.Role) {
	t.Helper()
	_, err := repo.User().Put(context.Background(), &model.User{
		ID:   id,
		Name: id,
		Role: role,
	})
	gt.NoError(t, err).Required()
}
