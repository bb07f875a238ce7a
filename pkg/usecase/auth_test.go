package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

func TestTokenAuthUseCase(t *testing.T) {
	t.Run("login issues a token carrying the directory role", func(t *testing.T) {
		repo := memory.New()
		seedUser(t, repo, "u-alice", types.RoleAnalyst)
		authUC := usecase.NewTokenAuthUseCase(repo)
		ctx := context.Background()

		token, err := authUC.Login(ctx, "u-alice")
		gt.NoError(t, err).Required()
		gt.Value(t, token.Sub).Equal("u-alice")
		gt.Value(t, token.Role).Equal(types.RoleAnalyst)
		gt.Value(t, string(token.ID)).NotEqual("")
		gt.Value(t, string(token.Secret)).NotEqual("")

		validated, err := authUC.ValidateToken(ctx, token.ID, token.Secret)
		gt.NoError(t, err).Required()
		gt.Value(t, validated.Sub).Equal("u-alice")
	})

	t.Run("login for unknown user fails", func(t *testing.T) {
		repo := memory.New()
		authUC := usecase.NewTokenAuthUseCase(repo)

		_, err := authUC.Login(context.Background(), "u-ghost")
		gt.Error(t, err).Is(usecase.ErrUserNotFound)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		repo := memory.New()
		seedUser(t, repo, "u-alice", types.RoleAnalyst)
		authUC := usecase.NewTokenAuthUseCase(repo)
		ctx := context.Background()

		token, err := authUC.Login(ctx, "u-alice")
		gt.NoError(t, err).Required()

		_, err = authUC.ValidateToken(ctx, token.ID, "not-the-secret")
		gt.Value(t, err).NotNil()
	})

	t.Run("logout revokes the session", func(t *testing.T) {
		repo := memory.New()
		seedUser(t, repo, "u-alice", types.RoleAnalyst)
		authUC := usecase.NewTokenAuthUseCase(repo)
		ctx := context.Background()

		token, err := authUC.Login(ctx, "u-alice")
		gt.NoError(t, err).Required()

		gt.NoError(t, authUC.Logout(ctx, token.ID)).Required()

		_, err = authUC.ValidateToken(ctx, token.ID, token.Secret)
		gt.Value(t, err).NotNil()
	})

	t.Run("is not no-auth mode", func(t *testing.T) {
		authUC := usecase.NewTokenAuthUseCase(memory.New())
		gt.Value(t, authUC.IsNoAuthn()).Equal(false)
	})
}

func TestNoAuthnUseCase(t *testing.T) {
	t.Run("every validation returns the fixed user", func(t *testing.T) {
		authUC := usecase.NewNoAuthnUseCase("u-dev", types.RoleAdmin)
		ctx := context.Background()

		gt.Value(t, authUC.IsNoAuthn()).Equal(true)

		token, err := authUC.ValidateToken(ctx, "anything", "whatever")
		gt.NoError(t, err).Required()
		gt.Value(t, token.Sub).Equal("u-dev")
		gt.Value(t, token.Role).Equal(types.RoleAdmin)

		gt.NoError(t, authUC.Logout(ctx, "anything")).Required()
	})

	t.Run("empty role defaults to viewer", func(t *testing.T) {
		authUC := usecase.NewNoAuthnUseCase("u-dev", "")

		token, err := authUC.ValidateToken(context.Background(), "", "")
		gt.NoError(t, err).Required()
		gt.Value(t, token.Role).Equal(types.RoleViewer)
	})
}
