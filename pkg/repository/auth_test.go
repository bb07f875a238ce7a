package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model/auth"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

func runTokenStoreTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("put, get and delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		token := auth.NewToken("u-alice", types.RoleAnalyst, time.Hour)
		gt.NoError(t, repo.PutToken(ctx, token)).Required()

		got, err := repo.GetToken(ctx, token.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Sub).Equal("u-alice")
		gt.Value(t, got.Role).Equal(types.RoleAnalyst)
		gt.Value(t, got.Secret).Equal(token.Secret)

		gt.NoError(t, repo.DeleteToken(ctx, token.ID)).Required()
		_, err = repo.GetToken(ctx, token.ID)
		gt.Value(t, err).NotNil()
	})

	t.Run("get of an unknown token fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.GetToken(ctx, auth.TokenID("t-missing"))
		gt.Value(t, err).NotNil()
	})
}

func TestTokenStore_Memory(t *testing.T) {
	runTokenStoreTest(t, newMemory)
}

func TestTokenStore_Firestore(t *testing.T) {
	runTokenStoreTest(t, newFirestore)
}
