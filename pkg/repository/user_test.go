package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

func runUserRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put replaces an existing entry", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.User().Put(ctx, &model.User{ID: "u-alice", Name: "Alice", Role: types.RoleAnalyst})
		gt.NoError(t, err).Required()
		_, err = repo.User().Put(ctx, &model.User{ID: "u-alice", Name: "Alice B.", Role: types.RoleAdmin})
		gt.NoError(t, err).Required()

		got, err := repo.User().Get(ctx, "u-alice")
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("Alice B.")
		gt.Value(t, got.Role).Equal(types.RoleAdmin)

		users, err := repo.User().List(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, len(users)).Equal(1)
	})

	t.Run("Get of a missing user fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.User().Get(ctx, "u-ghost")
		gt.Value(t, err).NotNil()
	})
}

func TestUserRepository_Memory(t *testing.T) {
	runUserRepositoryTest(t, newMemory)
}

func TestUserRepository_Firestore(t *testing.T) {
	runUserRepositoryTest(t, newFirestore)
}
