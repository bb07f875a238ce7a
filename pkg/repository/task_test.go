package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

func runTaskRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("GetByCase filters by case", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Task().Create(ctx, &model.Task{CaseID: 1, Name: "A"})
		gt.NoError(t, err).Required()
		_, err = repo.Task().Create(ctx, &model.Task{CaseID: 1, Name: "B"})
		gt.NoError(t, err).Required()
		_, err = repo.Task().Create(ctx, &model.Task{CaseID: 2, Name: "C"})
		gt.NoError(t, err).Required()

		tasks, err := repo.Task().GetByCase(ctx, 1)
		gt.NoError(t, err).Required()
		gt.Number(t, len(tasks)).Equal(2)
	})

	t.Run("Update keeps CaseID immutable", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Task().Create(ctx, &model.Task{CaseID: 1, Name: "Task"})
		gt.NoError(t, err).Required()

		created.CaseID = 99
		created.Name = "Renamed"
		updated, err := repo.Task().Update(ctx, created)
		gt.NoError(t, err).Required()
		gt.Number(t, updated.CaseID).Equal(1)
		gt.Value(t, updated.Name).Equal("Renamed")
	})

	t.Run("DueDate round-trips through the store", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Task().Create(ctx, &model.Task{CaseID: 1, Name: "Dated"})
		gt.NoError(t, err).Required()
		gt.Value(t, created.DueDate).Nil()
		gt.Value(t, created.CompletedAt).Nil()
	})

	t.Run("Get and Delete of a missing task fail", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Task().Get(ctx, 424242)
		gt.Value(t, err).NotNil()
		gt.Value(t, repo.Task().Delete(ctx, 424242)).NotNil()
	})
}

func TestTaskRepository_Memory(t *testing.T) {
	runTaskRepositoryTest(t, newMemory)
}

func TestTaskRepository_Firestore(t *testing.T) {
	runTaskRepositoryTest(t, newFirestore)
}
