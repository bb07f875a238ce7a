package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

func runExecutionRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("step states round-trip and stay isolated", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		execution := &model.PlaybookExecution{
			ID:             model.NewExecutionID(),
			CasePlaybookID: model.NewCasePlaybookID(),
			StepStates:     []model.StepState{{Checklist: []int{0}, Comment: "note"}},
		}
		created, err := repo.Execution().Create(ctx, execution)
		gt.NoError(t, err).Required()

		created.StepStates[0].Checklist[0] = 9

		got, err := repo.Execution().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, got.StepStates[0].Checklist).Equal([]int{0})
		gt.Value(t, got.StepStates[0].Comment).Equal("note")
	})

	t.Run("GetByCasePlaybook resolves the attachment's execution", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		casePlaybookID := model.NewCasePlaybookID()
		execution := &model.PlaybookExecution{
			ID:             model.NewExecutionID(),
			CasePlaybookID: casePlaybookID,
		}
		_, err := repo.Execution().Create(ctx, execution)
		gt.NoError(t, err).Required()

		got, err := repo.Execution().GetByCasePlaybook(ctx, casePlaybookID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(execution.ID)

		_, err = repo.Execution().GetByCasePlaybook(ctx, model.NewCasePlaybookID())
		gt.Value(t, err).NotNil()
	})

	t.Run("Update keeps CasePlaybookID immutable", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		casePlaybookID := model.NewCasePlaybookID()
		created, err := repo.Execution().Create(ctx, &model.PlaybookExecution{
			ID:             model.NewExecutionID(),
			CasePlaybookID: casePlaybookID,
		})
		gt.NoError(t, err).Required()

		created.CasePlaybookID = model.NewCasePlaybookID()
		created.CurrentStepIndex = 1
		updated, err := repo.Execution().Update(ctx, created)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.CasePlaybookID).Equal(casePlaybookID)
		gt.Number(t, updated.CurrentStepIndex).Equal(1)
	})

	t.Run("Delete removes the execution", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Execution().Create(ctx, &model.PlaybookExecution{
			ID:             model.NewExecutionID(),
			CasePlaybookID: model.NewCasePlaybookID(),
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Execution().Delete(ctx, created.ID)).Required()
		_, err = repo.Execution().Get(ctx, created.ID)
		gt.Value(t, err).NotNil()
	})
}

func TestExecutionRepository_Memory(t *testing.T) {
	runExecutionRepositoryTest(t, newMemory)
}

func TestExecutionRepository_Firestore(t *testing.T) {
	runExecutionRepositoryTest(t, newFirestore)
}
