package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
	"github.com/secmon-lab/briareus/pkg/usecase"
)

// seedPlaybook registers a three-step template with checklists.
func seedPlaybook(t *testing.T, uc *usecase.UseCases) *model.Playbook {
	t.Helper()
	playbook, err := uc.Playbook.CreatePlaybook(actorCtx("u-admin", types.RoleAdmin), "Ransomware response",
		[]model.PlaybookStep{
			{Title: "Isolate", Checklist: []string{"disconnect network", "snapshot disk"}},
			{Title: "Investigate", Checklist: []string{"collect IOCs"}},
			{Title: "Recover"},
		})
	gt.NoError(t, err).Required()
	return playbook
}

func attach(t *testing.T, uc *usecase.UseCases, repo *memory.Memory) (*model.Case, *usecase.CasePlaybookDetail) {
	t.Helper()
	caseModel := newCaseWithOwner(t, uc, repo)
	playbook := seedPlaybook(t, uc)

	detail, err := uc.Execution.AttachPlaybook(actorCtx("u-bob", types.RoleAnalyst), caseModel.ID, playbook.ID)
	gt.NoError(t, err).Required()
	return caseModel, detail
}

func TestExecutionUseCase_AttachPlaybook(t *testing.T) {
	t.Run("attach creates execution at step zero", func(t *testing.T) {
		uc, repo := setup(t)
		_, detail := attach(t, uc, repo)

		gt.Value(t, detail.CasePlaybook.AddedBy).Equal("u-bob")
		gt.Value(t, detail.Execution.CasePlaybookID).Equal(detail.CasePlaybook.ID)
		gt.Number(t, detail.Execution.CurrentStepIndex).Equal(0)
		gt.Value(t, detail.Execution.CompletedAt).Nil()
	})

	t.Run("double attach is rejected", func(t *testing.T) {
		uc, repo := setup(t)
		caseModel, detail := attach(t, uc, repo)

		_, err := uc.Execution.AttachPlaybook(actorCtx("u-bob", types.RoleAnalyst),
			caseModel.ID, detail.Playbook.ID)
		gt.Error(t, err).Is(usecase.ErrPlaybookAlreadyAttached)
	})

	t.Run("creator may attach too", func(t *testing.T) {
		uc, repo := setup(t)
		caseModel := newCaseWithOwner(t, uc, repo)
		playbook := seedPlaybook(t, uc)

		_, err := uc.Execution.AttachPlaybook(actorCtx("u-alice", types.RoleAnalyst), caseModel.ID, playbook.ID)
		gt.NoError(t, err).Required()
	})

	t.Run("bystander may not attach", func(t *testing.T) {
		uc, repo := setup(t)
		caseModel := newCaseWithOwner(t, uc, repo)
		playbook := seedPlaybook(t, uc)

		_, err := uc.Execution.AttachPlaybook(actorCtx("u-mallory", types.RoleAnalyst), caseModel.ID, playbook.ID)
		gt.Error(t, err).Is(usecase.ErrForbidden)
	})

	t.Run("resolved case rejects attach", func(t *testing.T) {
		uc, repo := setup(t)
		caseModel := newCaseWithOwner(t, uc, repo)
		playbook := seedPlaybook(t, uc)

		_, err := uc.Case.ResolveCase(actorCtx("u-alice", types.RoleAnalyst), caseModel.ID, "done")
		gt.NoError(t, err).Required()

		_, err = uc.Execution.AttachPlaybook(actorCtx("u-bob", types.RoleAnalyst), caseModel.ID, playbook.ID)
		gt.Error(t, err).Is(usecase.ErrCaseResolved)
	})

	t.Run("missing playbook fails", func(t *testing.T) {
		uc, repo := setup(t)
		caseModel := newCaseWithOwner(t, uc, repo)

		_, err := uc.Execution.AttachPlaybook(actorCtx("u-bob", types.RoleAnalyst), caseModel.ID, 9999)
		gt.Error(t, err).Is(usecase.ErrPlaybookNotFound)
	})
}

func TestExecutionUseCase_StepNavigation(t *testing.T) {
	t.Run("advance is clamped to the last step", func(t *testing.T) {
		uc, repo := setup(t)
		caseModel, detail := attach(t, uc, repo)
		owner := actorCtx("u-bob", types.RoleAnalyst)

		for i := 0; i < 5; i++ {
			execution, err := uc.Execution.AdvanceStep(owner, caseModel.ID, detail.Execution.ID)
			gt.NoError(t, err).Required()
			gt.Number(t, execution.CurrentStepIndex).LessOrEqual(2)
		}

		execution, _, err := uc.Execution.GetExecution(owner, caseModel.ID, detail.Execution.ID)
		gt.NoError(t, err).Required()
		gt.Number(t, execution.CurrentStepIndex).Equal(2)
	})

	t.Run("retreat is clamped to zero", func(t *testing.T) {
		uc, repo := setup(t)
		caseModel, detail := attach(t, uc, repo)
		owner := actorCtx("u-bob", types.RoleAnalyst)

		execution, err := uc.Execution.RetreatStep(owner, caseModel.ID, detail.Execution.ID)
		gt.NoError(t, err).Required()
		gt.Number(t, execution.CurrentStepIndex).Equal(0)
	})

	t.Run("completed execution does not move", func(t *testing.T) {
		uc, repo := setup(t)
		caseModel, detail := attach(t, uc, repo)
		owner := actorCtx("u-bob", types.RoleAnalyst)

		_, err := uc.Execution.CompleteExecution(owner, caseModel.ID, detail.Execution.ID)
		gt.NoError(t, err).Required()

		_, err = uc.Execution.AdvanceStep(owner, caseModel.ID, detail.Execution.ID)
		gt.Error(t, err).Is(usecase.ErrInvalidTransition)
	})
}

func TestExecutionUseCase_ToggleChecklistItem(t *testing.T) {
	t.Run("toggle flips membership", func(t *testing.T) {
		uc, repo := setup(t)
		caseModel, detail := attach(t, uc, repo)
		owner := actorCtx("u-bob", types.RoleAnalyst)

		execution, err := uc.Execution.ToggleChecklistItem(owner, caseModel.ID, detail.Execution.ID, 0, 1)
		gt.NoError(t, err).Required()
		gt.Array(t, execution.StepState(0).Checklist).Equal([]int{1})

		execution, err = uc.Execution.ToggleChecklistItem(owner, caseModel.ID, detail.Execution.ID, 0, 1)
		gt.NoError(t, err).Required()
		gt.Number(t, len(execution.StepState(0).Checklist)).Equal(0)
	})

	t.Run("item index beyond the template checklist is stored", func(t *testing.T) {
		uc, repo := setup(t)
		caseModel, detail := attach(t, uc, repo)
		owner := actorCtx("u-bob", types.RoleAnalyst)

		execution, err := uc.Execution.ToggleChecklistItem(owner, caseModel.ID, detail.Execution.ID, 2, 7)
		gt.NoError(t, err).Required()
		gt.Array(t, execution.StepState(2).Checklist).Equal([]int{7})
	})

	t.Run("step index outside the template fails", func(t *testing.T) {
		uc, repo := setup(t)
		caseModel, detail := attach(t, uc, repo)
		owner := actorCtx("u-bob", types.RoleAnalyst)

		_, err := uc.Execution.ToggleChecklistItem(owner, caseModel.ID, detail.Execution.ID, 3, 0)
		gt.Error(t, err).Is(usecase.ErrValidation)

		_, err = uc.Execution.ToggleChecklistItem(owner, caseModel.ID, detail.Execution.ID, -1, 0)
		gt.Error(t, err).Is(usecase.ErrValidation)
	})

	t.Run("negative item index fails", func(t *testing.T) {
		uc, repo := setup(t)
		caseModel, detail := attach(t, uc, repo)
		owner := actorCtx("u-bob", types.RoleAnalyst)

		_, err := uc.Execution.ToggleChecklistItem(owner, caseModel.ID, detail.Execution.ID, 0, -1)
		gt.Error(t, err).Is(usecase.ErrValidation)
	})
}

func TestExecutionUseCase_SetStepComment(t *testing.T) {
	t.Run("comment is recorded per step", func(t *testing.T) {
		uc, repo := setup(t)
		caseModel, detail := attach(t, uc, repo)
		owner := actorCtx("u-bob", types.RoleAnalyst)

		execution, err := uc.Execution.SetStepComment(owner, caseModel.ID, detail.Execution.ID, 1, "no IOCs found yet")
		gt.NoError(t, err).Required()
		gt.Value(t, execution.StepState(1).Comment).Equal("no IOCs found yet")
		gt.Value(t, execution.StepState(0).Comment).Equal("")
	})
}

func TestExecutionUseCase_CompleteExecution(t *testing.T) {
	t.Run("complete is one-way and keeps its timestamp", func(t *testing.T) {
		uc, repo := setup(t)
		caseModel, detail := attach(t, uc, repo)
		owner := actorCtx("u-bob", types.RoleAnalyst)

		completed, err := uc.Execution.CompleteExecution(owner, caseModel.ID, detail.Execution.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, completed.CompletedAt).NotNil()

		first := *completed.CompletedAt
		_, err = uc.Execution.CompleteExecution(owner, caseModel.ID, detail.Execution.ID)
		gt.Error(t, err).Is(usecase.ErrInvalidTransition)

		current, _, err := uc.Execution.GetExecution(owner, caseModel.ID, detail.Execution.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, *current.CompletedAt).Equal(first)
	})

	t.Run("completion notifies the other participant", func(t *testing.T) {
		uc, repo := setup(t)
		caseModel, detail := attach(t, uc, repo)
		owner := actorCtx("u-bob", types.RoleAnalyst)

		_, err := uc.Execution.CompleteExecution(owner, caseModel.ID, detail.Execution.ID)
		gt.NoError(t, err).Required()

		notifications, err := uc.Notification.ListNotifications(actorCtx("u-alice", types.RoleAnalyst))
		gt.NoError(t, err).Required()
		gt.Number(t, len(notifications)).Equal(1)
		gt.Value(t, notifications[0].Type).Equal(types.NotificationTypePlaybookCompleted)
		gt.Value(t, notifications[0].CaseID).Equal(caseModel.ID)
	})
}

func TestExecutionUseCase_DetachPlaybook(t *testing.T) {
	t.Run("detach removes attachment and execution", func(t *testing.T) {
		uc, repo := setup(t)
		caseModel, detail := attach(t, uc, repo)
		owner := actorCtx("u-bob", types.RoleAnalyst)

		gt.NoError(t, uc.Execution.DetachPlaybook(owner, caseModel.ID, detail.CasePlaybook.ID)).Required()

		details, err := uc.Execution.ListCasePlaybooks(owner, caseModel.ID)
		gt.NoError(t, err).Required()
		gt.Number(t, len(details)).Equal(0)

		_, _, err = uc.Execution.GetExecution(owner, caseModel.ID, detail.Execution.ID)
		gt.Error(t, err).Is(usecase.ErrExecutionNotFound)
	})

	t.Run("detach from another case fails", func(t *testing.T) {
		uc, repo := setup(t)
		_, detail := attach(t, uc, repo)
		creator := actorCtx("u-alice", types.RoleAnalyst)

		other, err := uc.Case.CreateCase(creator, "Other", "", types.SeverityLow, "")
		gt.NoError(t, err).Required()

		err = uc.Execution.DetachPlaybook(creator, other.ID, detail.CasePlaybook.ID)
		gt.Error(t, err).Is(usecase.ErrCasePlaybookNotFound)
	})
}
