package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/model/auth"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/service/event"
)

// ExecutionUseCase drives playbook attachments and their execution state.
// Attaching a playbook to a case eagerly creates the execution at step 0,
// so an attachment always has exactly one execution.
type ExecutionUseCase struct {
	repo interfaces.Repository
	bus  *event.Bus
}

func NewExecutionUseCase(repo interfaces.Repository, bus *event.Bus) *ExecutionUseCase {
	return &ExecutionUseCase{
		repo: repo,
		bus:  bus,
	}
}

// CasePlaybookDetail bundles an attachment with its template and execution
// for read APIs.
type CasePlaybookDetail struct {
	CasePlaybook *model.CasePlaybook      `json:"casePlaybook"`
	Playbook     *model.Playbook          `json:"playbook"`
	Execution    *model.PlaybookExecution `json:"execution"`
}

// guardCase loads the case and checks the actor may manage its playbooks.
func (uc *ExecutionUseCase) guardCase(ctx context.Context, caseID int64) (*auth.Token, *model.Case, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}

	caseModel, err := uc.repo.Case().Get(ctx, caseID)
	if err != nil {
		return nil, nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, caseID))
	}

	if !model.GrantsFor(actor.Sub, caseModel).ManagePlaybooks {
		return nil, nil, goerr.Wrap(ErrForbidden, "only the case creator or assignee may manage playbooks",
			goerr.V(CaseIDKey, caseID), goerr.V(UserIDKey, actor.Sub))
	}

	return actor, caseModel, nil
}

// AttachPlaybook binds a playbook template to a case and starts its
// execution at the first step. Attaching the same playbook twice is
// rejected, not merged.
func (uc *ExecutionUseCase) AttachPlaybook(ctx context.Context, caseID, playbookID int64) (*CasePlaybookDetail, error) {
	actor, caseModel, err := uc.guardCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	if caseModel.IsResolved() {
		return nil, goerr.Wrap(ErrCaseResolved, "cannot attach playbook to resolved case",
			goerr.V(CaseIDKey, caseID))
	}

	playbook, err := uc.repo.Playbook().Get(ctx, playbookID)
	if err != nil {
		return nil, goerr.Wrap(ErrPlaybookNotFound, "playbook not found", goerr.V(PlaybookIDKey, playbookID))
	}

	existing, err := uc.repo.CasePlaybook().GetByCaseAndPlaybook(ctx, caseID, playbookID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to check existing attachment",
			goerr.V(CaseIDKey, caseID), goerr.V(PlaybookIDKey, playbookID))
	}
	if existing != nil {
		return nil, goerr.Wrap(ErrPlaybookAlreadyAttached, "playbook is already attached",
			goerr.V(CaseIDKey, caseID), goerr.V(PlaybookIDKey, playbookID))
	}

	attachment := &model.CasePlaybook{
		ID:         model.NewCasePlaybookID(),
		CaseID:     caseID,
		PlaybookID: playbookID,
		AddedBy:    actor.Sub,
	}
	created, err := uc.repo.CasePlaybook().Create(ctx, attachment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to attach playbook",
			goerr.V(CaseIDKey, caseID), goerr.V(PlaybookIDKey, playbookID))
	}

	execution := &model.PlaybookExecution{
		ID:               model.NewExecutionID(),
		CasePlaybookID:   created.ID,
		CurrentStepIndex: 0,
	}
	createdExec, err := uc.repo.Execution().Create(ctx, execution)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create execution",
			goerr.V("case_playbook_id", created.ID))
	}

	return &CasePlaybookDetail{
		CasePlaybook: created,
		Playbook:     playbook,
		Execution:    createdExec,
	}, nil
}

// DetachPlaybook removes the attachment and its execution.
func (uc *ExecutionUseCase) DetachPlaybook(ctx context.Context, caseID int64, casePlaybookID model.CasePlaybookID) error {
	_, _, err := uc.guardCase(ctx, caseID)
	if err != nil {
		return err
	}

	attachment, err := uc.repo.CasePlaybook().Get(ctx, casePlaybookID)
	if err != nil || attachment.CaseID != caseID {
		return goerr.Wrap(ErrCasePlaybookNotFound, "playbook attachment not found",
			goerr.V(CaseIDKey, caseID), goerr.V("case_playbook_id", casePlaybookID))
	}

	execution, err := uc.repo.Execution().GetByCasePlaybook(ctx, casePlaybookID)
	if err == nil {
		if err := uc.repo.Execution().Delete(ctx, execution.ID); err != nil {
			return goerr.Wrap(err, "failed to delete execution",
				goerr.V(ExecutionIDKey, execution.ID))
		}
	}

	if err := uc.repo.CasePlaybook().Delete(ctx, casePlaybookID); err != nil {
		return goerr.Wrap(err, "failed to detach playbook",
			goerr.V("case_playbook_id", casePlaybookID))
	}

	return nil
}

// ListCasePlaybooks returns every attachment of the case with its template
// and execution.
func (uc *ExecutionUseCase) ListCasePlaybooks(ctx context.Context, caseID int64) ([]*CasePlaybookDetail, error) {
	if _, err := uc.repo.Case().Get(ctx, caseID); err != nil {
		return nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, caseID))
	}

	attachments, err := uc.repo.CasePlaybook().GetByCase(ctx, caseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list case playbooks", goerr.V(CaseIDKey, caseID))
	}

	details := make([]*CasePlaybookDetail, 0, len(attachments))
	for _, attachment := range attachments {
		playbook, err := uc.repo.Playbook().Get(ctx, attachment.PlaybookID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get playbook for attachment",
				goerr.V(PlaybookIDKey, attachment.PlaybookID))
		}
		execution, err := uc.repo.Execution().GetByCasePlaybook(ctx, attachment.ID)
		if err != nil {
			return nil, goerr.Wrap(ErrExecutionNotFound, "execution not found for attachment",
				goerr.V("case_playbook_id", attachment.ID))
		}
		details = append(details, &CasePlaybookDetail{
			CasePlaybook: attachment,
			Playbook:     playbook,
			Execution:    execution,
		})
	}

	return details, nil
}

// loadExecution resolves the execution with its attachment and template,
// verifying the attachment belongs to caseID.
func (uc *ExecutionUseCase) loadExecution(ctx context.Context, caseID int64, executionID model.ExecutionID) (*model.PlaybookExecution, *model.Playbook, error) {
	execution, err := uc.repo.Execution().Get(ctx, executionID)
	if err != nil {
		return nil, nil, goerr.Wrap(ErrExecutionNotFound, "execution not found",
			goerr.V(ExecutionIDKey, executionID))
	}

	attachment, err := uc.repo.CasePlaybook().Get(ctx, execution.CasePlaybookID)
	if err != nil || attachment.CaseID != caseID {
		return nil, nil, goerr.Wrap(ErrExecutionNotFound, "execution not found on case",
			goerr.V(CaseIDKey, caseID), goerr.V(ExecutionIDKey, executionID))
	}

	playbook, err := uc.repo.Playbook().Get(ctx, attachment.PlaybookID)
	if err != nil {
		return nil, nil, goerr.Wrap(ErrPlaybookNotFound, "playbook template is gone",
			goerr.V(PlaybookIDKey, attachment.PlaybookID))
	}

	return execution, playbook, nil
}

// AdvanceStep moves the execution pointer forward one step, clamped to the
// last step of the template.
func (uc *ExecutionUseCase) AdvanceStep(ctx context.Context, caseID int64, executionID model.ExecutionID) (*model.PlaybookExecution, error) {
	return uc.moveStep(ctx, caseID, executionID, 1)
}

// RetreatStep moves the execution pointer back one step, clamped to 0.
func (uc *ExecutionUseCase) RetreatStep(ctx context.Context, caseID int64, executionID model.ExecutionID) (*model.PlaybookExecution, error) {
	return uc.moveStep(ctx, caseID, executionID, -1)
}

func (uc *ExecutionUseCase) moveStep(ctx context.Context, caseID int64, executionID model.ExecutionID, delta int) (*model.PlaybookExecution, error) {
	if _, _, err := uc.guardCase(ctx, caseID); err != nil {
		return nil, err
	}

	execution, playbook, err := uc.loadExecution(ctx, caseID, executionID)
	if err != nil {
		return nil, err
	}

	if execution.IsCompleted() {
		return nil, goerr.Wrap(ErrInvalidTransition, "execution is already completed",
			goerr.V(ExecutionIDKey, executionID))
	}

	execution.Advance(delta, len(playbook.Steps))

	updated, err := uc.repo.Execution().Update(ctx, execution)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update execution", goerr.V(ExecutionIDKey, executionID))
	}

	return updated, nil
}

// ToggleChecklistItem flips the completion of one checklist item on one
// step. The step index must address a template step; the item index is
// stored as-is so templates can grow items later.
func (uc *ExecutionUseCase) ToggleChecklistItem(ctx context.Context, caseID int64, executionID model.ExecutionID, stepIndex, itemIndex int) (*model.PlaybookExecution, error) {
	if _, _, err := uc.guardCase(ctx, caseID); err != nil {
		return nil, err
	}

	execution, playbook, err := uc.loadExecution(ctx, caseID, executionID)
	if err != nil {
		return nil, err
	}

	if stepIndex < 0 || stepIndex >= len(playbook.Steps) {
		return nil, goerr.Wrap(ErrValidation, "step index out of range",
			goerr.V("step_index", stepIndex), goerr.V("steps", len(playbook.Steps)))
	}
	if itemIndex < 0 {
		return nil, goerr.Wrap(ErrValidation, "item index must not be negative",
			goerr.V("item_index", itemIndex))
	}

	execution.ToggleChecklistItem(stepIndex, itemIndex)

	updated, err := uc.repo.Execution().Update(ctx, execution)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update execution", goerr.V(ExecutionIDKey, executionID))
	}

	return updated, nil
}

// SetStepComment records free-form notes on one step.
func (uc *ExecutionUseCase) SetStepComment(ctx context.Context, caseID int64, executionID model.ExecutionID, stepIndex int, comment string) (*model.PlaybookExecution, error) {
	if _, _, err := uc.guardCase(ctx, caseID); err != nil {
		return nil, err
	}

	execution, playbook, err := uc.loadExecution(ctx, caseID, executionID)
	if err != nil {
		return nil, err
	}

	if stepIndex < 0 || stepIndex >= len(playbook.Steps) {
		return nil, goerr.Wrap(ErrValidation, "step index out of range",
			goerr.V("step_index", stepIndex), goerr.V("steps", len(playbook.Steps)))
	}

	execution.SetStepComment(stepIndex, comment)

	updated, err := uc.repo.Execution().Update(ctx, execution)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update execution", goerr.V(ExecutionIDKey, executionID))
	}

	return updated, nil
}

// CompleteExecution marks the execution done. Completion is one-way; step
// states remain editable afterwards but the pointer and the completion
// timestamp do not move again.
func (uc *ExecutionUseCase) CompleteExecution(ctx context.Context, caseID int64, executionID model.ExecutionID) (*model.PlaybookExecution, error) {
	actor, _, err := uc.guardCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	execution, playbook, err := uc.loadExecution(ctx, caseID, executionID)
	if err != nil {
		return nil, err
	}

	if execution.IsCompleted() {
		return nil, goerr.Wrap(ErrInvalidTransition, "execution is already completed",
			goerr.V(ExecutionIDKey, executionID))
	}

	now := time.Now().UTC()
	execution.CompletedAt = &now

	updated, err := uc.repo.Execution().Update(ctx, execution)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to complete execution", goerr.V(ExecutionIDKey, executionID))
	}

	uc.bus.Publish(ctx, model.TransitionEvent{
		Type:    types.NotificationTypePlaybookCompleted,
		CaseID:  caseID,
		ActorID: actor.Sub,
		Title:   "Playbook completed",
		Message: fmt.Sprintf("Playbook %q finished all steps", playbook.Name),
	})

	return updated, nil
}

// GetExecution returns the execution with its template for read APIs.
func (uc *ExecutionUseCase) GetExecution(ctx context.Context, caseID int64, executionID model.ExecutionID) (*model.PlaybookExecution, *model.Playbook, error) {
	return uc.loadExecution(ctx, caseID, executionID)
}
