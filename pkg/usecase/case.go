package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/service/event"
	"github.com/secmon-lab/briareus/pkg/utils/errutil"
)

// CaseUseCase owns case status transitions and their preconditions.
type CaseUseCase struct {
	repo interfaces.Repository
	bus  *event.Bus
}

func NewCaseUseCase(repo interfaces.Repository, bus *event.Bus) *CaseUseCase {
	return &CaseUseCase{
		repo: repo,
		bus:  bus,
	}
}

func (uc *CaseUseCase) CreateCase(ctx context.Context, title, description string, severity types.Severity, assignedTo string) (*model.Case, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanCreateCase() {
		return nil, goerr.Wrap(ErrForbidden, "role may not create cases",
			goerr.V(UserIDKey, actor.Sub), goerr.V("role", actor.Role))
	}

	if title == "" {
		return nil, goerr.Wrap(ErrValidation, "case title is required")
	}

	if severity == "" {
		severity = types.SeverityMedium
	}
	if !severity.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "invalid severity", goerr.V("severity", severity))
	}

	if assignedTo != "" {
		if _, err := uc.repo.User().Get(ctx, assignedTo); err != nil {
			return nil, goerr.Wrap(ErrUserNotFound, "assignee does not exist", goerr.V(UserIDKey, assignedTo))
		}
	}

	caseModel := &model.Case{
		Title:       title,
		Description: description,
		Severity:    severity,
		Status:      types.CaseStatusOpen,
		AssignedTo:  assignedTo,
		CreatedBy:   actor.Sub,
	}

	created, err := uc.repo.Case().Create(ctx, caseModel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create case")
	}

	return created, nil
}

// UpdateCaseInput carries the optional field updates of UpdateCase. Nil
// means "leave unchanged".
type UpdateCaseInput struct {
	Title       *string
	Description *string
	Severity    *types.Severity
	AssignedTo  *string
}

func (uc *CaseUseCase) UpdateCase(ctx context.Context, id int64, input UpdateCaseInput) (*model.Case, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := uc.repo.Case().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, id))
	}

	if !model.GrantsFor(actor.Sub, existing).MutateCase {
		return nil, goerr.Wrap(ErrForbidden, "only the case creator may edit case fields",
			goerr.V(CaseIDKey, id), goerr.V(UserIDKey, actor.Sub))
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, goerr.Wrap(ErrValidation, "case title cannot be empty", goerr.V(CaseIDKey, id))
		}
		existing.Title = *input.Title
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.Severity != nil {
		if !input.Severity.IsValid() {
			return nil, goerr.Wrap(ErrValidation, "invalid severity",
				goerr.V("severity", *input.Severity), goerr.V(CaseIDKey, id))
		}
		existing.Severity = *input.Severity
	}
	if input.AssignedTo != nil {
		if *input.AssignedTo != "" {
			if _, err := uc.repo.User().Get(ctx, *input.AssignedTo); err != nil {
				return nil, goerr.Wrap(ErrUserNotFound, "assignee does not exist",
					goerr.V(UserIDKey, *input.AssignedTo))
			}
		}
		existing.AssignedTo = *input.AssignedTo
	}

	updated, err := uc.repo.Case().Update(ctx, existing)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update case", goerr.V(CaseIDKey, id))
	}

	return updated, nil
}

// ResolveCase transitions open -> resolved. Only the creator may resolve,
// and a non-empty resolution summary is mandatory. Resolving an already
// resolved case is a caller error, not a silent no-op.
func (uc *CaseUseCase) ResolveCase(ctx context.Context, id int64, resolutionSummary string) (*model.Case, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := uc.repo.Case().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, id))
	}

	if !model.GrantsFor(actor.Sub, existing).MutateCase {
		return nil, goerr.Wrap(ErrForbidden, "only the case creator may resolve the case",
			goerr.V(CaseIDKey, id), goerr.V(UserIDKey, actor.Sub))
	}

	if resolutionSummary == "" {
		return nil, goerr.Wrap(ErrValidation, "resolution summary is required", goerr.V(CaseIDKey, id))
	}

	if existing.IsResolved() {
		return nil, goerr.Wrap(ErrInvalidTransition, "case is already resolved", goerr.V(CaseIDKey, id))
	}

	now := time.Now().UTC()
	existing.Status = types.CaseStatusResolved
	existing.ResolutionSummary = resolutionSummary
	existing.ResolvedAt = &now

	updated, err := uc.repo.Case().Update(ctx, existing)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve case", goerr.V(CaseIDKey, id))
	}

	uc.bus.Publish(ctx, model.TransitionEvent{
		Type:    types.NotificationTypeCaseClosed,
		CaseID:  updated.ID,
		ActorID: actor.Sub,
		Title:   "Case resolved",
		Message: resolutionSummary,
	})

	return updated, nil
}

// ReopenCase transitions resolved -> open. The creator or the assignee may
// reopen. ResolvedAt is cleared; the resolution summary is retained as
// history.
func (uc *CaseUseCase) ReopenCase(ctx context.Context, id int64) (*model.Case, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := uc.repo.Case().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, id))
	}

	if !model.GrantsFor(actor.Sub, existing).ReopenCase {
		return nil, goerr.Wrap(ErrForbidden, "only the case creator or assignee may reopen the case",
			goerr.V(CaseIDKey, id), goerr.V(UserIDKey, actor.Sub))
	}

	if !existing.IsResolved() {
		return nil, goerr.Wrap(ErrInvalidTransition, "case is already open", goerr.V(CaseIDKey, id))
	}

	existing.Status = types.CaseStatusOpen
	existing.ResolvedAt = nil

	updated, err := uc.repo.Case().Update(ctx, existing)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to reopen case", goerr.V(CaseIDKey, id))
	}

	uc.bus.Publish(ctx, model.TransitionEvent{
		Type:    types.NotificationTypeCaseReopened,
		CaseID:  updated.ID,
		ActorID: actor.Sub,
		Title:   "Case reopened",
		Message: fmt.Sprintf("Case #%d was reopened", updated.ID),
	})

	return updated, nil
}

func (uc *CaseUseCase) GetCase(ctx context.Context, id int64) (*model.Case, error) {
	caseModel, err := uc.repo.Case().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, id))
	}

	return caseModel, nil
}

func (uc *CaseUseCase) ListCases(ctx context.Context) ([]*model.Case, error) {
	cases, err := uc.repo.Case().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases")
	}

	return cases, nil
}

// DeleteCase removes the case and cascades to its tasks, playbook
// attachments and executions.
func (uc *CaseUseCase) DeleteCase(ctx context.Context, id int64) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	existing, err := uc.repo.Case().Get(ctx, id)
	if err != nil {
		return goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, id))
	}

	if !model.GrantsFor(actor.Sub, existing).MutateCase {
		return goerr.Wrap(ErrForbidden, "only the case creator may delete the case",
			goerr.V(CaseIDKey, id), goerr.V(UserIDKey, actor.Sub))
	}

	tasks, err := uc.repo.Task().GetByCase(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to get tasks for case", goerr.V(CaseIDKey, id))
	}
	for _, task := range tasks {
		if err := uc.repo.Task().Delete(ctx, task.ID); err != nil {
			return goerr.Wrap(err, "failed to delete task",
				goerr.V(CaseIDKey, id), goerr.V(TaskIDKey, task.ID))
		}
	}

	attachments, err := uc.repo.CasePlaybook().GetByCase(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to get case playbooks", goerr.V(CaseIDKey, id))
	}
	for _, attachment := range attachments {
		execution, err := uc.repo.Execution().GetByCasePlaybook(ctx, attachment.ID)
		if err == nil {
			if err := uc.repo.Execution().Delete(ctx, execution.ID); err != nil {
				errutil.Handle(ctx, err, "failed to delete execution during case cascade")
			}
		}
		if err := uc.repo.CasePlaybook().Delete(ctx, attachment.ID); err != nil {
			return goerr.Wrap(err, "failed to delete case playbook",
				goerr.V(CaseIDKey, id), goerr.V("case_playbook_id", attachment.ID))
		}
	}

	if err := uc.repo.Case().Delete(ctx, id); err != nil {
		return goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, id))
	}

	return nil
}
