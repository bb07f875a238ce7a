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
)

// TaskUseCase owns task creation, reassignment and closure rules scoped to
// a case.
type TaskUseCase struct {
	repo interfaces.Repository
	bus  *event.Bus
}

func NewTaskUseCase(repo interfaces.Repository, bus *event.Bus) *TaskUseCase {
	return &TaskUseCase{
		repo: repo,
		bus:  bus,
	}
}

func (uc *TaskUseCase) CreateTask(ctx context.Context, caseID int64, name, description, assignedTo string, priority types.TaskPriority, dueDate *time.Time) (*model.Task, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	caseModel, err := uc.repo.Case().Get(ctx, caseID)
	if err != nil {
		return nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, caseID))
	}

	// Precondition order matters: a resolved case rejects task creation
	// even for the case owner.
	if caseModel.IsResolved() {
		return nil, goerr.Wrap(ErrCaseResolved, "cannot create task on resolved case",
			goerr.V(CaseIDKey, caseID))
	}

	if !model.GrantsFor(actor.Sub, caseModel).ManageTasks {
		return nil, goerr.Wrap(ErrForbidden, "only the case assignee may create tasks",
			goerr.V(CaseIDKey, caseID), goerr.V(UserIDKey, actor.Sub))
	}

	if name == "" {
		return nil, goerr.Wrap(ErrValidation, "task name is required")
	}

	priority = priority.Normalize()
	if !priority.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "invalid task priority", goerr.V("priority", priority))
	}

	if assignedTo != "" {
		if _, err := uc.repo.User().Get(ctx, assignedTo); err != nil {
			return nil, goerr.Wrap(ErrUserNotFound, "task assignee does not exist",
				goerr.V(UserIDKey, assignedTo))
		}
	}

	task := &model.Task{
		CaseID:      caseID,
		Name:        name,
		Description: description,
		AssignedTo:  assignedTo,
		Priority:    priority,
		Status:      types.TaskStatusPending,
		CreatedBy:   actor.Sub,
		DueDate:     dueDate,
	}

	created, err := uc.repo.Task().Create(ctx, task)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create task", goerr.V(CaseIDKey, caseID))
	}

	uc.bus.Publish(ctx, model.TransitionEvent{
		Type:    types.NotificationTypeTaskCreated,
		CaseID:  caseID,
		ActorID: actor.Sub,
		Title:   "New task",
		Message: fmt.Sprintf("Task %q was added to the case", created.Name),
	})

	return created, nil
}

// UpdateTaskInput carries the optional field updates of UpdateTask. Nil
// means "leave unchanged". The fields split into two authorization groups:
// ownership fields (name, description, priority, due date, assignee) are
// the case owner's, while status/result/comment belong to the task
// assignee or the case owner.
type UpdateTaskInput struct {
	Name         *string
	Description  *string
	AssignedTo   *string
	Priority     *types.TaskPriority
	DueDate      *time.Time
	ClearDueDate bool

	Status  *types.TaskStatus
	Result  *types.TaskResult
	Comment *string
}

func (in UpdateTaskInput) touchesOwnershipFields() bool {
	return in.Name != nil || in.Description != nil || in.AssignedTo != nil ||
		in.Priority != nil || in.DueDate != nil || in.ClearDueDate
}

func (in UpdateTaskInput) touchesClosureFields() bool {
	return in.Status != nil || in.Result != nil || in.Comment != nil
}

func (uc *TaskUseCase) UpdateTask(ctx context.Context, id int64, input UpdateTaskInput) (*model.Task, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := uc.repo.Task().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, id))
	}

	caseModel, err := uc.repo.Case().Get(ctx, existing.CaseID)
	if err != nil {
		return nil, goerr.Wrap(ErrCaseNotFound, "parent case not found",
			goerr.V(CaseIDKey, existing.CaseID), goerr.V(TaskIDKey, id))
	}

	grants := model.GrantsFor(actor.Sub, caseModel)
	if input.touchesOwnershipFields() && !grants.ManageTasks {
		return nil, goerr.Wrap(ErrForbidden, "only the case assignee may edit task fields",
			goerr.V(TaskIDKey, id), goerr.V(UserIDKey, actor.Sub))
	}
	if input.touchesClosureFields() && !model.CanCloseTask(actor.Sub, caseModel, existing) {
		return nil, goerr.Wrap(ErrForbidden, "only the task assignee or case assignee may edit task status",
			goerr.V(TaskIDKey, id), goerr.V(UserIDKey, actor.Sub))
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, goerr.Wrap(ErrValidation, "task name cannot be empty", goerr.V(TaskIDKey, id))
		}
		existing.Name = *input.Name
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.AssignedTo != nil {
		if *input.AssignedTo != "" {
			if _, err := uc.repo.User().Get(ctx, *input.AssignedTo); err != nil {
				return nil, goerr.Wrap(ErrUserNotFound, "task assignee does not exist",
					goerr.V(UserIDKey, *input.AssignedTo))
			}
		}
		existing.AssignedTo = *input.AssignedTo
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, goerr.Wrap(ErrValidation, "invalid task priority",
				goerr.V("priority", *input.Priority), goerr.V(TaskIDKey, id))
		}
		existing.Priority = *input.Priority
	}
	if input.ClearDueDate {
		existing.DueDate = nil
	} else if input.DueDate != nil {
		existing.DueDate = input.DueDate
	}

	if input.Status != nil {
		if err := uc.applyStatusChange(existing, input); err != nil {
			return nil, err
		}
	} else if input.Result != nil {
		// Result is set only at closure.
		return nil, goerr.Wrap(ErrValidation, "task result requires a terminal status in the same call",
			goerr.V(TaskIDKey, id))
	} else if input.Comment != nil {
		existing.Comment = *input.Comment
	}

	updated, err := uc.repo.Task().Update(ctx, existing)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update task", goerr.V(TaskIDKey, id))
	}

	return updated, nil
}

// applyStatusChange validates and applies a status transition in place.
// Closure (pending/in_progress -> completed/failed) is final and requires
// result and comment in the same call; CompletedAt is stamped exactly once.
func (uc *TaskUseCase) applyStatusChange(task *model.Task, input UpdateTaskInput) error {
	status := *input.Status
	if !status.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid task status",
			goerr.V("status", status), goerr.V(TaskIDKey, task.ID))
	}

	if task.IsClosed() {
		return goerr.Wrap(ErrInvalidTransition, "task is already closed",
			goerr.V(TaskIDKey, task.ID), goerr.V("status", task.Status))
	}

	if status.IsTerminal() {
		if input.Result == nil || input.Comment == nil || *input.Comment == "" {
			return goerr.Wrap(ErrValidation, "closing a task requires result and comment",
				goerr.V(TaskIDKey, task.ID))
		}
		if !input.Result.IsValid() {
			return goerr.Wrap(ErrValidation, "invalid task result",
				goerr.V("result", *input.Result), goerr.V(TaskIDKey, task.ID))
		}
		if input.Result.Status() != status {
			return goerr.Wrap(ErrValidation, "task result does not match terminal status",
				goerr.V("result", *input.Result), goerr.V("status", status))
		}

		now := time.Now().UTC()
		task.Status = status
		task.Result = *input.Result
		task.Comment = *input.Comment
		task.CompletedAt = &now
		return nil
	}

	if input.Result != nil {
		return goerr.Wrap(ErrValidation, "task result requires a terminal status in the same call",
			goerr.V(TaskIDKey, task.ID), goerr.V("status", status))
	}

	task.Status = status
	if input.Comment != nil {
		task.Comment = *input.Comment
	}
	return nil
}

// CloseTask is the closure action: it moves the task into the terminal
// status matching result, with the mandatory closure comment.
func (uc *TaskUseCase) CloseTask(ctx context.Context, id int64, result types.TaskResult, comment string) (*model.Task, error) {
	if !result.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "invalid task result",
			goerr.V("result", result), goerr.V(TaskIDKey, id))
	}

	status := result.Status()
	return uc.UpdateTask(ctx, id, UpdateTaskInput{
		Status:  &status,
		Result:  &result,
		Comment: &comment,
	})
}

func (uc *TaskUseCase) DeleteTask(ctx context.Context, id int64) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	existing, err := uc.repo.Task().Get(ctx, id)
	if err != nil {
		return goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, id))
	}

	caseModel, err := uc.repo.Case().Get(ctx, existing.CaseID)
	if err != nil {
		return goerr.Wrap(ErrCaseNotFound, "parent case not found",
			goerr.V(CaseIDKey, existing.CaseID), goerr.V(TaskIDKey, id))
	}

	if !model.GrantsFor(actor.Sub, caseModel).ManageTasks {
		return goerr.Wrap(ErrForbidden, "only the case assignee may delete tasks",
			goerr.V(TaskIDKey, id), goerr.V(UserIDKey, actor.Sub))
	}

	if err := uc.repo.Task().Delete(ctx, id); err != nil {
		return goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, id))
	}

	return nil
}

func (uc *TaskUseCase) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	task, err := uc.repo.Task().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, id))
	}

	return task, nil
}

func (uc *TaskUseCase) ListTasksByCase(ctx context.Context, caseID int64) ([]*model.Task, error) {
	if _, err := uc.repo.Case().Get(ctx, caseID); err != nil {
		return nil, goerr.Wrap(ErrCaseNotFound, "case not found", goerr.V(CaseIDKey, caseID))
	}

	tasks, err := uc.repo.Task().GetByCase(ctx, caseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks", goerr.V(CaseIDKey, caseID))
	}

	return tasks, nil
}
