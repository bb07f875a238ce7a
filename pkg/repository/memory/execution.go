package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type executionRepository struct {
	mu         sync.RWMutex
	executions map[model.ExecutionID]*model.PlaybookExecution
}

func newExecutionRepository() *executionRepository {
	return &executionRepository{
		executions: make(map[model.ExecutionID]*model.PlaybookExecution),
	}
}

// copyExecution creates a deep copy of an execution
func copyExecution(e *model.PlaybookExecution) *model.PlaybookExecution {
	copied := *e
	if e.StepStates != nil {
		copied.StepStates = make([]model.StepState, len(e.StepStates))
		for i, state := range e.StepStates {
			copiedState := state
			if state.Checklist != nil {
				copiedState.Checklist = make([]int, len(state.Checklist))
				copy(copiedState.Checklist, state.Checklist)
			}
			copied.StepStates[i] = copiedState
		}
	}
	if e.CompletedAt != nil {
		t := *e.CompletedAt
		copied.CompletedAt = &t
	}
	return &copied
}

func (r *executionRepository) Create(ctx context.Context, e *model.PlaybookExecution) (*model.PlaybookExecution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyExecution(e)
	if created.ID == "" {
		created.ID = model.NewExecutionID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.executions[created.ID] = created
	return copyExecution(created), nil
}

func (r *executionRepository) Get(ctx context.Context, id model.ExecutionID) (*model.PlaybookExecution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.executions[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "execution not found", goerr.V("id", id))
	}

	return copyExecution(e), nil
}

func (r *executionRepository) GetByCasePlaybook(ctx context.Context, casePlaybookID model.CasePlaybookID) (*model.PlaybookExecution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.executions {
		if e.CasePlaybookID == casePlaybookID {
			return copyExecution(e), nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "execution not found", goerr.V("casePlaybookID", casePlaybookID))
}

func (r *executionRepository) Update(ctx context.Context, e *model.PlaybookExecution) (*model.PlaybookExecution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.executions[e.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "execution not found", goerr.V("id", e.ID))
	}

	updated := copyExecution(e)
	updated.CasePlaybookID = existing.CasePlaybookID // immutable
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.executions[updated.ID] = updated
	return copyExecution(updated), nil
}

func (r *executionRepository) Delete(ctx context.Context, id model.ExecutionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.executions[id]; !exists {
		return goerr.Wrap(ErrNotFound, "execution not found", goerr.V("id", id))
	}

	delete(r.executions, id)
	return nil
}
