package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type casePlaybookRepository struct {
	mu          sync.RWMutex
	attachments map[model.CasePlaybookID]*model.CasePlaybook
}

func newCasePlaybookRepository() *casePlaybookRepository {
	return &casePlaybookRepository{
		attachments: make(map[model.CasePlaybookID]*model.CasePlaybook),
	}
}

func copyCasePlaybook(cp *model.CasePlaybook) *model.CasePlaybook {
	copied := *cp
	return &copied
}

func (r *casePlaybookRepository) Create(ctx context.Context, cp *model.CasePlaybook) (*model.CasePlaybook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyCasePlaybook(cp)
	if created.ID == "" {
		created.ID = model.NewCasePlaybookID()
	}
	created.CreatedAt = time.Now().UTC()

	r.attachments[created.ID] = created
	return copyCasePlaybook(created), nil
}

func (r *casePlaybookRepository) Get(ctx context.Context, id model.CasePlaybookID) (*model.CasePlaybook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cp, exists := r.attachments[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "case playbook not found", goerr.V("id", id))
	}

	return copyCasePlaybook(cp), nil
}

func (r *casePlaybookRepository) GetByCaseAndPlaybook(ctx context.Context, caseID, playbookID int64) (*model.CasePlaybook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, cp := range r.attachments {
		if cp.CaseID == caseID && cp.PlaybookID == playbookID {
			return copyCasePlaybook(cp), nil
		}
	}

	return nil, nil
}

func (r *casePlaybookRepository) GetByCase(ctx context.Context, caseID int64) ([]*model.CasePlaybook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	attachments := make([]*model.CasePlaybook, 0)
	for _, cp := range r.attachments {
		if cp.CaseID == caseID {
			attachments = append(attachments, copyCasePlaybook(cp))
		}
	}

	sort.Slice(attachments, func(i, j int) bool {
		return attachments[i].CreatedAt.Before(attachments[j].CreatedAt)
	})

	return attachments, nil
}

func (r *casePlaybookRepository) Delete(ctx context.Context, id model.CasePlaybookID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.attachments[id]; !exists {
		return goerr.Wrap(ErrNotFound, "case playbook not found", goerr.V("id", id))
	}

	delete(r.attachments, id)
	return nil
}
