package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type playbookRepository struct {
	mu        sync.RWMutex
	playbooks map[int64]*model.Playbook
	nextID    int64
}

func newPlaybookRepository() *playbookRepository {
	return &playbookRepository{
		playbooks: make(map[int64]*model.Playbook),
		nextID:    1,
	}
}

// copyPlaybook creates a deep copy of a playbook template
func copyPlaybook(p *model.Playbook) *model.Playbook {
	copied := *p
	if p.Steps != nil {
		copied.Steps = make([]model.PlaybookStep, len(p.Steps))
		for i, step := range p.Steps {
			copiedStep := step
			if step.Checklist != nil {
				copiedStep.Checklist = make([]string, len(step.Checklist))
				copy(copiedStep.Checklist, step.Checklist)
			}
			copied.Steps[i] = copiedStep
		}
	}
	return &copied
}

func (r *playbookRepository) Create(ctx context.Context, p *model.Playbook) (*model.Playbook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyPlaybook(p)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.playbooks[created.ID] = created
	return copyPlaybook(created), nil
}

func (r *playbookRepository) Get(ctx context.Context, id int64) (*model.Playbook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.playbooks[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "playbook not found", goerr.V("id", id))
	}

	return copyPlaybook(p), nil
}

func (r *playbookRepository) List(ctx context.Context) ([]*model.Playbook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	playbooks := make([]*model.Playbook, 0, len(r.playbooks))
	for _, p := range r.playbooks {
		playbooks = append(playbooks, copyPlaybook(p))
	}

	sort.Slice(playbooks, func(i, j int) bool {
		return playbooks[i].ID < playbooks[j].ID
	})

	return playbooks, nil
}

func (r *playbookRepository) Update(ctx context.Context, p *model.Playbook) (*model.Playbook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.playbooks[p.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "playbook not found", goerr.V("id", p.ID))
	}

	updated := copyPlaybook(p)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.playbooks[updated.ID] = updated
	return copyPlaybook(updated), nil
}

func (r *playbookRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.playbooks[id]; !exists {
		return goerr.Wrap(ErrNotFound, "playbook not found", goerr.V("id", id))
	}

	delete(r.playbooks, id)
	return nil
}
