package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
)

// PlaybookUseCase manages playbook templates. Templates are data, not
// instance state: editing one never touches executions that already
// started from it.
type PlaybookUseCase struct {
	repo interfaces.Repository
}

func NewPlaybookUseCase(repo interfaces.Repository) *PlaybookUseCase {
	return &PlaybookUseCase{repo: repo}
}

func validatePlaybook(name string, steps []model.PlaybookStep) error {
	if name == "" {
		return goerr.Wrap(ErrValidation, "playbook name is required")
	}
	if len(steps) == 0 {
		return goerr.Wrap(ErrValidation, "playbook needs at least one step", goerr.V("name", name))
	}
	for i, step := range steps {
		if step.Title == "" {
			return goerr.Wrap(ErrValidation, "playbook step title is required",
				goerr.V("name", name), goerr.V("step", i))
		}
	}
	return nil
}

func (uc *PlaybookUseCase) CreatePlaybook(ctx context.Context, name string, steps []model.PlaybookStep) (*model.Playbook, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanManagePlaybookTemplates() {
		return nil, goerr.Wrap(ErrForbidden, "only admins may manage playbook templates",
			goerr.V(UserIDKey, actor.Sub), goerr.V("role", actor.Role))
	}

	if err := validatePlaybook(name, steps); err != nil {
		return nil, err
	}

	created, err := uc.repo.Playbook().Create(ctx, &model.Playbook{
		Name:  name,
		Steps: steps,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create playbook")
	}

	return created, nil
}

func (uc *PlaybookUseCase) UpdatePlaybook(ctx context.Context, id int64, name string, steps []model.PlaybookStep) (*model.Playbook, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanManagePlaybookTemplates() {
		return nil, goerr.Wrap(ErrForbidden, "only admins may manage playbook templates",
			goerr.V(UserIDKey, actor.Sub), goerr.V("role", actor.Role))
	}

	existing, err := uc.repo.Playbook().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrPlaybookNotFound, "playbook not found", goerr.V(PlaybookIDKey, id))
	}

	if err := validatePlaybook(name, steps); err != nil {
		return nil, err
	}

	existing.Name = name
	existing.Steps = steps

	updated, err := uc.repo.Playbook().Update(ctx, existing)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update playbook", goerr.V(PlaybookIDKey, id))
	}

	return updated, nil
}

func (uc *PlaybookUseCase) GetPlaybook(ctx context.Context, id int64) (*model.Playbook, error) {
	playbook, err := uc.repo.Playbook().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrPlaybookNotFound, "playbook not found", goerr.V(PlaybookIDKey, id))
	}

	return playbook, nil
}

func (uc *PlaybookUseCase) ListPlaybooks(ctx context.Context) ([]*model.Playbook, error) {
	playbooks, err := uc.repo.Playbook().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list playbooks")
	}

	return playbooks, nil
}

// Seed loads playbook templates into the repository at startup, matching by
// name so restarts do not duplicate the library.
func (uc *PlaybookUseCase) Seed(ctx context.Context, playbooks []*model.Playbook) error {
	existing, err := uc.repo.Playbook().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list playbooks for seeding")
	}

	byName := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		byName[p.Name] = struct{}{}
	}

	for _, p := range playbooks {
		if _, ok := byName[p.Name]; ok {
			continue
		}
		if err := validatePlaybook(p.Name, p.Steps); err != nil {
			return err
		}
		created, err := uc.repo.Playbook().Create(ctx, p)
		if err != nil {
			return goerr.Wrap(err, "failed to seed playbook", goerr.V("name", p.Name))
		}
		logging.From(ctx).Info("Seeded playbook template", "id", created.ID, "name", created.Name)
	}

	return nil
}
