package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

func runPlaybookRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("steps round-trip and stay isolated", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Playbook().Create(ctx, &model.Playbook{
			Name: "Triage",
			Steps: []model.PlaybookStep{
				{Title: "Scope", Checklist: []string{"list hosts"}},
				{Title: "Contain"},
			},
		})
		gt.NoError(t, err).Required()
		gt.Number(t, created.ID).NotEqual(0)

		created.Steps[0].Checklist[0] = "mutated"

		got, err := repo.Playbook().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Number(t, len(got.Steps)).Equal(2)
		gt.Value(t, got.Steps[0].Checklist[0]).Equal("list hosts")
	})

	t.Run("Update replaces the step list", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Playbook().Create(ctx, &model.Playbook{
			Name:  "Before",
			Steps: []model.PlaybookStep{{Title: "One"}, {Title: "Two"}},
		})
		gt.NoError(t, err).Required()

		created.Name = "After"
		created.Steps = []model.PlaybookStep{{Title: "Only"}}
		updated, err := repo.Playbook().Update(ctx, created)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Name).Equal("After")
		gt.Number(t, len(updated.Steps)).Equal(1)
	})

	t.Run("List returns all templates", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, name := range []string{"A", "B"} {
			_, err := repo.Playbook().Create(ctx, &model.Playbook{
				Name:  name,
				Steps: []model.PlaybookStep{{Title: "Step"}},
			})
			gt.NoError(t, err).Required()
		}

		playbooks, err := repo.Playbook().List(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, len(playbooks)).Equal(2)
	})

	t.Run("Get of a missing template fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Playbook().Get(ctx, 424242)
		gt.Value(t, err).NotNil()
	})
}

func TestPlaybookRepository_Memory(t *testing.T) {
	runPlaybookRepositoryTest(t, newMemory)
}

func TestPlaybookRepository_Firestore(t *testing.T) {
	runPlaybookRepositoryTest(t, newFirestore)
}
