package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type casePlaybookRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCasePlaybookRepository(client *firestore.Client) *casePlaybookRepository {
	return &casePlaybookRepository{client: client}
}

func (r *casePlaybookRepository) collection() string {
	return collectionName(r.collectionPrefix, "case_playbooks")
}

func (r *casePlaybookRepository) Create(ctx context.Context, cp *model.CasePlaybook) (*model.CasePlaybook, error) {
	created := *cp
	if created.ID == "" {
		created.ID = model.NewCasePlaybookID()
	}
	created.CreatedAt = time.Now().UTC()

	if _, err := r.client.Collection(r.collection()).Doc(created.ID.String()).Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create case playbook", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *casePlaybookRepository) Get(ctx context.Context, id model.CasePlaybookID) (*model.CasePlaybook, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "case playbook not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get case playbook", goerr.V("id", id))
	}

	var cp model.CasePlaybook
	if err := docSnap.DataTo(&cp); err != nil {
		return nil, goerr.Wrap(err, "failed to decode case playbook", goerr.V("id", id))
	}

	return &cp, nil
}

func (r *casePlaybookRepository) GetByCaseAndPlaybook(ctx context.Context, caseID, playbookID int64) (*model.CasePlaybook, error) {
	iter := r.client.Collection(r.collection()).
		Where("CaseID", "==", caseID).
		Where("PlaybookID", "==", playbookID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query case playbook",
			goerr.V("caseID", caseID), goerr.V("playbookID", playbookID))
	}

	var cp model.CasePlaybook
	if err := docSnap.DataTo(&cp); err != nil {
		return nil, goerr.Wrap(err, "failed to decode case playbook", goerr.V("doc_id", docSnap.Ref.ID))
	}

	return &cp, nil
}

func (r *casePlaybookRepository) GetByCase(ctx context.Context, caseID int64) ([]*model.CasePlaybook, error) {
	iter := r.client.Collection(r.collection()).Where("CaseID", "==", caseID).Documents(ctx)
	defer iter.Stop()

	var attachments []*model.CasePlaybook
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate case playbooks", goerr.V("caseID", caseID))
		}

		var cp model.CasePlaybook
		if err := docSnap.DataTo(&cp); err != nil {
			return nil, goerr.Wrap(err, "failed to decode case playbook", goerr.V("doc_id", docSnap.Ref.ID))
		}

		attachments = append(attachments, &cp)
	}

	sort.Slice(attachments, func(i, j int) bool {
		return attachments[i].CreatedAt.Before(attachments[j].CreatedAt)
	})

	return attachments, nil
}

func (r *casePlaybookRepository) Delete(ctx context.Context, id model.CasePlaybookID) error {
	docRef := r.client.Collection(r.collection()).Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "case playbook not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check case playbook existence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete case playbook", goerr.V("id", id))
	}

	return nil
}
