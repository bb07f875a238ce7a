package firestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type playbookRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newPlaybookRepository(client *firestore.Client) *playbookRepository {
	return &playbookRepository{client: client}
}

func (r *playbookRepository) collection() string {
	return collectionName(r.collectionPrefix, "playbooks")
}

func (r *playbookRepository) Create(ctx context.Context, p *model.Playbook) (*model.Playbook, error) {
	nextID, err := getNextID(ctx, r.client, r.collectionPrefix, "playbook_counter")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get next ID")
	}

	now := time.Now().UTC()
	created := *p
	created.ID = nextID
	created.CreatedAt = now
	created.UpdatedAt = now

	docID := fmt.Sprintf("%d", created.ID)
	if _, err := r.client.Collection(r.collection()).Doc(docID).Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create playbook", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *playbookRepository) Get(ctx context.Context, id int64) (*model.Playbook, error) {
	docID := fmt.Sprintf("%d", id)
	docSnap, err := r.client.Collection(r.collection()).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "playbook not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get playbook", goerr.V("id", id))
	}

	var p model.Playbook
	if err := docSnap.DataTo(&p); err != nil {
		return nil, goerr.Wrap(err, "failed to decode playbook", goerr.V("id", id))
	}

	return &p, nil
}

func (r *playbookRepository) List(ctx context.Context) ([]*model.Playbook, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var playbooks []*model.Playbook
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate playbooks")
		}

		var p model.Playbook
		if err := docSnap.DataTo(&p); err != nil {
			return nil, goerr.Wrap(err, "failed to decode playbook", goerr.V("doc_id", docSnap.Ref.ID))
		}

		playbooks = append(playbooks, &p)
	}

	sort.Slice(playbooks, func(i, j int) bool {
		return playbooks[i].ID < playbooks[j].ID
	})

	return playbooks, nil
}

func (r *playbookRepository) Update(ctx context.Context, p *model.Playbook) (*model.Playbook, error) {
	docID := fmt.Sprintf("%d", p.ID)
	docRef := r.client.Collection(r.collection()).Doc(docID)

	docSnap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "playbook not found", goerr.V("id", p.ID))
		}
		return nil, goerr.Wrap(err, "failed to check playbook existence", goerr.V("id", p.ID))
	}

	var existing model.Playbook
	if err := docSnap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to decode playbook", goerr.V("id", p.ID))
	}

	updated := *p
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update playbook", goerr.V("id", p.ID))
	}

	return &updated, nil
}

func (r *playbookRepository) Delete(ctx context.Context, id int64) error {
	docID := fmt.Sprintf("%d", id)
	docRef := r.client.Collection(r.collection()).Doc(docID)

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "playbook not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check playbook existence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete playbook", goerr.V("id", id))
	}

	return nil
}
