package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type executionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newExecutionRepository(client *firestore.Client) *executionRepository {
	return &executionRepository{client: client}
}

func (r *executionRepository) collection() string {
	return collectionName(r.collectionPrefix, "executions")
}

func (r *executionRepository) Create(ctx context.Context, e *model.PlaybookExecution) (*model.PlaybookExecution, error) {
	now := time.Now().UTC()
	created := *e
	if created.ID == "" {
		created.ID = model.NewExecutionID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.client.Collection(r.collection()).Doc(created.ID.String()).Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create execution", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *executionRepository) Get(ctx context.Context, id model.ExecutionID) (*model.PlaybookExecution, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "execution not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get execution", goerr.V("id", id))
	}

	var e model.PlaybookExecution
	if err := docSnap.DataTo(&e); err != nil {
		return nil, goerr.Wrap(err, "failed to decode execution", goerr.V("id", id))
	}

	return &e, nil
}

func (r *executionRepository) GetByCasePlaybook(ctx context.Context, casePlaybookID model.CasePlaybookID) (*model.PlaybookExecution, error) {
	iter := r.client.Collection(r.collection()).
		Where("CasePlaybookID", "==", casePlaybookID.String()).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "execution not found", goerr.V("casePlaybookID", casePlaybookID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query execution", goerr.V("casePlaybookID", casePlaybookID))
	}

	var e model.PlaybookExecution
	if err := docSnap.DataTo(&e); err != nil {
		return nil, goerr.Wrap(err, "failed to decode execution", goerr.V("doc_id", docSnap.Ref.ID))
	}

	return &e, nil
}

func (r *executionRepository) Update(ctx context.Context, e *model.PlaybookExecution) (*model.PlaybookExecution, error) {
	docRef := r.client.Collection(r.collection()).Doc(e.ID.String())

	docSnap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "execution not found", goerr.V("id", e.ID))
		}
		return nil, goerr.Wrap(err, "failed to check execution existence", goerr.V("id", e.ID))
	}

	var existing model.PlaybookExecution
	if err := docSnap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to decode execution", goerr.V("id", e.ID))
	}

	updated := *e
	updated.CasePlaybookID = existing.CasePlaybookID // immutable
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update execution", goerr.V("id", e.ID))
	}

	return &updated, nil
}

func (r *executionRepository) Delete(ctx context.Context, id model.ExecutionID) error {
	docRef := r.client.Collection(r.collection()).Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "execution not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check execution existence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete execution", goerr.V("id", id))
	}

	return nil
}
