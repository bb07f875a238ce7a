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

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{client: client}
}

func (r *userRepository) collection() string {
	return collectionName(r.collectionPrefix, "users")
}

func (r *userRepository) Put(ctx context.Context, u *model.User) (*model.User, error) {
	if u.ID == "" {
		return nil, goerr.New("user ID is required")
	}

	now := time.Now().UTC()
	stored := *u
	stored.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(stored.ID)
	docSnap, err := docRef.Get(ctx)
	if err == nil {
		var existing model.User
		if err := docSnap.DataTo(&existing); err == nil {
			stored.CreatedAt = existing.CreatedAt
		}
	} else if status.Code(err) == codes.NotFound {
		stored.CreatedAt = now
	} else {
		return nil, goerr.Wrap(err, "failed to check user existence", goerr.V("id", u.ID))
	}

	if _, err := docRef.Set(ctx, &stored); err != nil {
		return nil, goerr.Wrap(err, "failed to put user", goerr.V("id", u.ID))
	}

	return &stored, nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*model.User, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}

	var u model.User
	if err := docSnap.DataTo(&u); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user", goerr.V("id", id))
	}

	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var users []*model.User
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate users")
		}

		var u model.User
		if err := docSnap.DataTo(&u); err != nil {
			return nil, goerr.Wrap(err, "failed to decode user", goerr.V("doc_id", docSnap.Ref.ID))
		}

		users = append(users, &u)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].ID < users[j].ID
	})

	return users, nil
}
