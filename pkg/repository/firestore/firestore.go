package firestore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotFound indicates the requested document does not exist
var ErrNotFound = errors.New("record not found")

type Firestore struct {
	client        *firestore.Client
	cases         *caseRepository
	tasks         *taskRepository
	playbooks     *playbookRepository
	casePlaybooks *casePlaybookRepository
	executions    *executionRepository
	notifications *notificationRepository
	users         *userRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, mainly for test isolation.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.cases.collectionPrefix = prefix
		f.tasks.collectionPrefix = prefix
		f.playbooks.collectionPrefix = prefix
		f.casePlaybooks.collectionPrefix = prefix
		f.executions.collectionPrefix = prefix
		f.notifications.collectionPrefix = prefix
		f.users.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:        client,
		cases:         newCaseRepository(client),
		tasks:         newTaskRepository(client),
		playbooks:     newPlaybookRepository(client),
		casePlaybooks: newCasePlaybookRepository(client),
		executions:    newExecutionRepository(client),
		notifications: newNotificationRepository(client),
		users:         newUserRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Case() interfaces.CaseRepository {
	return f.cases
}

func (f *Firestore) Task() interfaces.TaskRepository {
	return f.tasks
}

func (f *Firestore) Playbook() interfaces.PlaybookRepository {
	return f.playbooks
}

func (f *Firestore) CasePlaybook() interfaces.CasePlaybookRepository {
	return f.casePlaybooks
}

func (f *Firestore) Execution() interfaces.ExecutionRepository {
	return f.executions
}

func (f *Firestore) Notification() interfaces.NotificationRepository {
	return f.notifications
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.users
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// collectionName applies the optional prefix to a base collection name.
func collectionName(prefix, base string) string {
	if prefix != "" {
		return prefix + "_" + base
	}
	return base
}

// getNextID allocates the next value of a named auto-increment counter via a
// transaction on the counters collection.
func getNextID(ctx context.Context, client *firestore.Client, prefix, counterDoc string) (int64, error) {
	counterRef := client.Collection(collectionName(prefix, "counters")).Doc(counterDoc)

	var nextID int64
	err := client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				nextID = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": nextID,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		val, ok := currentValue.(int64)
		if !ok {
			return goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
		}
		nextID = val + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: nextID},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID", goerr.V("counter", counterDoc))
	}

	return nextID, nil
}
