package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

type notificationRepository struct {
	mu            sync.RWMutex
	notifications map[model.NotificationID]*model.Notification
}

func newNotificationRepository() *notificationRepository {
	return &notificationRepository{
		notifications: make(map[model.NotificationID]*model.Notification),
	}
}

func copyNotification(n *model.Notification) *model.Notification {
	copied := *n
	return &copied
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyNotification(n)
	if created.ID == "" {
		created.ID = model.NewNotificationID()
	}
	created.CreatedAt = time.Now().UTC()

	r.notifications[created.ID] = created
	return copyNotification(created), nil
}

func (r *notificationRepository) Get(ctx context.Context, id model.NotificationID) (*model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, exists := r.notifications[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "notification not found", goerr.V("id", id))
	}

	return copyNotification(n), nil
}

func (r *notificationRepository) GetByUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notifications := make([]*model.Notification, 0)
	for _, n := range r.notifications {
		if n.UserID == userID {
			notifications = append(notifications, copyNotification(n))
		}
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	return notifications, nil
}

func (r *notificationRepository) Update(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.notifications[n.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "notification not found", goerr.V("id", n.ID))
	}

	updated := copyNotification(n)
	updated.CreatedAt = existing.CreatedAt

	r.notifications[updated.ID] = updated
	return copyNotification(updated), nil
}
