package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// NotificationUseCase serves a user's own notification feed. Writes come
// from the fan-out service, never from here.
type NotificationUseCase struct {
	repo interfaces.Repository
}

func NewNotificationUseCase(repo interfaces.Repository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo}
}

func (uc *NotificationUseCase) ListNotifications(ctx context.Context) ([]*model.Notification, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	notifications, err := uc.repo.Notification().GetByUser(ctx, actor.Sub)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list notifications", goerr.V(UserIDKey, actor.Sub))
	}

	return notifications, nil
}

func (uc *NotificationUseCase) UnreadCount(ctx context.Context) (int, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return 0, err
	}

	notifications, err := uc.repo.Notification().GetByUser(ctx, actor.Sub)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count notifications", goerr.V(UserIDKey, actor.Sub))
	}

	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}

	return count, nil
}

// MarkNotificationRead flips the read flag. Only the recipient may mark
// their own notification.
func (uc *NotificationUseCase) MarkNotificationRead(ctx context.Context, id model.NotificationID) (*model.Notification, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	notification, err := uc.repo.Notification().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrNotificationNotFound, "notification not found",
			goerr.V(NotificationIDKey, id))
	}

	if notification.UserID != actor.Sub {
		return nil, goerr.Wrap(ErrForbidden, "notification belongs to another user",
			goerr.V(NotificationIDKey, id), goerr.V(UserIDKey, actor.Sub))
	}

	if notification.Read {
		return notification, nil
	}

	notification.Read = true
	updated, err := uc.repo.Notification().Update(ctx, notification)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to mark notification read",
			goerr.V(NotificationIDKey, id))
	}

	return updated, nil
}
