package interfaces

import (
	"context"

	"github.com/secmon-lab/briareus/pkg/domain/model"
)

// NotificationRepository defines the interface for Notification data access.
// Notifications are append-only: there is no delete.
type NotificationRepository interface {
	// Create creates a new notification
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)

	// Get retrieves a notification by ID
	Get(ctx context.Context, id model.NotificationID) (*model.Notification, error)

	// GetByUser retrieves all notifications addressed to a user, newest first
	GetByUser(ctx context.Context, userID string) ([]*model.Notification, error)

	// Update updates an existing notification (read flag only)
	Update(ctx context.Context, n *model.Notification) (*model.Notification, error)
}
