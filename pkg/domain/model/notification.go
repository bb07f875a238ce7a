package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// NotificationID identifies a notification
type NotificationID string

// NewNotificationID generates a new random NotificationID
func NewNotificationID() NotificationID {
	return NotificationID(uuid.NewString())
}

// String returns the string representation
func (id NotificationID) String() string {
	return string(id)
}

// Notification is an append-only fact created as a side effect of a
// lifecycle transition. It is mutated only by the recipient marking it read
// and never deleted.
type Notification struct {
	ID        NotificationID
	UserID    string // recipient
	CaseID    int64
	Type      types.NotificationType
	Title     string
	Message   string
	Read      bool
	CreatedAt time.Time
}
