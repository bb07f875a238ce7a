package types

import "fmt"

// NotificationType represents the lifecycle event that produced a notification
type NotificationType string

const (
	NotificationTypeTaskCreated       NotificationType = "task_created"
	NotificationTypeCaseClosed        NotificationType = "case_closed"
	NotificationTypeCaseReopened      NotificationType = "case_reopened"
	NotificationTypePlaybookCompleted NotificationType = "playbook_completed"
	NotificationTypeComment           NotificationType = "comment"
)

// AllNotificationTypes returns all valid notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		NotificationTypeTaskCreated,
		NotificationTypeCaseClosed,
		NotificationTypeCaseReopened,
		NotificationTypePlaybookCompleted,
		NotificationTypeComment,
	}
}

// IsValid checks if the notification type is valid
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeTaskCreated,
		NotificationTypeCaseClosed,
		NotificationTypeCaseReopened,
		NotificationTypePlaybookCompleted,
		NotificationTypeComment:
		return true
	default:
		return false
	}
}

// String returns the string representation of the notification type
func (t NotificationType) String() string {
	return string(t)
}

// ParseNotificationType parses a string into a NotificationType
func ParseNotificationType(s string) (NotificationType, error) {
	nt := NotificationType(s)
	if !nt.IsValid() {
		return "", fmt.Errorf("invalid notification type: %s", s)
	}
	return nt, nil
}
