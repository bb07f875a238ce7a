package usecase

import "errors"

// Sentinel errors for the use case layer. These form the caller-facing
// failure taxonomy: all of them are synchronous business-rule violations
// and none are retried.
var (
	// Not found errors
	ErrCaseNotFound         = errors.New("case not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrPlaybookNotFound     = errors.New("playbook not found")
	ErrCasePlaybookNotFound = errors.New("case playbook not found")
	ErrExecutionNotFound    = errors.New("execution not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUserNotFound         = errors.New("user not found")

	// Authorization errors
	ErrForbidden = errors.New("actor lacks the required relationship to the target")

	// Transition errors
	ErrInvalidTransition       = errors.New("requested state change is not reachable from the current state")
	ErrCaseResolved            = errors.New("case is resolved")
	ErrPlaybookAlreadyAttached = errors.New("playbook is already attached to the case")

	// Validation errors
	ErrValidation = errors.New("validation failed")
)

// Context keys for error values
const (
	CaseIDKey         = "case_id"
	TaskIDKey         = "task_id"
	PlaybookIDKey     = "playbook_id"
	ExecutionIDKey    = "execution_id"
	NotificationIDKey = "notification_id"
	UserIDKey         = "user_id"
)
