package types

import "fmt"

// TaskResult represents the outcome recorded when a task is closed
type TaskResult string

const (
	TaskResultCompleted TaskResult = "completed"
	TaskResultFailed    TaskResult = "failed"
)

// AllTaskResults returns all valid task results
func AllTaskResults() []TaskResult {
	return []TaskResult{
		TaskResultCompleted,
		TaskResultFailed,
	}
}

// IsValid checks if the task result is valid
func (r TaskResult) IsValid() bool {
	switch r {
	case TaskResultCompleted,
		TaskResultFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the task result
func (r TaskResult) String() string {
	return string(r)
}

// Status returns the terminal task status matching the result.
func (r TaskResult) Status() TaskStatus {
	if r == TaskResultFailed {
		return TaskStatusFailed
	}
	return TaskStatusCompleted
}

// ParseTaskResult parses a string into a TaskResult
func ParseTaskResult(s string) (TaskResult, error) {
	result := TaskResult(s)
	if !result.IsValid() {
		return "", fmt.Errorf("invalid task result: %s", s)
	}
	return result, nil
}
