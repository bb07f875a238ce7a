package model

import (
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// Task represents a delegated unit of work scoped to a case. CaseID is
// immutable after creation. CompletedAt is stamped exactly once, when the
// status transitions into the terminal pair (completed/failed).
type Task struct {
	ID          int64
	CaseID      int64
	Name        string
	Description string
	AssignedTo  string // user ID, may be empty
	Priority    types.TaskPriority
	Status      types.TaskStatus
	Result      types.TaskResult // set only at closure
	Comment     string           // closure note
	CreatedBy   string
	DueDate     *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsClosed reports whether the task has reached a terminal status.
func (t *Task) IsClosed() bool {
	return t.Status.IsTerminal()
}
