package model

import (
	"time"

	"github.com/secmon-lab/briareus/pkg/domain/types"
)

// Case represents a security incident case. It is the aggregate root for
// tasks and playbook executions, and the root of authorization truth: every
// permission check ultimately asks whether the actor is the case's creator,
// its assignee, or neither.
type Case struct {
	ID                int64
	Title             string
	Description       string
	Severity          types.Severity
	Status            types.CaseStatus
	AssignedTo        string // user ID, may be empty
	CreatedBy         string // user ID
	ResolutionSummary string
	ResolvedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsResolved reports whether the case is in the resolved state.
func (c *Case) IsResolved() bool {
	return c.Status.Normalize() == types.CaseStatusResolved
}

// Participants returns the deduplicated set of users with a stake in the
// case: its creator and its assignee. The assignee may be absent or the same
// person as the creator.
func (c *Case) Participants() []string {
	participants := make([]string, 0, 2)
	if c.CreatedBy != "" {
		participants = append(participants, c.CreatedBy)
	}
	if c.AssignedTo != "" && c.AssignedTo != c.CreatedBy {
		participants = append(participants, c.AssignedTo)
	}
	return participants
}
