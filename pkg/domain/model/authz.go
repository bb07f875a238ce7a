package model

// CaseGrants is the capability set an actor holds over a case. All
// per-action authorization flows through GrantsFor instead of re-deriving
// the creator/assignee relationship inline in each handler.
type CaseGrants struct {
	// MutateCase allows editing case fields (title, description, severity,
	// assignee) and resolving the case. Creator only.
	MutateCase bool

	// ReopenCase allows reopening a resolved case. Creator or assignee.
	ReopenCase bool

	// ManageTasks allows creating, editing and deleting tasks on the case.
	// The case assignee ("case owner") only.
	ManageTasks bool

	// ManagePlaybooks allows attaching playbooks and mutating their
	// executions. Creator or assignee.
	ManagePlaybooks bool
}

// GrantsFor computes the capability set of an actor over a case from the
// only relationship that matters: creator, assignee, or neither.
func GrantsFor(actorID string, c *Case) CaseGrants {
	if actorID == "" || c == nil {
		return CaseGrants{}
	}

	isCreator := actorID == c.CreatedBy
	isAssignee := c.AssignedTo != "" && actorID == c.AssignedTo

	return CaseGrants{
		MutateCase:      isCreator,
		ReopenCase:      isCreator || isAssignee,
		ManageTasks:     isAssignee,
		ManagePlaybooks: isCreator || isAssignee,
	}
}

// CanCloseTask reports whether the actor may edit a task's status, result
// and comment: the task's own assignee, or the case owner.
func CanCloseTask(actorID string, c *Case, t *Task) bool {
	if actorID == "" || t == nil {
		return false
	}
	if t.AssignedTo != "" && actorID == t.AssignedTo {
		return true
	}
	return GrantsFor(actorID, c).ManageTasks
}
