package model

import (
	"time"

	"github.com/google/uuid"
)

// CasePlaybookID identifies an attachment of a playbook template to a case
type CasePlaybookID string

// NewCasePlaybookID generates a new random CasePlaybookID
func NewCasePlaybookID() CasePlaybookID {
	return CasePlaybookID(uuid.NewString())
}

// String returns the string representation
func (id CasePlaybookID) String() string {
	return string(id)
}

// ExecutionID identifies a playbook execution
type ExecutionID string

// NewExecutionID generates a new random ExecutionID
func NewExecutionID() ExecutionID {
	return ExecutionID(uuid.NewString())
}

// String returns the string representation
func (id ExecutionID) String() string {
	return string(id)
}

// CasePlaybook joins one case to one playbook template, unique per
// (CaseID, PlaybookID). An execution is created eagerly with the attachment.
type CasePlaybook struct {
	ID         CasePlaybookID
	CaseID     int64
	PlaybookID int64
	AddedBy    string
	CreatedAt  time.Time
}

// StepState holds per-step execution progress. Checklist is a membership set
// of completed item indices, persisted as a JSON array of integers. A zero
// StepState is the state of a step that was never touched.
type StepState struct {
	Checklist []int  `json:"checklist" firestore:"checklist"`
	Comment   string `json:"comment" firestore:"comment"`
}

// PlaybookExecution is the step-indexed, resumable progress record for one
// attached playbook. CurrentStepIndex stays within [0, len(steps)-1];
// StepStates grows lazily as steps are touched, so entries past its length
// are equivalent to a zero StepState.
type PlaybookExecution struct {
	ID               ExecutionID
	CasePlaybookID   CasePlaybookID
	CurrentStepIndex int
	StepStates       []StepState
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsCompleted reports whether the execution has been completed.
func (e *PlaybookExecution) IsCompleted() bool {
	return e.CompletedAt != nil
}

// StepState returns the recorded state for the given step. Steps never
// touched yield a zero StepState.
func (e *PlaybookExecution) StepState(stepIndex int) StepState {
	if stepIndex < 0 || stepIndex >= len(e.StepStates) {
		return StepState{}
	}
	return e.StepStates[stepIndex]
}

// ensureStep grows StepStates so that stepIndex is addressable.
func (e *PlaybookExecution) ensureStep(stepIndex int) {
	for len(e.StepStates) <= stepIndex {
		e.StepStates = append(e.StepStates, StepState{})
	}
}

// Advance moves the current step index by delta, clamped to
// [0, stepCount-1]. Calls past either end are accepted and leave the index
// at the boundary.
func (e *PlaybookExecution) Advance(delta, stepCount int) {
	next := e.CurrentStepIndex + delta
	if next < 0 {
		next = 0
	}
	if max := stepCount - 1; next > max {
		next = max
	}
	if next < 0 {
		next = 0
	}
	e.CurrentStepIndex = next
}

// ToggleChecklistItem flips membership of itemIndex in the step's completed
// set. Item indices are not validated against the originating template so
// that executions tolerate template edits made after they started.
func (e *PlaybookExecution) ToggleChecklistItem(stepIndex, itemIndex int) {
	e.ensureStep(stepIndex)
	state := &e.StepStates[stepIndex]
	for i, v := range state.Checklist {
		if v == itemIndex {
			state.Checklist = append(state.Checklist[:i], state.Checklist[i+1:]...)
			return
		}
	}
	state.Checklist = append(state.Checklist, itemIndex)
}

// SetStepComment replaces the comment recorded for the step.
func (e *PlaybookExecution) SetStepComment(stepIndex int, comment string) {
	e.ensureStep(stepIndex)
	e.StepStates[stepIndex].Comment = comment
}
