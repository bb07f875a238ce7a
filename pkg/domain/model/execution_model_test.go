package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/model"
)

func TestPlaybookExecution_Advance(t *testing.T) {
	t.Run("advance past the last step clamps", func(t *testing.T) {
		e := &model.PlaybookExecution{CurrentStepIndex: 2}
		e.Advance(1, 3)
		gt.Number(t, e.CurrentStepIndex).Equal(2)
	})

	t.Run("retreat below zero clamps", func(t *testing.T) {
		e := &model.PlaybookExecution{CurrentStepIndex: 0}
		e.Advance(-1, 3)
		gt.Number(t, e.CurrentStepIndex).Equal(0)
	})

	t.Run("normal movement", func(t *testing.T) {
		e := &model.PlaybookExecution{CurrentStepIndex: 0}
		e.Advance(1, 3)
		gt.Number(t, e.CurrentStepIndex).Equal(1)
		e.Advance(1, 3)
		gt.Number(t, e.CurrentStepIndex).Equal(2)
		e.Advance(-1, 3)
		gt.Number(t, e.CurrentStepIndex).Equal(1)
	})

	t.Run("single-step playbook never moves", func(t *testing.T) {
		e := &model.PlaybookExecution{CurrentStepIndex: 0}
		e.Advance(1, 1)
		gt.Number(t, e.CurrentStepIndex).Equal(0)
		e.Advance(-1, 1)
		gt.Number(t, e.CurrentStepIndex).Equal(0)
	})
}

func TestPlaybookExecution_ToggleChecklistItem(t *testing.T) {
	t.Run("toggle on then off", func(t *testing.T) {
		e := &model.PlaybookExecution{}
		e.ToggleChecklistItem(0, 2)
		gt.Array(t, e.StepState(0).Checklist).Equal([]int{2})

		e.ToggleChecklistItem(0, 2)
		gt.Number(t, len(e.StepState(0).Checklist)).Equal(0)
	})

	t.Run("step states grow lazily", func(t *testing.T) {
		e := &model.PlaybookExecution{}
		gt.Value(t, e.StepState(5)).Equal(model.StepState{})

		e.ToggleChecklistItem(3, 0)
		gt.Number(t, len(e.StepStates)).Equal(4)
		gt.Array(t, e.StepState(3).Checklist).Equal([]int{0})
		gt.Number(t, len(e.StepState(1).Checklist)).Equal(0)
	})

	t.Run("distinct items accumulate", func(t *testing.T) {
		e := &model.PlaybookExecution{}
		e.ToggleChecklistItem(0, 0)
		e.ToggleChecklistItem(0, 3)
		e.ToggleChecklistItem(0, 1)
		gt.Array(t, e.StepState(0).Checklist).Equal([]int{0, 3, 1})
	})
}

func TestPlaybookExecution_SetStepComment(t *testing.T) {
	e := &model.PlaybookExecution{}
	e.SetStepComment(1, "waiting on forensics")
	gt.Value(t, e.StepState(1).Comment).Equal("waiting on forensics")
	gt.Value(t, e.StepState(0).Comment).Equal("")

	e.SetStepComment(1, "forensics complete")
	gt.Value(t, e.StepState(1).Comment).Equal("forensics complete")
}
