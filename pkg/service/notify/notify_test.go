package notify_test

import (
	"context"
	"testing"

	goslack "github.com/slack-go/slack"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/repository/memory"
	"github.com/secmon-lab/briareus/pkg/service/notify"
)

type slackRecorder struct {
	channelID string
	fallback  string
	calls     int
}

func (s *slackRecorder) PostMessage(ctx context.Context, channelID string, blocks []goslack.Block, fallbackText string) (string, error) {
	s.channelID = channelID
	s.fallback = fallbackText
	s.calls++
	return "1724900000.000100", nil
}

func seedCase(t *testing.T, repo *memory.Memory, createdBy, assignedTo string) *model.Case {
	t.Helper()
	created, err := repo.Case().Create(context.Background(), &model.Case{
		Title:      "Phishing wave",
		Severity:   types.SeverityHigh,
		CreatedBy:  createdBy,
		AssignedTo: assignedTo,
	})
	gt.NoError(t, err).Required()
	return created
}

func TestService_HandleTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("fan-out reaches participants except the actor", func(t *testing.T) {
		repo := memory.New()
		caseModel := seedCase(t, repo, "u-alice", "u-bob")
		svc := notify.New(repo)

		err := svc.HandleTransition(ctx, model.TransitionEvent{
			Type:    types.NotificationTypeCaseClosed,
			CaseID:  caseModel.ID,
			ActorID: "u-alice",
			Title:   "Case resolved",
			Message: "Credentials rotated, mailbox rules removed",
		})
		gt.NoError(t, err).Required()

		bobs, err := repo.Notification().GetByUser(ctx, "u-bob")
		gt.NoError(t, err).Required()
		gt.Number(t, len(bobs)).Equal(1)
		gt.Value(t, bobs[0].Title).Equal("Phishing wave: Case resolved")
		gt.Value(t, bobs[0].Message).Equal("Credentials rotated, mailbox rules removed")
		gt.Value(t, bobs[0].Read).Equal(false)

		alices, err := repo.Notification().GetByUser(ctx, "u-alice")
		gt.NoError(t, err).Required()
		gt.Number(t, len(alices)).Equal(0)
	})

	t.Run("self-assigned case yields no recipients", func(t *testing.T) {
		repo := memory.New()
		caseModel := seedCase(t, repo, "u-alice", "u-alice")
		svc := notify.New(repo)

		err := svc.HandleTransition(ctx, model.TransitionEvent{
			Type:    types.NotificationTypeCaseReopened,
			CaseID:  caseModel.ID,
			ActorID: "u-alice",
			Title:   "Case reopened",
		})
		gt.NoError(t, err).Required()

		notifications, err := repo.Notification().GetByUser(ctx, "u-alice")
		gt.NoError(t, err).Required()
		gt.Number(t, len(notifications)).Equal(0)
	})

	t.Run("missing case degrades to no-op", func(t *testing.T) {
		repo := memory.New()
		svc := notify.New(repo)

		err := svc.HandleTransition(ctx, model.TransitionEvent{
			Type:   types.NotificationTypeTaskCreated,
			CaseID: 404,
			Title:  "New task",
		})
		gt.NoError(t, err)
	})

	t.Run("slack mirror posts once per event", func(t *testing.T) {
		repo := memory.New()
		caseModel := seedCase(t, repo, "u-alice", "u-bob")
		recorder := &slackRecorder{}
		svc := notify.New(repo, notify.WithSlack(recorder, "C0123456789"))

		err := svc.HandleTransition(ctx, model.TransitionEvent{
			Type:    types.NotificationTypePlaybookCompleted,
			CaseID:  caseModel.ID,
			ActorID: "u-bob",
			Title:   "Playbook completed",
		})
		gt.NoError(t, err).Required()

		gt.Number(t, recorder.calls).Equal(1)
		gt.Value(t, recorder.channelID).Equal("C0123456789")
		gt.Value(t, recorder.fallback).Equal("Phishing wave: Playbook completed")
	})

	t.Run("no slack configured skips the mirror", func(t *testing.T) {
		repo := memory.New()
		caseModel := seedCase(t, repo, "u-alice", "u-bob")
		recorder := &slackRecorder{}
		svc := notify.New(repo, notify.WithSlack(recorder, ""))

		err := svc.HandleTransition(ctx, model.TransitionEvent{
			Type:    types.NotificationTypeCaseClosed,
			CaseID:  caseModel.ID,
			ActorID: "u-alice",
			Title:   "Case resolved",
		})
		gt.NoError(t, err).Required()
		gt.Number(t, recorder.calls).Equal(0)
	})
}
