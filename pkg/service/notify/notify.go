package notify

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	goslack "github.com/slack-go/slack"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/service/slack"
	"github.com/secmon-lab/briareus/pkg/utils/errutil"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
)

// Service is the notification fan-out: the single component that turns
// transition events into Notification rows. It derives the recipient set
// from the case's creator and assignee, minus the acting user.
type Service struct {
	repo           interfaces.Repository
	slackService   slack.Service
	slackChannelID string
}

// Option configures the Service
type Option func(*Service)

// WithSlack mirrors every fan-out to a Slack channel, best-effort.
func WithSlack(svc slack.Service, channelID string) Option {
	return func(s *Service) {
		s.slackService = svc
		s.slackChannelID = channelID
	}
}

func New(repo interfaces.Repository, opts ...Option) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleTransition is the event bus subscriber. Notification is a
// best-effort side channel: every failure here is logged and swallowed so
// it never rolls back or fails the transition that caused it.
func (s *Service) HandleTransition(ctx context.Context, ev model.TransitionEvent) error {
	caseModel, err := s.repo.Case().Get(ctx, ev.CaseID)
	if err != nil {
		// Case deleted concurrently: degrade to zero recipients.
		logging.From(ctx).Warn("skip notification fan-out, case not resolvable",
			"case_id", ev.CaseID, "type", ev.Type, "error", err)
		return nil
	}

	recipients := s.recipients(caseModel, ev.ActorID)
	title := fmt.Sprintf("%s: %s", caseModel.Title, ev.Title)

	for _, userID := range recipients {
		notification := &model.Notification{
			UserID:  userID,
			CaseID:  caseModel.ID,
			Type:    ev.Type,
			Title:   title,
			Message: ev.Message,
		}
		if _, err := s.repo.Notification().Create(ctx, notification); err != nil {
			errutil.Handle(ctx, goerr.Wrap(err, "failed to create notification",
				goerr.V("case_id", caseModel.ID), goerr.V("user_id", userID)),
				"notification dispatch failed")
		}
	}

	s.mirrorToSlack(ctx, caseModel, ev, title)

	return nil
}

// recipients computes {createdBy, assignedTo} \ {excludeActorID},
// deduplicated. Creator and assignee may coincide.
func (s *Service) recipients(c *model.Case, excludeActorID string) []string {
	participants := c.Participants()
	recipients := make([]string, 0, len(participants))
	for _, userID := range participants {
		if userID == excludeActorID {
			continue
		}
		recipients = append(recipients, userID)
	}
	return recipients
}

// mirrorToSlack posts the fan-out to the configured channel, best-effort.
func (s *Service) mirrorToSlack(ctx context.Context, c *model.Case, ev model.TransitionEvent, title string) {
	if s.slackService == nil || s.slackChannelID == "" {
		return
	}

	blocks := []goslack.Block{
		goslack.NewHeaderBlock(
			goslack.NewTextBlockObject(goslack.PlainTextType, title, true, false),
		),
	}
	if ev.Message != "" {
		blocks = append(blocks, goslack.NewSectionBlock(
			goslack.NewTextBlockObject(goslack.MarkdownType, ev.Message, false, false),
			nil, nil,
		))
	}
	blocks = append(blocks, goslack.NewContextBlock("",
		goslack.NewTextBlockObject(goslack.MarkdownType,
			fmt.Sprintf("Case #%d  |  %s", c.ID, ev.Type), false, false),
	))

	if _, err := s.slackService.PostMessage(ctx, s.slackChannelID, blocks, title); err != nil {
		errutil.Handle(ctx, err, "failed to mirror notification to Slack")
	}
}
