package config

import (
	"github.com/secmon-lab/briareus/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for the Slack notification mirror
type Slack struct {
	botToken  string
	channelID string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot token for mirroring notifications to a channel",
			Category:    "Slack",
			Sources:     cli.EnvVars("BRIAREUS_SLACK_BOT_TOKEN"),
			Destination: &s.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID to mirror notifications to",
			Category:    "Slack",
			Sources:     cli.EnvVars("BRIAREUS_SLACK_CHANNEL_ID"),
			Destination: &s.channelID,
		},
	}
}

// IsConfigured reports whether both token and channel are set
func (s *Slack) IsConfigured() bool {
	return s.botToken != "" && s.channelID != ""
}

// ChannelID returns the configured channel ID
func (s *Slack) ChannelID() string {
	return s.channelID
}

// Configure builds the Slack service. Returns nil when not configured;
// notification mirroring is optional.
func (s *Slack) Configure() slack.Service {
	if !s.IsConfigured() {
		return nil
	}
	return slack.New(s.botToken)
}
