package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	goslack "github.com/slack-go/slack"
)

// Service posts messages to Slack. It exists as an interface so the
// notification fan-out can be tested without a workspace.
type Service interface {
	// PostMessage posts Block Kit blocks to a channel and returns the
	// message timestamp.
	PostMessage(ctx context.Context, channelID string, blocks []goslack.Block, fallbackText string) (string, error)
}

type client struct {
	api *goslack.Client
}

var _ Service = &client{}

// New creates a Slack service backed by a bot token.
func New(botToken string) Service {
	return &client{
		api: goslack.New(botToken),
	}
}

func (c *client) PostMessage(ctx context.Context, channelID string, blocks []goslack.Block, fallbackText string) (string, error) {
	_, ts, err := c.api.PostMessageContext(ctx, channelID,
		goslack.MsgOptionBlocks(blocks...),
		goslack.MsgOptionText(fallbackText, false),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post Slack message", goerr.V("channel_id", channelID))
	}
	return ts, nil
}
