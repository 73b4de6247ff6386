package slack

import (
	"fmt"

	"github.com/slack-go/slack"

	"github.com/qj0r9j0vc2/ticket-bridge/internal/domain/entity"
)

// ToSlackBlocks converts rendered blocks to Slack Block Kit blocks, preserving order.
func ToSlackBlocks(blocks []entity.Block) ([]slack.Block, error) {
	out := make([]slack.Block, 0, len(blocks))
	for i, b := range blocks {
		sb, err := toSlackBlock(b)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		out = append(out, sb)
	}
	return out, nil
}

func toSlackBlock(b entity.Block) (slack.Block, error) {
	switch b.Kind {
	case entity.BlockSection:
		return slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, b.Text, false, false),
			nil, nil,
		), nil
	case entity.BlockDivider:
		return slack.NewDividerBlock(), nil
	case entity.BlockHeader:
		return slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, b.Text, false, false),
		), nil
	case entity.BlockImage:
		return slack.NewImageBlock(b.ImageURL, b.AltText, "", nil), nil
	default:
		return nil, fmt.Errorf("unsupported block kind %q", b.Kind)
	}
}

// NewWebhookMessage wraps blocks in an incoming-webhook payload.
func NewWebhookMessage(blocks []slack.Block) *slack.WebhookMessage {
	return &slack.WebhookMessage{
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
}
