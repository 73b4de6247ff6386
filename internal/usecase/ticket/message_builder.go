package ticket

import (
	"context"
	"fmt"
	"strings"

	"github.com/qj0r9j0vc2/ticket-bridge/internal/domain/entity"
)

const (
	// DefaultConversationHeader labels the comment thread section.
	DefaultConversationHeader = "Percakapan Tiket"

	// placeholder is rendered for any missing ticket or requester field.
	placeholder = "-"

	requesterMarker = ":bust_in_silhouette:"
	staffMarker     = ":headphones:"
)

// MessageOptions controls presentation details of the rendered message.
type MessageOptions struct {
	// TicketURL returns the agent-facing URL of a ticket. When nil, or when it
	// returns "", the ticket id is rendered without a link.
	TicketURL func(ticketID int64) string

	// ConversationHeader is the header text above the comments.
	ConversationHeader string

	// MarkAuthorRoles prefixes author labels with a requester or staff marker.
	MarkAuthorRoles bool
}

// MessageBuilder assembles the ordered block list for a ticket event.
type MessageBuilder struct {
	times *TimeNormalizer
	opts  MessageOptions
}

// NewMessageBuilder creates a new message builder.
func NewMessageBuilder(times *TimeNormalizer, opts MessageOptions) *MessageBuilder {
	if times == nil {
		times = NewTimeNormalizer(nil)
	}
	if opts.ConversationHeader == "" {
		opts.ConversationHeader = DefaultConversationHeader
	}
	return &MessageBuilder{
		times: times,
		opts:  opts,
	}
}

// Build renders the summary, a divider, the conversation header and one
// section per comment followed by that comment's attachments as images.
func (b *MessageBuilder) Build(
	ctx context.Context,
	event *entity.TicketEvent,
	comments []*entity.Comment,
	authors AuthorResolver,
) []entity.Block {
	blocks := make([]entity.Block, 0, 3+len(comments))

	blocks = append(blocks,
		b.buildSummary(event),
		entity.DividerBlock(),
		entity.HeaderBlock(b.opts.ConversationHeader),
	)

	for _, c := range comments {
		if c == nil {
			continue
		}
		blocks = append(blocks, b.buildComment(ctx, c, authors)...)
	}

	return blocks
}

// buildSummary creates the ticket summary section.
func (b *MessageBuilder) buildSummary(event *entity.TicketEvent) entity.Block {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*Ticket ID:* %s\n", b.ticketReference(event))
	fmt.Fprintf(&sb, "*Subject:* %s\n", orPlaceholder(event.Subject))
	fmt.Fprintf(&sb, "*Status:* %s\n", orPlaceholder(event.Status))
	fmt.Fprintf(&sb, "*Requester:* %s\n", orPlaceholder(event.Requester.Name))
	fmt.Fprintf(&sb, "*Email:* %s\n", orPlaceholder(event.Requester.Email))
	fmt.Fprintf(&sb, "*Phone:* %s\n", orPlaceholder(event.Requester.Phone))
	fmt.Fprintf(&sb, "*Channel:* %s", orPlaceholder(event.Channel))

	return entity.SectionBlock(sb.String())
}

// ticketReference returns the ticket id, linked in Slack mrkdwn when a URL is available.
func (b *MessageBuilder) ticketReference(event *entity.TicketEvent) string {
	id := event.IDString()
	if b.opts.TicketURL == nil {
		return id
	}
	url := b.opts.TicketURL(event.ID)
	if url == "" {
		return id
	}
	return fmt.Sprintf("<%s|%s>", url, id)
}

// buildComment creates the section for one comment and an image block per attachment.
func (b *MessageBuilder) buildComment(ctx context.Context, c *entity.Comment, authors AuthorResolver) []entity.Block {
	author := authors.Resolve(ctx, c.AuthorID)
	text := fmt.Sprintf("%s (%s):\n%s",
		b.authorLabel(author),
		b.times.ToLocalDisplay(c.CreatedAt),
		c.PlainBody,
	)

	blocks := make([]entity.Block, 0, 1+len(c.Attachments))
	blocks = append(blocks, entity.SectionBlock(text))

	// Every attachment is shown as an image, whatever its content type.
	for _, att := range c.Attachments {
		blocks = append(blocks, entity.ImageBlock(att.ContentURL, att.FileName))
	}

	return blocks
}

func (b *MessageBuilder) authorLabel(author entity.ResolvedAuthor) string {
	if !b.opts.MarkAuthorRoles {
		return author.Name
	}
	if author.IsStaff() {
		return staffMarker + " " + author.Name
	}
	return requesterMarker + " " + author.Name
}

// orPlaceholder returns s, or "-" when s is blank.
func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}
