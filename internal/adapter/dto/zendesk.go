package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/qj0r9j0vc2/ticket-bridge/internal/domain/entity"
)

// ZendeskWebhook is the payload posted by a Zendesk trigger or webhook.
// Only the fields used for rendering are decoded.
type ZendeskWebhook struct {
	Ticket *ZendeskTicket `json:"ticket"`
}

// ZendeskTicket is the ticket object inside the webhook payload.
type ZendeskTicket struct {
	ID        NumericID         `json:"id"`
	Subject   string            `json:"subject"`
	Status    string            `json:"status"`
	Requester *ZendeskRequester `json:"requester"`
	Via       *ZendeskVia       `json:"via"`
}

// ZendeskRequester identifies the ticket requester.
type ZendeskRequester struct {
	ID    OptionalID `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Phone string     `json:"phone"`
}

// ZendeskVia describes how the ticket was created.
type ZendeskVia struct {
	Channel string `json:"channel"`
}

// NumericID accepts a JSON number or a numeric string.
// Zendesk placeholders such as {{ticket.id}} are rendered as strings, so both
// forms show up in practice. null and "" decode to zero.
type NumericID int64

// UnmarshalJSON implements json.Unmarshaler.
func (n *NumericID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*n = 0
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*n = 0
			return nil
		}
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s: not an integer", string(data))
	}
	*n = NumericID(v)
	return nil
}

// OptionalID is a NumericID for fields that are informational only.
// Values that are not an integer decode to zero instead of failing the payload.
type OptionalID int64

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	var n NumericID
	if err := n.UnmarshalJSON(data); err != nil {
		*o = 0
		return nil
	}
	*o = OptionalID(n)
	return nil
}

// DecodeZendeskWebhook parses a raw webhook body.
func DecodeZendeskWebhook(body []byte) (*ZendeskWebhook, error) {
	var payload ZendeskWebhook
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// RelayTicketInput is the input of the relay use case.
type RelayTicketInput struct {
	Event entity.TicketEvent
}

// ToRelayTicketInput converts the payload to use case input.
// Absent objects become zero values; the use case decides what is required.
func (w *ZendeskWebhook) ToRelayTicketInput() RelayTicketInput {
	var event entity.TicketEvent
	if t := w.Ticket; t != nil {
		event.ID = int64(t.ID)
		event.Subject = t.Subject
		event.Status = t.Status
		if r := t.Requester; r != nil {
			event.Requester = entity.Requester{
				ID:    int64(r.ID),
				Name:  r.Name,
				Email: r.Email,
				Phone: r.Phone,
			}
		}
		if t.Via != nil {
			event.Channel = t.Via.Channel
		}
	}
	return RelayTicketInput{Event: event}
}

// RelayTicketOutput represents the result of a relay run.
type RelayTicketOutput struct {
	TicketID int64
	Stage    entity.PipelineStage

	CommentCount  int
	BlockCount    int
	AuthorLookups int

	// CommentsDegraded is set when the comment fetch failed and the message
	// was sent with the summary only.
	CommentsDegraded bool
}
