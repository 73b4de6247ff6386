package entity

import "strconv"

// TicketEvent is a Zendesk ticket notification as received from the inbound webhook.
// It is built once per request and never modified afterwards.
type TicketEvent struct {
	// ID is the Zendesk ticket identifier. Zero means the payload carried none.
	ID int64

	Subject string
	Status  string

	// Requester is the end user who opened the ticket.
	Requester Requester

	// Channel is the inbound channel tag (via.channel), e.g. "email" or "web".
	Channel string
}

// Requester identifies the person who raised the ticket.
type Requester struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

// HasID returns true if the event carries a ticket identifier.
func (e *TicketEvent) HasID() bool {
	return e.ID != 0
}

// IDString returns the ticket identifier in decimal form.
func (e *TicketEvent) IDString() string {
	return strconv.FormatInt(e.ID, 10)
}
