package repository

import (
	"context"

	"github.com/qj0r9j0vc2/ticket-bridge/internal/domain/entity"
)

// CommentRepository provides read access to a ticket's conversation thread.
type CommentRepository interface {
	// ListComments returns the first page of comments for the ticket, in thread order.
	ListComments(ctx context.Context, ticketID int64) ([]*entity.Comment, error)
}

// UserRepository provides read access to ticketing backend users.
type UserRepository interface {
	// GetUser fetches a single user record.
	// Returns ErrNotFound if the backend does not know the user.
	GetUser(ctx context.Context, userID int64) (*entity.AuthorRecord, error)
}
