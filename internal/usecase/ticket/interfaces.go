package ticket

import (
	"context"
	"time"

	"github.com/qj0r9j0vc2/ticket-bridge/internal/domain/entity"
)

// Dispatcher delivers a rendered message to the chat backend.
type Dispatcher interface {
	// Send performs exactly one delivery attempt.
	Send(ctx context.Context, blocks []entity.Block) error

	// Name returns the dispatcher identifier (e.g., "slack").
	Name() string
}

// AuthorResolver maps a comment author id to a display identity.
type AuthorResolver interface {
	Resolve(ctx context.Context, authorID *int64) entity.ResolvedAuthor
}

// Logger defines the contract for logging within use cases.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Recorder receives pipeline measurements.
type Recorder interface {
	RecordTicketRelayed(ctx context.Context, stage, errorKind string, duration time.Duration)
	RecordCommentsFetched(ctx context.Context, count int, degraded bool)
	RecordAuthorLookup(ctx context.Context, outcome string)
	RecordAuthorCacheHit(ctx context.Context)
	RecordDispatch(ctx context.Context, dispatcher string, success bool, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordTicketRelayed(context.Context, string, string, time.Duration) {}
func (nopRecorder) RecordCommentsFetched(context.Context, int, bool) {}
func (nopRecorder) RecordAuthorLookup(context.Context, string) {}
func (nopRecorder) RecordAuthorCacheHit(context.Context) {}
func (nopRecorder) RecordDispatch(context.Context, string, bool, time.Duration) {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
