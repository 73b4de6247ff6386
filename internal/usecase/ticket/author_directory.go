package ticket

import (
	"context"

	"github.com/qj0r9j0vc2/ticket-bridge/internal/domain/entity"
	"github.com/qj0r9j0vc2/ticket-bridge/internal/domain/repository"
)

// Author lookup outcomes reported to the Recorder.
const (
	lookupFailed = "failed"
)

// AuthorDirectory resolves comment authors to display names for a single relay run.
// It is not safe for concurrent use; each run builds its own directory so the
// cache never outlives the request.
type AuthorDirectory struct {
	users     repository.UserRepository
	requester entity.Requester
	logger    Logger
	recorder  Recorder

	cache   map[string]entity.AuthorResolution
	lookups int
}

// NewAuthorDirectory creates a directory bound to the requester of the ticket being relayed.
func NewAuthorDirectory(
	users repository.UserRepository,
	requester entity.Requester,
	logger Logger,
	recorder Recorder,
) *AuthorDirectory {
	return &AuthorDirectory{
		users:     users,
		requester: requester,
		logger:    logger,
		recorder:  recorderOrNop(recorder),
		cache:     make(map[string]entity.AuthorResolution),
	}
}

// Resolve returns the display identity for authorID.
// The backend is asked at most once per distinct id; a nil id never triggers a lookup.
func (d *AuthorDirectory) Resolve(ctx context.Context, authorID *int64) entity.ResolvedAuthor {
	key := entity.AuthorKey(authorID)
	if res, ok := d.cache[key]; ok {
		d.recorder.RecordAuthorCacheHit(ctx)
		return d.display(res)
	}

	res := d.lookup(ctx, authorID)
	d.cache[key] = res
	return d.display(res)
}

// Lookups returns the number of backend calls made so far.
func (d *AuthorDirectory) Lookups() int {
	return d.lookups
}

func (d *AuthorDirectory) lookup(ctx context.Context, authorID *int64) entity.AuthorResolution {
	if authorID == nil {
		d.logger.Debug("comment has no author id, attributing to requester")
		return entity.AssumedRequester()
	}

	d.lookups++
	record, err := d.users.GetUser(ctx, *authorID)
	if err != nil {
		d.logger.Warn("author lookup failed, attributing to requester",
			"author_id", *authorID,
			"error", err,
		)
		d.recorder.RecordAuthorLookup(ctx, lookupFailed)
		return entity.DecideAuthor(nil)
	}

	res := entity.DecideAuthor(record)
	d.recorder.RecordAuthorLookup(ctx, string(res.Kind))
	d.logger.Debug("author resolved",
		"author_id", *authorID,
		"role", record.Role,
		"resolution", res.Kind,
	)
	return res
}

func (d *AuthorDirectory) display(res entity.AuthorResolution) entity.ResolvedAuthor {
	if res.Kind == entity.ResolutionAgent {
		return entity.ResolvedAuthor{Name: res.Name, Kind: res.Kind}
	}
	return entity.ResolvedAuthor{
		Name: orPlaceholder(d.requester.Name),
		Kind: entity.ResolutionAssumedRequester,
	}
}
