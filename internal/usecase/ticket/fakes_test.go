package ticket

import (
	"context"
	"sync"

	"github.com/qj0r9j0vc2/ticket-bridge/internal/domain/entity"
	"github.com/qj0r9j0vc2/ticket-bridge/internal/domain/repository"
)

type fakeComments struct {
	comments []*entity.Comment
	err      error
	calls    []int64
}

func (f *fakeComments) ListComments(ctx context.Context, ticketID int64) ([]*entity.Comment, error) {
	f.calls = append(f.calls, ticketID)
	if f.err != nil {
		return nil, f.err
	}
	return f.comments, nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[int64]*entity.AuthorRecord
	errs  map[int64]error
	calls map[int64]int
}

func newFakeUsers(users ...*entity.AuthorRecord) *fakeUsers {
	f := &fakeUsers{
		users: make(map[int64]*entity.AuthorRecord),
		errs:  make(map[int64]error),
		calls: make(map[int64]int),
	}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetUser(ctx context.Context, userID int64) (*entity.AuthorRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[userID]++
	if err, ok := f.errs[userID]; ok {
		return nil, err
	}
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

type fakeDispatcher struct {
	err   error
	panic any
	sent  [][]entity.Block
}

func (f *fakeDispatcher) Send(ctx context.Context, blocks []entity.Block) error {
	if f.panic != nil {
		panic(f.panic)
	}
	f.sent = append(f.sent, blocks)
	return f.err
}

func (f *fakeDispatcher) Name() string {
	return "fake"
}

type fakeResolver map[string]entity.ResolvedAuthor

func (f fakeResolver) Resolve(ctx context.Context, authorID *int64) entity.ResolvedAuthor {
	return f[entity.AuthorKey(authorID)]
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func int64Ptr(v int64) *int64 {
	return &v
}

type countingRecorder struct {
	nopRecorder
	lookups   []string
	cacheHits int
}

func (r *countingRecorder) RecordAuthorLookup(ctx context.Context, outcome string) {
	r.lookups = append(r.lookups, outcome)
}

func (r *countingRecorder) RecordAuthorCacheHit(ctx context.Context) {
	r.cacheHits++
}

var _ Recorder = (*countingRecorder)(nil)
