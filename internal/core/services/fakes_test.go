package services

import (
	"context"
	"sync"

	"github.com/vncsmyrnk/poll-profile/internal/core/domain"
	"github.com/vncsmyrnk/poll-profile/internal/core/ports"
)

type fakePolls struct {
	mu      sync.Mutex
	polls   []domain.Poll
	listErr error
	lists   int

	updateFn func(ctx context.Context, input ports.VoteInput) (*domain.Poll, error)
	likeFn   func(ctx context.Context, input ports.LikeInput) (*domain.Poll, error)
	deleteFn func(ctx context.Context, input ports.DeleteInput) error
	updates  int
	likes    int
	deletes  int
}

func (f *fakePolls) ListByUsername(_ context.Context, _ string) ([]domain.Poll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Poll(nil), f.polls...), nil
}

func (f *fakePolls) UpdateResult(ctx context.Context, input ports.VoteInput) (*domain.Poll, error) {
	f.mu.Lock()
	f.updates++
	fn := f.updateFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ctx, input)
}

func (f *fakePolls) Like(ctx context.Context, input ports.LikeInput) (*domain.Poll, error) {
	f.mu.Lock()
	f.likes++
	fn := f.likeFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ctx, input)
}

func (f *fakePolls) DeleteByID(ctx context.Context, input ports.DeleteInput) error {
	f.mu.Lock()
	f.deletes++
	fn := f.deleteFn
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, input)
}

func (f *fakePolls) setPolls(polls ...domain.Poll) {
	f.mu.Lock()
	f.polls = polls
	f.mu.Unlock()
}

func (f *fakePolls) calls() (lists, updates, likes, deletes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists, f.updates, f.likes, f.deletes
}

type fakeUsers struct {
	mu       sync.Mutex
	user     *domain.User
	getErr   error
	followFn func(ctx context.Context, input ports.FollowInput) error
	follows  []ports.FollowInput
}

func (f *fakeUsers) GetByUsername(_ context.Context, _ string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.user == nil {
		return nil, nil
	}
	u := *f.user
	return &u, nil
}

func (f *fakeUsers) Follow(ctx context.Context, input ports.FollowInput) error {
	f.mu.Lock()
	f.follows = append(f.follows, input)
	fn := f.followFn
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, input)
}

type recorder struct {
	mu        sync.Mutex
	notices   []domain.Notice
	clipboard []string
	shareErr  error
	shares    []ports.ShareRequest
}

func (r *recorder) Notify(_ context.Context, n domain.Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

func (r *recorder) WriteText(_ context.Context, text string) error {
	r.mu.Lock()
	r.clipboard = append(r.clipboard, text)
	r.mu.Unlock()
	return nil
}

func (r *recorder) Share(_ context.Context, req ports.ShareRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shares = append(r.shares, req)
	return r.shareErr
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.Message)
	}
	return out
}
