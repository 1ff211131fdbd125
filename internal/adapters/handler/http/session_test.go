package http

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/poll-profile/internal/core/domain"
)

func TestSessionStore(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewSessionStore(time.Minute)
	store.now = func() time.Time { return now }

	id := uuid.New()
	first := store.Put(id, "alice", nil, NewOutbox())
	store.Put(id, "bob", nil, NewOutbox())

	got, ok := store.Get(id, "alice")
	require.True(t, ok)
	assert.Same(t, first, got)

	_, ok = store.Get(uuid.New(), "alice")
	assert.False(t, ok)

	// Navigating to the same profile again replaces the page.
	second := store.Put(id, "alice", nil, NewOutbox())
	got, _ = store.Get(id, "alice")
	assert.Same(t, second, got)

	now = now.Add(45 * time.Second)
	store.Get(id, "alice")

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())

	now = now.Add(2 * time.Minute)
	_, ok = store.Get(id, "alice")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestOutbox(t *testing.T) {
	outbox := NewOutbox()
	ctx := context.Background()

	notices, clipboard := outbox.Drain(ctx)
	assert.NotNil(t, notices)
	assert.Empty(t, notices)
	assert.Empty(t, clipboard)

	outbox.Notify(ctx, domain.Notice{Level: domain.NoticeInfo, Message: "hi"})
	require.NoError(t, outbox.WriteText(ctx, "https://polls.example/alice"))

	notices, clipboard = outbox.Drain(ctx)
	assert.Equal(t, []domain.Notice{{Level: domain.NoticeInfo, Message: "hi"}}, notices)
	assert.Equal(t, "https://polls.example/alice", clipboard)

	notices, clipboard = outbox.Drain(ctx)
	assert.Empty(t, notices)
	assert.Empty(t, clipboard)
}

func TestOutbox_DeliveriesAreIsolated(t *testing.T) {
	outbox := NewOutbox()
	vote := WithDelivery(context.Background())
	share := WithDelivery(context.Background())

	outbox.Notify(vote, domain.Notice{Level: domain.NoticeError, Message: "already voted"})
	outbox.Notify(share, domain.Notice{Level: domain.NoticeInfo, Message: "Copied link to clipboard!"})
	require.NoError(t, outbox.WriteText(share, "https://polls.example/alice"))

	notices, clipboard := outbox.Drain(vote)
	assert.Equal(t, []domain.Notice{{Level: domain.NoticeError, Message: "already voted"}}, notices)
	assert.Empty(t, clipboard)

	notices, clipboard = outbox.Drain(share)
	assert.Equal(t, []domain.Notice{{Level: domain.NoticeInfo, Message: "Copied link to clipboard!"}}, notices)
	assert.Equal(t, "https://polls.example/alice", clipboard)

	notices, _ = outbox.Drain(context.Background())
	assert.Empty(t, notices)
}
