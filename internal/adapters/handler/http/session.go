package http

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/poll-profile/internal/core/ports"
)

const sessionCookie = "profile_session"

type pageSession struct {
	page     ports.ProfilePage
	outbox   *Outbox
	lastSeen time.Time
}

type sessionKey struct {
	id      uuid.UUID
	profile string
}

// SessionStore keeps mounted pages per browser session and profile.
// Navigating to a profile again replaces its page.
type SessionStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	pages map[sessionKey]*pageSession
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:   ttl,
		now:   time.Now,
		pages: make(map[sessionKey]*pageSession),
	}
}

func (s *SessionStore) Put(id uuid.UUID, profile string, page ports.ProfilePage, outbox *Outbox) *pageSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps := &pageSession{page: page, outbox: outbox, lastSeen: s.now()}
	s.pages[sessionKey{id: id, profile: profile}] = ps
	return ps
}

func (s *SessionStore) Get(id uuid.UUID, profile string) (*pageSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, ok := s.pages[sessionKey{id: id, profile: profile}]
	if !ok {
		return nil, false
	}
	if s.expired(ps) {
		delete(s.pages, sessionKey{id: id, profile: profile})
		return nil, false
	}
	ps.lastSeen = s.now()
	return ps, true
}

// Sweep drops pages idle for longer than the TTL and returns how many were
// removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, ps := range s.pages {
		if s.expired(ps) {
			delete(s.pages, key)
			removed++
		}
	}
	return removed
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

func (s *SessionStore) expired(ps *pageSession) bool {
	return s.ttl > 0 && s.now().Sub(ps.lastSeen) > s.ttl
}
