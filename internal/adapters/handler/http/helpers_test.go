package http

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/poll-profile/internal/core/domain"
	"github.com/vncsmyrnk/poll-profile/internal/core/ports"
	"github.com/vncsmyrnk/poll-profile/internal/core/services"
)

const testSecret = "test-secret"

// stubService stands in for the remote poll/user service.
type stubService struct {
	mu       sync.Mutex
	polls    []domain.Poll
	user     *domain.User
	likeErr  error
	followed []ports.FollowInput
}

func (s *stubService) ListByUsername(context.Context, string) ([]domain.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Poll(nil), s.polls...), nil
}

func (s *stubService) UpdateResult(_ context.Context, input ports.VoteInput) (*domain.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.polls {
		if s.polls[i].ID != input.PollID {
			continue
		}
		p := s.polls[i]
		opts := make([]*domain.PollOption, len(p.Options))
		for j, o := range p.Options {
			cp := *o
			opts[j] = &cp
		}
		opts[input.OptionIndex].Clicks++
		p.Options = opts
		p.Clicks = append(append([]domain.Click(nil), p.Clicks...), domain.Click{UserID: input.Viewer.ID, OptionIndex: input.OptionIndex})
		s.polls[i] = p
		return &p, nil
	}
	return nil, &domain.ServiceError{Message: "Poll not found"}
}

func (s *stubService) Like(context.Context, ports.LikeInput) (*domain.Poll, error) {
	return nil, s.likeErr
}

func (s *stubService) DeleteByID(_ context.Context, input ports.DeleteInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.polls[:0]
	for _, p := range s.polls {
		if p.ID != input.PollID {
			kept = append(kept, p)
		}
	}
	s.polls = kept
	return nil
}

func (s *stubService) GetByUsername(context.Context, string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *s.user
	return &u, nil
}

func (s *stubService) Follow(_ context.Context, input ports.FollowInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.followed = append(s.followed, input)
	s.user.Followers = append(s.user.Followers, input.Viewer.ID)
	return nil
}

func newStubService() *stubService {
	return &stubService{
		polls: []domain.Poll{
			{
				ID:        "4",
				Title:     "Older poll",
				Options:   []*domain.PollOption{{Text: "Yes", Clicks: 1}, {Text: "No", Clicks: 1}},
				CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			},
			{
				ID:        "5",
				Title:     "Newer poll",
				Options:   []*domain.PollOption{{Text: "Tabs"}, {Text: "Spaces"}},
				CreatedAt: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
			},
		},
		user: &domain.User{ID: "u-alice", Username: "alice", Followers: []domain.ID{}},
	}
}

type testApp struct {
	Server   *httptest.Server
	Client   *http.Client
	Service  *stubService
	Sessions *SessionStore
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	logger, _ := test.NewNullLogger()
	svc := newStubService()
	sessions := NewSessionStore(time.Hour)

	newPage := func(segment string, outbox *Outbox) (ports.ProfilePage, error) {
		page, err := services.NewProfilePage(segment, services.ProfilePageConfig{
			Polls:     svc,
			Users:     svc,
			Notifier:  outbox,
			Clipboard: outbox,
			Origin:    "https://polls.example",
			Logger:    logger,
		})
		if err != nil {
			return nil, err
		}
		return page, nil
	}

	profileHandler, err := NewProfileHandler(newPage, sessions, logger)
	require.NoError(t, err)

	server := httptest.NewServer(NewHandler(profileHandler, ViewerMiddleware([]byte(testSecret), logger)))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := server.Client()
	client.Jar = jar

	return &testApp{Server: server, Client: client, Service: svc, Sessions: sessions}
}

func signToken(t *testing.T, secret, sub, username string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":      sub,
		"username": username,
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}
