package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/poll-profile/internal/core/domain"
	"github.com/vncsmyrnk/poll-profile/internal/core/ports"
)

// ReconcilePolicy decides what a successful mutation does to the cached
// poll list.
type ReconcilePolicy int

const (
	// MergeOrReload replaces the returned poll in place and reloads the
	// whole list when the service did not return one.
	MergeOrReload ReconcilePolicy = iota
	// MergeOnly treats a success without the updated poll as an error.
	MergeOnly
)

func ParseReconcilePolicy(s string) (ReconcilePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "merge-or-reload":
		return MergeOrReload, nil
	case "merge-only":
		return MergeOnly, nil
	default:
		return 0, fmt.Errorf("unknown reconcile policy %q", s)
	}
}

func (p ReconcilePolicy) String() string {
	if p == MergeOnly {
		return "merge-only"
	}
	return "merge-or-reload"
}

type ProfilePageConfig struct {
	Polls     ports.PollGateway
	Users     ports.UserGateway
	Notifier  ports.Notifier
	Sharer    ports.Sharer
	Clipboard ports.Clipboard
	// Origin is prefixed to shared links, e.g. "https://polls.example".
	Origin string
	Policy ReconcilePolicy
	Logger logrus.FieldLogger
}

var _ ports.ProfilePage = (*ProfilePage)(nil)

// ProfilePage holds the view state of one mounted profile page and
// dispatches viewer actions to the remote poll service. State is never
// locked across a remote call.
type ProfilePage struct {
	username  string
	polls     ports.PollGateway
	users     ports.UserGateway
	sharer    ports.Sharer
	clipboard ports.Clipboard
	reporter  *Reporter
	origin    string
	policy    ReconcilePolicy

	mu    sync.Mutex
	state pageState
}

type pageState struct {
	polls      []domain.Poll
	loading    map[domain.ID]bool
	followers  []domain.ID
	userID     domain.ID
	followBusy bool
}

func NewProfilePage(segment string, cfg ProfilePageConfig) (*ProfilePage, error) {
	username, err := ResolveUsername(segment)
	if err != nil {
		return nil, err
	}
	if cfg.Polls == nil || cfg.Users == nil {
		return nil, errors.New("poll and user gateways are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger = logger.WithField("profile", username)

	return &ProfilePage{
		username:  username,
		polls:     cfg.Polls,
		users:     cfg.Users,
		sharer:    cfg.Sharer,
		clipboard: cfg.Clipboard,
		reporter:  NewReporter(logger, cfg.Notifier),
		origin:    strings.TrimRight(cfg.Origin, "/"),
		policy:    cfg.Policy,
		state: pageState{
			loading: make(map[domain.ID]bool),
		},
	}, nil
}

func (p *ProfilePage) Username() string {
	return p.username
}

// Mount fetches the polls and the profile owner concurrently.
func (p *ProfilePage) Mount(ctx context.Context) error {
	var wg sync.WaitGroup
	var pollsErr, profileErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		pollsErr = p.LoadPolls(ctx)
	}()
	go func() {
		defer wg.Done()
		profileErr = p.LoadProfile(ctx)
	}()
	wg.Wait()

	return errors.Join(pollsErr, profileErr)
}

// LoadPolls replaces the cached polls. Failures keep the previous list and
// are only logged.
func (p *ProfilePage) LoadPolls(ctx context.Context) error {
	if err := p.loadPolls(ctx); err != nil {
		p.reporter.Log("load_polls", err, nil)
		return err
	}
	return nil
}

func (p *ProfilePage) loadPolls(ctx context.Context) error {
	polls, err := p.polls.ListByUsername(ctx, p.username)
	if err != nil {
		return fmt.Errorf("failed to load polls: %w", err)
	}
	if polls == nil {
		polls = []domain.Poll{}
	}

	p.mu.Lock()
	p.state.polls = polls
	p.mu.Unlock()
	return nil
}

// LoadProfile refreshes the profile owner id and followers. Failures are
// only logged.
func (p *ProfilePage) LoadProfile(ctx context.Context) error {
	if err := p.loadProfile(ctx); err != nil {
		p.reporter.Log("load_profile", err, nil)
		return err
	}
	return nil
}

func (p *ProfilePage) loadProfile(ctx context.Context) error {
	user, err := p.users.GetByUsername(ctx, p.username)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if user == nil {
		return fmt.Errorf("failed to load profile: %w", &domain.ServiceError{Message: "user not found"})
	}

	p.mu.Lock()
	p.state.userID = user.ID
	p.state.followers = user.Followers
	p.mu.Unlock()
	return nil
}

func (p *ProfilePage) Vote(ctx context.Context, viewer domain.Viewer, pollID domain.ID, optionIndex int) error {
	const action = "vote"
	fields := logrus.Fields{"poll_id": pollID, "option_index": optionIndex}

	if !viewer.SignedIn() {
		return p.reporter.Report(ctx, action, &domain.SignInRequiredError{Action: action}, fields)
	}

	return p.mutate(ctx, action, pollID, fields, func(ctx context.Context) (*domain.Poll, error) {
		return p.polls.UpdateResult(ctx, ports.VoteInput{
			PollID:      pollID,
			OptionIndex: optionIndex,
			Viewer:      viewer,
		})
	})
}

func (p *ProfilePage) Like(ctx context.Context, viewer domain.Viewer, pollID domain.ID) error {
	const action = "like"
	fields := logrus.Fields{"poll_id": pollID}

	if !viewer.SignedIn() {
		return p.reporter.Report(ctx, action, &domain.SignInRequiredError{Action: action}, fields)
	}

	return p.mutate(ctx, action, pollID, fields, func(ctx context.Context) (*domain.Poll, error) {
		return p.polls.Like(ctx, ports.LikeInput{PollID: pollID, Viewer: viewer})
	})
}

// mutate runs a vote or like with the poll marked as loading. A second
// mutation for the same poll is rejected until the first settles.
func (p *ProfilePage) mutate(ctx context.Context, action string, pollID domain.ID, fields logrus.Fields, call func(context.Context) (*domain.Poll, error)) error {
	if err := p.beginPoll(pollID); err != nil {
		return p.reporter.Report(ctx, action, err, fields)
	}
	defer p.endPoll(pollID)

	updated, err := call(ctx)
	if err != nil {
		return p.reporter.Report(ctx, action, err, fields)
	}
	if err := p.reconcile(ctx, updated); err != nil {
		return p.reporter.Report(ctx, action, err, fields)
	}
	return nil
}

// reconcile applies a successful mutation to the cached polls. A failed
// reload is only logged: the mutation itself went through.
func (p *ProfilePage) reconcile(ctx context.Context, updated *domain.Poll) error {
	if updated != nil {
		p.mergePoll(*updated)
		return nil
	}
	if p.policy == MergeOnly {
		return domain.ErrMissingPoll
	}
	_ = p.LoadPolls(ctx)
	return nil
}

func (p *ProfilePage) mergePoll(updated domain.Poll) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.state.polls {
		if p.state.polls[i].ID == updated.ID {
			p.state.polls[i] = updated
			return
		}
	}
}

func (p *ProfilePage) beginPoll(pollID domain.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.loading[pollID] {
		return domain.ErrPollBusy
	}
	p.state.loading[pollID] = true
	return nil
}

func (p *ProfilePage) endPoll(pollID domain.ID) {
	p.mu.Lock()
	p.state.loading[pollID] = false
	p.mu.Unlock()
}

func (p *ProfilePage) DeletePoll(ctx context.Context, viewer domain.Viewer, pollID domain.ID) error {
	const action = "delete"
	fields := logrus.Fields{"poll_id": pollID}

	if !viewer.SignedIn() {
		return p.reporter.Report(ctx, action, &domain.SignInRequiredError{Action: action}, fields)
	}

	if err := p.polls.DeleteByID(ctx, ports.DeleteInput{PollID: pollID, Viewer: viewer}); err != nil {
		return p.reporter.Report(ctx, action, err, fields)
	}
	_ = p.LoadPolls(ctx)
	return nil
}

// ToggleFollow follows or unfollows the profile owner. The follow control
// stays disabled while the request is in flight.
func (p *ProfilePage) ToggleFollow(ctx context.Context, viewer domain.Viewer) error {
	const action = "follow"

	p.mu.Lock()
	userID := p.state.userID
	var err error
	switch {
	case userID == "":
		err = domain.ErrProfileNotLoaded
	case p.isSelf(viewer, userID):
		err = domain.ErrSelfFollow
	case p.state.followBusy:
		err = domain.ErrFollowBusy
	default:
		p.state.followBusy = true
	}
	p.mu.Unlock()

	fields := logrus.Fields{"user_id": userID}
	if err != nil {
		return p.reporter.Report(ctx, action, err, fields)
	}
	defer func() {
		p.mu.Lock()
		p.state.followBusy = false
		p.mu.Unlock()
	}()

	if err := p.users.Follow(ctx, ports.FollowInput{UserID: userID, Viewer: viewer}); err != nil {
		return p.reporter.Report(ctx, action, err, fields)
	}
	_ = p.LoadProfile(ctx)
	return nil
}

func (p *ProfilePage) isSelf(viewer domain.Viewer, userID domain.ID) bool {
	if !viewer.SignedIn() {
		return false
	}
	return viewer.ID == userID || viewer.Username == p.username
}

// Share hands the link to the native sharer and falls back to copying it
// to the clipboard.
func (p *ProfilePage) Share(ctx context.Context, title, id string) error {
	const action = "share"
	link := p.origin + "/" + id
	fields := logrus.Fields{"url": link}

	if p.sharer != nil {
		err := p.sharer.Share(ctx, ports.ShareRequest{Title: title, Text: title, URL: link})
		if err == nil {
			return nil
		}
		p.reporter.entry(action, err, fields).Debug("native share failed, copying link")
	}

	if p.clipboard == nil {
		return p.reporter.Report(ctx, action, domain.ErrShareUnsupported, fields)
	}
	if err := p.clipboard.WriteText(ctx, link); err != nil {
		return p.reporter.Report(ctx, action, fmt.Errorf("failed to copy link: %w", err), fields)
	}

	p.reporter.Inform(ctx, "Copied link to clipboard!")
	return nil
}

func (p *ProfilePage) Polls() []domain.Poll {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Poll(nil), p.state.polls...)
}

func (p *ProfilePage) Loading(pollID domain.ID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.loading[pollID]
}

func (p *ProfilePage) UserID() domain.ID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.userID
}

func (p *ProfilePage) Followers() []domain.ID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.ID(nil), p.state.followers...)
}
