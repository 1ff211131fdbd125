package services

import (
	"slices"

	"github.com/vncsmyrnk/poll-profile/internal/core/domain"
)

// View builds the render model for viewer. Cards are ordered newest first
// regardless of the order the service returned them in.
func (p *ProfilePage) View(viewer domain.Viewer) domain.ProfileView {
	p.mu.Lock()
	polls := append([]domain.Poll(nil), p.state.polls...)
	loading := make(map[domain.ID]bool, len(p.state.loading))
	for id, v := range p.state.loading {
		loading[id] = v
	}
	followers := p.state.followers
	userID := p.state.userID
	followBusy := p.state.followBusy
	p.mu.Unlock()

	view := domain.ProfileView{
		Username:      p.username,
		PollCount:     len(polls),
		FollowerCount: len(followers),
		Following:     viewer.SignedIn() && slices.Contains(followers, viewer.ID),
		CanFollow:     !p.isSelf(viewer, userID),
		FollowBusy:    followBusy,
		Empty:         len(polls) == 0,
		Cards:         make([]domain.PollCard, 0, len(polls)),
	}

	for _, poll := range SortNewestFirst(polls) {
		card := domain.PollCard{
			Poll:        poll,
			Loading:     loading[poll.ID],
			TotalClicks: poll.TotalClicks(),
			Liked:       poll.LikedBy(viewer.ID),
		}
		if idx, ok := poll.VoteIndexOf(viewer.ID); ok {
			card.UserVoteIndex = &idx
		}
		view.Cards = append(view.Cards, card)
	}

	return view
}

// SortNewestFirst returns a copy of polls ordered by creation time,
// descending. Polls created at the same instant keep their relative order.
func SortNewestFirst(polls []domain.Poll) []domain.Poll {
	sorted := slices.Clone(polls)
	slices.SortStableFunc(sorted, func(a, b domain.Poll) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return sorted
}
