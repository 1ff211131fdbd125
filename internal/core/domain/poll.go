package domain

import (
	"time"
)

type Poll struct {
	ID        ID            `json:"id"`
	Title     string        `json:"title"`
	Options   []*PollOption `json:"options"`
	Clicks    []Click       `json:"clicks"`
	Likes     []ID          `json:"likes,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type PollOption struct {
	Text   string `json:"text"`
	Clicks int64  `json:"clicks"`
}

// Click is a single vote event.
type Click struct {
	UserID      ID  `json:"userId"`
	OptionIndex int `json:"optionIndex"`
}

// TotalClicks sums the vote counters of all options, skipping empty slots.
func (p *Poll) TotalClicks() int64 {
	var total int64
	for _, opt := range p.Options {
		if opt == nil {
			continue
		}
		total += opt.Clicks
	}
	return total
}

// VoteIndexOf returns the option the user voted for, if any.
func (p *Poll) VoteIndexOf(userID ID) (int, bool) {
	if userID == "" {
		return 0, false
	}
	for _, c := range p.Clicks {
		if c.UserID == userID {
			return c.OptionIndex, true
		}
	}
	return 0, false
}

func (p *Poll) LikedBy(userID ID) bool {
	if userID == "" {
		return false
	}
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
