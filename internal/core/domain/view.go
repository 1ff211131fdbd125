package domain

// ProfileView is the render model of a profile page.
type ProfileView struct {
	Username      string     `json:"username"`
	PollCount     int        `json:"poll_count"`
	FollowerCount int        `json:"follower_count"`
	Following     bool       `json:"following"`
	CanFollow     bool       `json:"can_follow"`
	FollowBusy    bool       `json:"follow_busy"`
	Empty         bool       `json:"empty"`
	Cards         []PollCard `json:"cards"`
}

type PollCard struct {
	Poll          Poll  `json:"poll"`
	Loading       bool  `json:"loading"`
	TotalClicks   int64 `json:"total_clicks"`
	UserVoteIndex *int  `json:"user_vote_index,omitempty"`
	Liked         bool  `json:"liked"`
}
