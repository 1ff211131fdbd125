package ports

import (
	"context"

	"github.com/vncsmyrnk/poll-profile/internal/core/domain"
)

// PollGateway is the remote poll service. Business failures come back as
// *domain.ServiceError, anything else is a transport or decoding failure.
type PollGateway interface {
	ListByUsername(ctx context.Context, username string) ([]domain.Poll, error)
	// UpdateResult and Like return a nil poll when the service acknowledged
	// the mutation without echoing the updated entity.
	UpdateResult(ctx context.Context, input VoteInput) (*domain.Poll, error)
	Like(ctx context.Context, input LikeInput) (*domain.Poll, error)
	DeleteByID(ctx context.Context, input DeleteInput) error
}

type VoteInput struct {
	PollID      domain.ID
	OptionIndex int
	Viewer      domain.Viewer
}

type LikeInput struct {
	PollID domain.ID
	Viewer domain.Viewer
}

type DeleteInput struct {
	PollID domain.ID
	Viewer domain.Viewer
}
