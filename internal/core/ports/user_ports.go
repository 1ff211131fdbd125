package ports

import (
	"context"

	"github.com/vncsmyrnk/poll-profile/internal/core/domain"
)

type UserGateway interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// Follow toggles the follow relation between the viewer and the user.
	Follow(ctx context.Context, input FollowInput) error
}

type FollowInput struct {
	UserID domain.ID
	Viewer domain.Viewer
}
