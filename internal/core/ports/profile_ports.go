package ports

import (
	"context"

	"github.com/vncsmyrnk/poll-profile/internal/core/domain"
)

type ProfilePage interface {
	Username() string
	Mount(ctx context.Context) error
	LoadPolls(ctx context.Context) error
	LoadProfile(ctx context.Context) error
	Vote(ctx context.Context, viewer domain.Viewer, pollID domain.ID, optionIndex int) error
	Like(ctx context.Context, viewer domain.Viewer, pollID domain.ID) error
	DeletePoll(ctx context.Context, viewer domain.Viewer, pollID domain.ID) error
	ToggleFollow(ctx context.Context, viewer domain.Viewer) error
	Share(ctx context.Context, title, id string) error
	View(viewer domain.Viewer) domain.ProfileView
}
