package ports

import (
	"context"

	"github.com/vncsmyrnk/poll-profile/internal/core/domain"
)

type Notifier interface {
	Notify(ctx context.Context, notice domain.Notice)
}

type ShareRequest struct {
	Title string
	Text  string
	URL   string
}

// Sharer hands a link to a native share facility. Implementations return
// domain.ErrShareUnsupported when there is none.
type Sharer interface {
	Share(ctx context.Context, req ShareRequest) error
}

type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}
