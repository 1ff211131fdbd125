package terminal

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/vncsmyrnk/poll-profile/internal/core/domain"
	"github.com/vncsmyrnk/poll-profile/internal/core/ports"
)

// Console prints notices and clipboard writes to a writer. It has no native
// share facility.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

var (
	_ ports.Notifier  = (*Console)(nil)
	_ ports.Clipboard = (*Console)(nil)
	_ ports.Sharer    = (*Console)(nil)
)

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Notify(_ context.Context, notice domain.Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "[%s] %s\n", notice.Level, notice.Message)
}

func (c *Console) WriteText(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "%s\n", text)
	return err
}

func (c *Console) Share(context.Context, ports.ShareRequest) error {
	return domain.ErrShareUnsupported
}

// PrintView writes the profile header and its poll cards.
func PrintView(w io.Writer, view domain.ProfileView) {
	fmt.Fprintf(w, "%s  polls: %d  followers: %d\n", view.Username, view.PollCount, view.FollowerCount)
	if view.Empty {
		fmt.Fprintln(w, "No polls published!")
		return
	}

	for _, card := range view.Cards {
		fmt.Fprintf(w, "\n%s (%s) [%s]  %d votes, %d likes\n",
			card.Poll.Title, card.Poll.ID, card.Poll.CreatedAt.Format("2006-01-02 15:04"), card.TotalClicks, len(card.Poll.Likes))
		for i, opt := range card.Poll.Options {
			if opt == nil {
				continue
			}
			marker := " "
			if card.UserVoteIndex != nil && *card.UserVoteIndex == i {
				marker = "*"
			}
			fmt.Fprintf(w, "  %s %d. %s  %d\n", marker, i, opt.Text, opt.Clicks)
		}
	}
}
