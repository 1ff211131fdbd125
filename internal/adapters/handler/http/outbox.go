package http

import (
	"context"
	"net/http"
	"sync"

	"github.com/vncsmyrnk/poll-profile/internal/core/domain"
	"github.com/vncsmyrnk/poll-profile/internal/core/ports"
)

// Outbox collects what a page wants to hand to the browser: toast notices
// and text to put on the clipboard. Writes made under a request scope (see
// ScopeOutbox) are delivered only to that request's response; anything else
// waits in the outbox until the next unscoped drain.
type Outbox struct {
	pending delivery
}

type delivery struct {
	mu        sync.Mutex
	notices   []domain.Notice
	clipboard string
}

type deliveryKey struct{}

var (
	_ ports.Notifier  = (*Outbox)(nil)
	_ ports.Clipboard = (*Outbox)(nil)
)

func NewOutbox() *Outbox {
	return &Outbox{}
}

// WithDelivery returns a context whose notices and clipboard writes are kept
// apart from other requests sharing the same page.
func WithDelivery(ctx context.Context) context.Context {
	return context.WithValue(ctx, deliveryKey{}, &delivery{})
}

// ScopeOutbox gives every request its own delivery.
func ScopeOutbox(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithDelivery(r.Context())))
	})
}

func (o *Outbox) target(ctx context.Context) *delivery {
	if d, ok := ctx.Value(deliveryKey{}).(*delivery); ok {
		return d
	}
	return &o.pending
}

func (o *Outbox) Notify(ctx context.Context, notice domain.Notice) {
	d := o.target(ctx)
	d.mu.Lock()
	d.notices = append(d.notices, notice)
	d.mu.Unlock()
}

func (o *Outbox) WriteText(ctx context.Context, text string) error {
	d := o.target(ctx)
	d.mu.Lock()
	d.clipboard = text
	d.mu.Unlock()
	return nil
}

// Drain empties the delivery of ctx and returns what it held.
func (o *Outbox) Drain(ctx context.Context) ([]domain.Notice, string) {
	d := o.target(ctx)
	d.mu.Lock()
	defer d.mu.Unlock()

	notices, clipboard := d.notices, d.clipboard
	d.notices, d.clipboard = nil, ""
	if notices == nil {
		notices = []domain.Notice{}
	}
	return notices, clipboard
}
