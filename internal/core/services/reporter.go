package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/poll-profile/internal/core/domain"
	"github.com/vncsmyrnk/poll-profile/internal/core/ports"
)

// Reporter is the single place where page failures are logged and shown to
// the viewer.
type Reporter struct {
	log      logrus.FieldLogger
	notifier ports.Notifier
}

func NewReporter(log logrus.FieldLogger, notifier ports.Notifier) *Reporter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Reporter{
		log:      log,
		notifier: notifier,
	}
}

// Report logs err and surfaces it as an error notice. Busy rejections are
// only logged. It returns err unchanged.
func (r *Reporter) Report(ctx context.Context, action string, err error, fields logrus.Fields) error {
	if err == nil {
		return nil
	}

	entry := r.entry(action, err, fields)

	var signIn *domain.SignInRequiredError
	var serviceErr *domain.ServiceError
	switch {
	case errors.Is(err, domain.ErrPollBusy), errors.Is(err, domain.ErrFollowBusy):
		entry.Debug("action rejected while another is in flight")
		return err
	case errors.As(err, &signIn):
		entry.Info("action requires a signed in viewer")
	case errors.As(err, &serviceErr):
		entry.Warn("poll service rejected action")
	default:
		entry.Error("action failed")
	}

	r.notify(ctx, domain.Notice{Level: domain.NoticeError, Message: err.Error()})
	return err
}

// Log records a failure without notifying the viewer.
func (r *Reporter) Log(action string, err error, fields logrus.Fields) {
	if err == nil {
		return
	}
	r.entry(action, err, fields).Warn("background load failed")
}

func (r *Reporter) Inform(ctx context.Context, message string) {
	r.notify(ctx, domain.Notice{Level: domain.NoticeInfo, Message: message})
}

func (r *Reporter) entry(action string, err error, fields logrus.Fields) *logrus.Entry {
	return r.log.WithFields(fields).WithField("action", action).WithError(err)
}

func (r *Reporter) notify(ctx context.Context, notice domain.Notice) {
	if r.notifier == nil {
		return
	}
	r.notifier.Notify(ctx, notice)
}
