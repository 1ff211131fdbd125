package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidProfile   = errors.New("invalid profile")
	ErrPollBusy         = errors.New("poll has an action in flight")
	ErrFollowBusy       = errors.New("follow request already in flight")
	ErrProfileNotLoaded = errors.New("profile not loaded")
	ErrSelfFollow       = errors.New("cannot follow your own profile")
	ErrMissingPoll      = errors.New("service response did not include the updated poll")
	ErrShareUnsupported = errors.New("share is not supported")
)

// SignInRequiredError is returned when an anonymous viewer triggers an
// action that needs an identity. Its message is shown to the viewer as is.
type SignInRequiredError struct {
	Action string
}

func (e *SignInRequiredError) Error() string {
	return fmt.Sprintf("You must be signed in to %s!", e.Action)
}

// ServiceError is a business failure reported by the remote poll service
// through a `success: false` envelope.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return "request failed"
	}
	return e.Message
}
