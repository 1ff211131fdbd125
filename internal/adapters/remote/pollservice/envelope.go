package pollservice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/poll-profile/internal/core/domain"
)

var ErrMalformedEnvelope = errors.New("malformed service response")

// envelope is the wrapper every remote function answers with.
type envelope struct {
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	Poll    *domain.Poll  `json:"poll,omitempty"`
	Polls   []domain.Poll `json:"polls,omitempty"`
	User    *domain.User  `json:"user,omitempty"`
}

// decodeEnvelope parses a response body. Server actions hand back the
// envelope as a JSON string, so a quoted body is unwrapped first.
func decodeEnvelope(body []byte) (*envelope, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '"' {
		var inner string
		if err := json.Unmarshal(body, &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
		}
		body = []byte(inner)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	return &env, nil
}

// err maps a failed envelope to a domain.ServiceError.
func (e *envelope) err() error {
	if e.Success {
		return nil
	}
	return &domain.ServiceError{Message: e.Error}
}
