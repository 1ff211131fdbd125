package pollservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/poll-profile/internal/core/domain"
	"github.com/vncsmyrnk/poll-profile/internal/core/ports"
)

const maxResponseBytes = 4 << 20

// Client calls the remote poll/user service functions over HTTP. Each
// function is exposed as POST {baseURL}/{function} with its arguments as a
// JSON object.
type Client struct {
	baseURL string
	http    *http.Client
	log     logrus.FieldLogger
}

var (
	_ ports.PollGateway = (*Client)(nil)
	_ ports.UserGateway = (*Client)(nil)
)

func NewClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type usernameRequest struct {
	Username string `json:"username"`
}

type updatePollResultRequest struct {
	PollID      domain.ID `json:"pollId"`
	OptionIndex int       `json:"optionIndex"`
	UserID      domain.ID `json:"userId"`
}

type likePollRequest struct {
	PollID domain.ID `json:"pollId"`
	UserID domain.ID `json:"userId"`
}

type deletePollRequest struct {
	PollID domain.ID `json:"pollId"`
	UserID domain.ID `json:"userId,omitempty"`
}

type followUserRequest struct {
	UserID     domain.ID `json:"userId"`
	FollowerID domain.ID `json:"followerId,omitempty"`
}

func (c *Client) ListByUsername(ctx context.Context, username string) ([]domain.Poll, error) {
	env, err := c.call(ctx, "getAllPollsByUsername", "", usernameRequest{Username: username})
	if err != nil {
		return nil, err
	}
	return env.Polls, nil
}

func (c *Client) UpdateResult(ctx context.Context, input ports.VoteInput) (*domain.Poll, error) {
	env, err := c.call(ctx, "updatePollResult", input.Viewer.Token, updatePollResultRequest{
		PollID:      input.PollID,
		OptionIndex: input.OptionIndex,
		UserID:      input.Viewer.ID,
	})
	if err != nil {
		return nil, err
	}
	return env.Poll, nil
}

func (c *Client) Like(ctx context.Context, input ports.LikeInput) (*domain.Poll, error) {
	env, err := c.call(ctx, "likePoll", input.Viewer.Token, likePollRequest{
		PollID: input.PollID,
		UserID: input.Viewer.ID,
	})
	if err != nil {
		return nil, err
	}
	return env.Poll, nil
}

func (c *Client) DeleteByID(ctx context.Context, input ports.DeleteInput) error {
	_, err := c.call(ctx, "deletePollById", input.Viewer.Token, deletePollRequest{
		PollID: input.PollID,
		UserID: input.Viewer.ID,
	})
	return err
}

func (c *Client) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	env, err := c.call(ctx, "getUserByUsername", "", usernameRequest{Username: username})
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, fmt.Errorf("getUserByUsername: %w: missing user", ErrMalformedEnvelope)
	}
	return env.User, nil
}

func (c *Client) Follow(ctx context.Context, input ports.FollowInput) error {
	_, err := c.call(ctx, "followUser", input.Viewer.Token, followUserRequest{
		UserID:     input.UserID,
		FollowerID: input.Viewer.ID,
	})
	return err
}

// call invokes one remote function. A `success: false` envelope is returned
// as *domain.ServiceError; everything else that goes wrong is wrapped.
func (c *Client) call(ctx context.Context, function, token string, args any) (*envelope, error) {
	payload, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode request: %w", function, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+function, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", function, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", function, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", function, err)
	}

	c.log.WithFields(logrus.Fields{
		"function":    function,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("poll service call")

	env, decodeErr := decodeEnvelope(body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Prefer the service's own message when it still sent an envelope.
		if decodeErr == nil && !env.Success && env.Error != "" {
			return nil, env.err()
		}
		return nil, fmt.Errorf("%s: unexpected status %d", function, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%s: %w", function, decodeErr)
	}
	if err := env.err(); err != nil {
		return nil, err
	}
	return env, nil
}
