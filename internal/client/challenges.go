package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/wolfeidau/ecotrack/internal/session"
)

// ErrMissingID is returned when an operation needs a resource id and got none.
var ErrMissingID = errors.New("id is required")

// Challenge is a sustainability challenge as listed for the signed in user.
type Challenge struct {
	ID               string `json:"_id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	Difficulty       string `json:"difficulty"`
	Points           Number `json:"points"`
	Duration         Text   `json:"duration"`
	ParticipantCount int    `json:"participantCount"`
	IsJoined         bool   `json:"isJoined"`
	IsCompleted      bool   `json:"isCompleted"`
}

type LeaderboardEntry struct {
	ID                  string `json:"_id"`
	Name                string `json:"name"`
	SustainabilityScore Number `json:"sustainabilityScore"`
	CompletedChallenges int    `json:"completedChallenges"`
}

// Challenges lists challenges, optionally filtered by category. An empty
// category or "all" lists everything.
func (c *Client) Challenges(ctx context.Context, category string) ([]Challenge, error) {
	var query url.Values
	if category = strings.TrimSpace(category); category != "" {
		query = url.Values{"category": {category}}
	}

	var res struct {
		Challenges []Challenge `json:"challenges"`
	}
	err := c.do(ctx, call{
		op:     "challenges.list",
		method: http.MethodGet,
		path:   "/challenges",
		query:  query,
	}, &res)
	if err != nil {
		return nil, err
	}

	return res.Challenges, nil
}

// JoinChallenge enrols the user in a challenge.
func (c *Client) JoinChallenge(ctx context.Context, id string) error {
	path, err := resourcePath("/challenges", id, "join")
	if err != nil {
		return err
	}

	return c.do(ctx, call{op: "challenges.join", method: http.MethodPost, path: path}, nil)
}

// LeaveChallenge withdraws the user from a challenge.
func (c *Client) LeaveChallenge(ctx context.Context, id string) error {
	path, err := resourcePath("/challenges", id, "leave")
	if err != nil {
		return err
	}

	return c.do(ctx, call{op: "challenges.leave", method: http.MethodPost, path: path}, nil)
}

// CompleteChallenge submits a quiz score and returns the profile changes the
// server made. Apply them with session.Store.UpdateProfile.
func (c *Client) CompleteChallenge(ctx context.Context, id string, score int) (session.ProfileUpdate, error) {
	path, err := resourcePath("/challenges", id, "complete")
	if err != nil {
		return session.ProfileUpdate{}, err
	}

	body := struct {
		Score int `json:"score"`
	}{score}

	var res struct {
		User session.ProfileUpdate `json:"user"`
	}
	err = c.do(ctx, call{
		op:     "challenges.complete",
		method: http.MethodPost,
		path:   path,
		body:   body,
	}, &res)
	if err != nil {
		return session.ProfileUpdate{}, err
	}

	return res.User, nil
}

// Leaderboard returns users ranked by sustainability score.
func (c *Client) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var res struct {
		Leaderboard []LeaderboardEntry `json:"leaderboard"`
	}
	err := c.do(ctx, call{
		op:     "challenges.leaderboard",
		method: http.MethodGet,
		path:   "/leaderboard",
	}, &res)
	if err != nil {
		return nil, err
	}

	return res.Leaderboard, nil
}

// resourcePath builds prefix/{id}/action with the id path-escaped.
func resourcePath(prefix, id, action string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrMissingID
	}
	return prefix + "/" + url.PathEscape(id) + "/" + action, nil
}
