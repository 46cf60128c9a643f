package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

// ErrEmptyContent is returned for a post or comment with no text.
var ErrEmptyContent = errors.New("content is required")

type Author struct {
	ID                  string `json:"_id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	SustainabilityScore Number `json:"sustainabilityScore"`
}

type Comment struct {
	ID        string    `json:"_id"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post is a community feed entry.
type Post struct {
	ID            string    `json:"_id"`
	Content       string    `json:"content"`
	Author        Author    `json:"author"`
	LikesCount    int       `json:"likesCount"`
	IsLiked       bool      `json:"isLiked"`
	Comments      []Comment `json:"comments"`
	CommentsCount int       `json:"commentsCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LikeResult is the post's like state after toggling.
type LikeResult struct {
	LikesCount int  `json:"likesCount"`
	IsLiked    bool `json:"isLiked"`
}

// Posts returns the community feed, newest first.
func (c *Client) Posts(ctx context.Context) ([]Post, error) {
	var res struct {
		Posts []Post `json:"posts"`
	}
	err := c.do(ctx, call{
		op:     "posts.list",
		method: http.MethodGet,
		path:   "/posts",
	}, &res)
	if err != nil {
		return nil, err
	}

	if res.Posts == nil {
		return []Post{}, nil
	}

	return res.Posts, nil
}

// CreatePost publishes a post.
func (c *Client) CreatePost(ctx context.Context, content string) (*Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	body := struct {
		Content string `json:"content"`
	}{content}

	var res struct {
		Post Post `json:"post"`
	}
	err := c.do(ctx, call{
		op:     "posts.create",
		method: http.MethodPost,
		path:   "/posts",
		body:   body,
	}, &res)
	if err != nil {
		return nil, err
	}

	return &res.Post, nil
}

// LikePost toggles the user's like on a post.
func (c *Client) LikePost(ctx context.Context, id string) (*LikeResult, error) {
	path, err := resourcePath("/posts", id, "like")
	if err != nil {
		return nil, err
	}

	var res LikeResult
	if err := c.do(ctx, call{op: "posts.like", method: http.MethodPost, path: path}, &res); err != nil {
		return nil, err
	}

	return &res, nil
}

// CommentOnPost adds a comment to a post.
func (c *Client) CommentOnPost(ctx context.Context, id, content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}

	path, err := resourcePath("/posts", id, "comment")
	if err != nil {
		return err
	}

	body := struct {
		Content string `json:"content"`
	}{content}

	return c.do(ctx, call{op: "posts.comment", method: http.MethodPost, path: path, body: body}, nil)
}
