package client

import (
	"context"
	"net/http"
	"strings"
)

// Chat sends a message to the sustainability assistant and returns its reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyContent
	}

	body := struct {
		Message string `json:"message"`
	}{message}

	var res struct {
		Response string `json:"response"`
	}
	err := c.do(ctx, call{
		op:     "ai.chat",
		method: http.MethodPost,
		path:   "/ai/chat",
		body:   body,
	}, &res)
	if err != nil {
		return "", err
	}

	return res.Response, nil
}
