package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/wolfeidau/ecotrack/internal/session"
)

var (
	// ErrInvalidRequest is returned when a request fails local validation
	// and is never sent.
	ErrInvalidRequest = errors.New("invalid request")

	errMissingToken = errors.New("authentication response did not include a token")

	validate = validator.New()
)

var _ session.AuthService = (*Client)(nil)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials for a token and user profile.
func (c *Client) Login(ctx context.Context, email, password string) (*session.AuthResult, error) {
	req := loginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var res session.AuthResult
	err := c.do(ctx, call{
		op:     "auth.login",
		method: http.MethodPost,
		path:   "/auth/login",
		body:   req,
		anon:   true,
	}, &res)
	if err != nil {
		return nil, err
	}

	if res.Token == "" {
		return nil, errMissingToken
	}

	return &res, nil
}

// Register creates an account and returns its token and user profile.
func (c *Client) Register(ctx context.Context, name, email, password string) (*session.AuthResult, error) {
	req := registerRequest{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email), Password: password}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var res session.AuthResult
	err := c.do(ctx, call{
		op:     "auth.register",
		method: http.MethodPost,
		path:   "/auth/register",
		body:   req,
		anon:   true,
	}, &res)
	if err != nil {
		return nil, err
	}

	if res.Token == "" {
		return nil, errMissingToken
	}

	return &res, nil
}

// validateRequest runs struct validation and flattens the failures into a
// single ErrInvalidRequest.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "gte", "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}

	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
}
