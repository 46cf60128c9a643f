package session

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// ErrBusy is returned when a login or registration is already in flight.
var ErrBusy = errors.New("another sign-in request is in progress")

// AuthResult is what the authentication service hands back on success.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// AuthService is the remote authentication endpoint.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
}

// Authenticator runs sign-in requests against an AuthService and applies
// the outcome to a Store. Only one request may be in flight at a time; a
// second one is rejected rather than cancelling the first.
type Authenticator struct {
	store   *Store
	service AuthService
	busy    atomic.Bool
}

// NewAuthenticator creates an authenticator for the store.
func NewAuthenticator(store *Store, service AuthService) *Authenticator {
	return &Authenticator{store: store, service: service}
}

// Busy reports whether a request is in flight.
func (a *Authenticator) Busy() bool {
	return a.busy.Load()
}

// Login authenticates with the service and, on success, logs the store in.
// On failure the store is left untouched and the service error is returned.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*User, error) {
	if !a.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer a.busy.Store(false)

	res, err := a.service.Login(ctx, email, password)
	if err != nil {
		log.Debug().Err(err).Str("email", email).Msg("login rejected")
		return nil, err
	}

	if err := a.store.Login(ctx, res.User, res.Token); err != nil {
		return nil, err
	}

	user := res.User.clone()
	return &user, nil
}

// Register creates an account with the service and, on success, logs the
// store in.
func (a *Authenticator) Register(ctx context.Context, name, email, password string) (*User, error) {
	if !a.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer a.busy.Store(false)

	res, err := a.service.Register(ctx, name, email, password)
	if err != nil {
		log.Debug().Err(err).Str("email", email).Msg("registration rejected")
		return nil, err
	}

	if err := a.store.Register(ctx, res.User, res.Token); err != nil {
		return nil, err
	}

	user := res.User.clone()
	return &user, nil
}

// Logout clears the session. No remote call is made.
func (a *Authenticator) Logout(ctx context.Context) error {
	return a.store.Logout(ctx)
}
