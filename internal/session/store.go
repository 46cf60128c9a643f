// Package session holds the authentication state of the running client and
// keeps it in step with a persistent record.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ecotrack/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrNotAuthenticated is returned by operations that need a signed in user.
	ErrNotAuthenticated = errors.New("not logged in")

	// ErrEmptyToken is returned when logging in without a bearer token.
	ErrEmptyToken = errors.New("token must not be empty")
)

// Session is a point-in-time view of the store.
type Session struct {
	User  *User
	Token string
}

// IsAuthenticated is derived from the token; it is never stored.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// Store is the session state machine. It is Anonymous when no token is
// held and Authenticated otherwise; user and token are always set and
// cleared together.
type Store struct {
	mu      sync.RWMutex
	persist Persistence
	now     func() time.Time

	user  *User
	token string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to check token expiry on restore.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store and restores any previously persisted session.
// A missing, unreadable or expired record leaves the store Anonymous; a
// corrupt or expired one is also erased.
func NewStore(ctx context.Context, persist Persistence, opts ...Option) (*Store, error) {
	s := &Store{
		persist: persist,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	rec, err := persist.Load(ctx)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		log.Debug().Msg("no persisted session")
		return s, nil
	case errors.Is(err, ErrCorruptSession):
		log.Warn().Err(err).Msg("discarding unreadable session")
		return s.discard(ctx)
	case err != nil:
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if rec.Token == "" {
		log.Warn().Msg("discarding session without token")
		return s.discard(ctx)
	}

	if tokenExpired(rec.Token, s.now()) {
		log.Info().Str("fingerprint", Fingerprint(rec.Token)).Msg("persisted token expired")
		return s.discard(ctx)
	}

	user := rec.User.clone()
	s.user = &user
	s.token = rec.Token

	log.Debug().
		Str("user", user.Email).
		Str("fingerprint", Fingerprint(rec.Token)).
		Msg("session restored")

	return s, nil
}

// discard erases a persisted record that cannot be restored.
func (s *Store) discard(ctx context.Context) (*Store, error) {
	if err := s.persist.Clear(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear session: %w", err)
	}
	return s, nil
}

// Current returns a copy of the session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return Session{}
	}
	user := s.user.clone()
	return Session{User: &user, Token: s.token}
}

// IsAuthenticated reports whether a token is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// BearerToken returns the current token, or an empty string when Anonymous.
func (s *Store) BearerToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Login persists the user and token and makes the session Authenticated.
// If persisting fails the in-memory state is left unchanged.
func (s *Store) Login(ctx context.Context, user User, token string) error {
	return s.authenticate(ctx, "login", user, token)
}

// Register has the same effect as Login.
func (s *Store) Register(ctx context.Context, user User, token string) error {
	return s.authenticate(ctx, "register", user, token)
}

func (s *Store) authenticate(ctx context.Context, action string, user User, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := user.clone()
	if err := s.persist.Save(ctx, Record{Token: token, User: stored}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.user = &stored
	s.token = token

	recordTransition(ctx, action)

	log.Info().
		Str("action", action).
		Str("user", stored.Email).
		Str("fingerprint", Fingerprint(token)).
		Msg("session authenticated")

	return nil
}

// Logout erases the persisted record and clears the session. The in-memory
// state is cleared even when erasing fails, and that error is returned.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.persist.Clear(ctx)

	fingerprint := Fingerprint(s.token)
	s.user = nil
	s.token = ""

	recordTransition(ctx, "logout")

	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	log.Info().Str("fingerprint", fingerprint).Msg("session cleared")

	return nil
}

// UpdateProfile merges the update over the current user and returns the
// result. It returns ErrNotAuthenticated when Anonymous.
func (s *Store) UpdateProfile(ctx context.Context, update ProfileUpdate) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return User{}, ErrNotAuthenticated
	}

	merged := s.user.Merge(update)
	s.user = &merged

	recordTransition(ctx, "update_profile")

	return merged.clone(), nil
}

// SaveProfile merges the update like UpdateProfile and writes the merged
// record back with the current token, so the change outlives the process.
// If persisting fails the in-memory state is left unchanged.
func (s *Store) SaveProfile(ctx context.Context, update ProfileUpdate) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return User{}, ErrNotAuthenticated
	}

	merged := s.user.Merge(update)
	if err := s.persist.Save(ctx, Record{Token: s.token, User: merged.clone()}); err != nil {
		return User{}, fmt.Errorf("failed to save session: %w", err)
	}
	s.user = &merged

	recordTransition(ctx, "save_profile")

	log.Debug().
		Str("user", merged.Email).
		Str("fingerprint", Fingerprint(s.token)).
		Msg("profile saved")

	return merged.clone(), nil
}

func recordTransition(ctx context.Context, action string) {
	telemetry.GetMetrics().SessionTransitionsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("action", action)))
}
