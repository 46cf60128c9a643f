package session

import (
	"context"
	"errors"
)

// Keys under which a session is persisted.
const (
	TokenKey = "token"
	UserKey  = "user"
)

var (
	// ErrSessionNotFound is returned by a Persistence when nothing is saved.
	ErrSessionNotFound = errors.New("session not found")

	// ErrCorruptSession is returned by a Persistence when the saved record
	// cannot be read back intact.
	ErrCorruptSession = errors.New("session record is corrupt")
)

// Record is the persisted form of a session. The token and user are always
// written and erased together.
type Record struct {
	Token string
	User  User
}

// Persistence stores a session record across process restarts.
type Persistence interface {
	Load(ctx context.Context) (*Record, error)
	Save(ctx context.Context, rec Record) error
	Clear(ctx context.Context) error
}
