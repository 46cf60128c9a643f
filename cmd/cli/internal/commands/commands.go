package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wolfeidau/ecotrack/internal/client"
	"github.com/wolfeidau/ecotrack/internal/session"
	"github.com/wolfeidau/ecotrack/internal/session/filestore"
	"github.com/wolfeidau/ecotrack/internal/session/memory"
)

// ErrNotLoggedIn is returned by commands that need a signed in session.
var ErrNotLoggedIn = errors.New("not logged in: run `ecotrack login` first")

type Globals struct {
	Debug      bool
	Version    string
	APIURL     string
	SessionDir string
	CacheDir   string
	Timeout    time.Duration
	Ephemeral  bool

	// Persistence overrides where the session is kept.
	Persistence session.Persistence
	Out         io.Writer
	In          io.Reader
}

func (g *Globals) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Globals) in() io.Reader {
	if g.In == nil {
		return os.Stdin
	}
	return g.In
}

func (g *Globals) persistence() (session.Persistence, error) {
	switch {
	case g.Persistence != nil:
		return g.Persistence, nil
	case g.Ephemeral:
		g.Persistence = memory.NewPersistence()
		return g.Persistence, nil
	}

	fs, err := filestore.New(g.SessionDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return fs, nil
}

// openStore restores the saved session, if any.
func (g *Globals) openStore(ctx context.Context) (*session.Store, error) {
	persist, err := g.persistence()
	if err != nil {
		return nil, err
	}

	store, err := session.NewStore(ctx, persist)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	return store, nil
}

func (g *Globals) newClient(tokens client.TokenProvider) (*client.Client, error) {
	cfg := client.DefaultConfig()
	if g.APIURL != "" {
		cfg.BaseURL = g.APIURL
	}
	if g.Timeout > 0 {
		cfg.Timeout = g.Timeout
	}
	cfg.CacheDir = g.CacheDir

	c, err := client.New(cfg, tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return c, nil
}

// signedIn opens the session and an API client, failing with ErrNotLoggedIn
// when the session is anonymous.
func (g *Globals) signedIn(ctx context.Context) (*session.Store, *client.Client, error) {
	store, err := g.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !store.IsAuthenticated() {
		return nil, nil, ErrNotLoggedIn
	}

	c, err := g.newClient(store)
	if err != nil {
		return nil, nil, err
	}
	return store, c, nil
}

// apiError rewrites a session error from the client into the login hint.
func apiError(action string, err error) error {
	if errors.Is(err, session.ErrNotAuthenticated) {
		return ErrNotLoggedIn
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

func float64Ptr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
