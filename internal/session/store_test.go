package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/ecotrack/internal/session"
	"github.com/wolfeidau/ecotrack/internal/session/memory"
)

func testUser() session.User {
	return session.User{
		ID:                  "u-1",
		Name:                "Ayesha",
		Email:               "ayesha@example.com",
		SustainabilityScore: 120,
		JoinedChallenges:    2,
		CompletedChallenges: 1,
		Achievements:        []string{"First Step"},
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// failingPersistence returns the configured errors from Save and Clear.
type failingPersistence struct {
	*memory.Persistence
	saveErr  error
	clearErr error
}

func (f *failingPersistence) Save(ctx context.Context, rec session.Record) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.Persistence.Save(ctx, rec)
}

func (f *failingPersistence) Clear(ctx context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	return f.Persistence.Clear(ctx)
}

func assertConsistent(t *testing.T, st *session.Store) {
	t.Helper()
	cur := st.Current()
	assert.Equal(t, cur.Token != "", st.IsAuthenticated())
	assert.Equal(t, cur.Token != "", cur.User != nil)
	assert.Equal(t, cur.IsAuthenticated(), st.IsAuthenticated())
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	t.Run("starts anonymous without a record", func(t *testing.T) {
		st, err := session.NewStore(ctx, memory.NewPersistence())
		require.NoError(t, err)
		assert.False(t, st.IsAuthenticated())
		assert.Nil(t, st.Current().User)
		assertConsistent(t, st)
	})

	t.Run("restores a saved session", func(t *testing.T) {
		p := memory.NewPersistence()
		require.NoError(t, p.Save(ctx, session.Record{Token: "opaque-token", User: testUser()}))

		st, err := session.NewStore(ctx, p)
		require.NoError(t, err)
		require.True(t, st.IsAuthenticated())

		cur := st.Current()
		assert.Equal(t, "opaque-token", cur.Token)
		assert.Equal(t, testUser(), *cur.User)
	})

	t.Run("restores an unexpired jwt", func(t *testing.T) {
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		token := signedToken(t, now.Add(time.Hour))

		p := memory.NewPersistence()
		require.NoError(t, p.Save(ctx, session.Record{Token: token, User: testUser()}))

		st, err := session.NewStore(ctx, p, session.WithClock(func() time.Time { return now }))
		require.NoError(t, err)
		assert.True(t, st.IsAuthenticated())
	})

	t.Run("discards an expired jwt", func(t *testing.T) {
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		token := signedToken(t, now.Add(-time.Minute))

		p := memory.NewPersistence()
		require.NoError(t, p.Save(ctx, session.Record{Token: token, User: testUser()}))

		st, err := session.NewStore(ctx, p, session.WithClock(func() time.Time { return now }))
		require.NoError(t, err)
		assert.False(t, st.IsAuthenticated())

		_, err = p.Load(ctx)
		require.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("discards a record without token", func(t *testing.T) {
		p := memory.NewPersistence()
		require.NoError(t, p.Save(ctx, session.Record{User: testUser()}))

		st, err := session.NewStore(ctx, p)
		require.NoError(t, err)
		assert.False(t, st.IsAuthenticated())
		assertConsistent(t, st)
	})

	t.Run("propagates load errors", func(t *testing.T) {
		_, err := session.NewStore(ctx, loadErrPersistence{err: errors.New("permission denied")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "permission denied")
	})

	t.Run("discards corrupt records", func(t *testing.T) {
		p := loadErrPersistence{err: session.ErrCorruptSession}
		st, err := session.NewStore(ctx, p)
		require.NoError(t, err)
		assert.False(t, st.IsAuthenticated())
	})
}

type loadErrPersistence struct {
	err error
}

func (l loadErrPersistence) Load(ctx context.Context) (*session.Record, error) { return nil, l.err }
func (l loadErrPersistence) Save(ctx context.Context, rec session.Record) error { return nil }
func (l loadErrPersistence) Clear(ctx context.Context) error                    { return nil }

func TestStore_LoginLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("login persists token and user", func(t *testing.T) {
		p := memory.NewPersistence()
		st, err := session.NewStore(ctx, p)
		require.NoError(t, err)

		require.NoError(t, st.Login(ctx, testUser(), "tok-1"))
		assert.True(t, st.IsAuthenticated())
		assert.Equal(t, "tok-1", st.BearerToken())
		assertConsistent(t, st)

		rec, err := p.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-1", rec.Token)
		assert.Equal(t, testUser(), rec.User)
	})

	t.Run("register has the same effect as login", func(t *testing.T) {
		p := memory.NewPersistence()
		st, err := session.NewStore(ctx, p)
		require.NoError(t, err)

		require.NoError(t, st.Register(ctx, testUser(), "tok-2"))
		assert.True(t, st.IsAuthenticated())

		rec, err := p.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-2", rec.Token)
	})

	t.Run("logout clears memory and persistence", func(t *testing.T) {
		p := memory.NewPersistence()
		st, err := session.NewStore(ctx, p)
		require.NoError(t, err)

		require.NoError(t, st.Login(ctx, testUser(), "tok-1"))
		require.NoError(t, st.Logout(ctx))

		cur := st.Current()
		assert.Empty(t, cur.Token)
		assert.Nil(t, cur.User)
		assert.False(t, st.IsAuthenticated())

		_, err = p.Load(ctx)
		require.ErrorIs(t, err, session.ErrSessionNotFound)

		restored, err := session.NewStore(ctx, p)
		require.NoError(t, err)
		assert.False(t, restored.IsAuthenticated())
	})

	t.Run("logout when anonymous is harmless", func(t *testing.T) {
		st, err := session.NewStore(ctx, memory.NewPersistence())
		require.NoError(t, err)
		require.NoError(t, st.Logout(ctx))
		assertConsistent(t, st)
	})

	t.Run("empty token is rejected", func(t *testing.T) {
		st, err := session.NewStore(ctx, memory.NewPersistence())
		require.NoError(t, err)

		err = st.Login(ctx, testUser(), "")
		require.ErrorIs(t, err, session.ErrEmptyToken)
		assert.False(t, st.IsAuthenticated())
	})

	t.Run("failed save leaves state unchanged", func(t *testing.T) {
		p := &failingPersistence{Persistence: memory.NewPersistence()}
		st, err := session.NewStore(ctx, p)
		require.NoError(t, err)
		require.NoError(t, st.Login(ctx, testUser(), "tok-1"))

		p.saveErr = errors.New("disk full")
		other := testUser()
		other.Email = "other@example.com"
		err = st.Login(ctx, other, "tok-2")
		require.Error(t, err)

		cur := st.Current()
		assert.Equal(t, "tok-1", cur.Token)
		assert.Equal(t, "ayesha@example.com", cur.User.Email)
	})

	t.Run("failed clear still logs out", func(t *testing.T) {
		p := &failingPersistence{Persistence: memory.NewPersistence()}
		st, err := session.NewStore(ctx, p)
		require.NoError(t, err)
		require.NoError(t, st.Login(ctx, testUser(), "tok-1"))

		p.clearErr = errors.New("read-only filesystem")
		err = st.Logout(ctx)
		require.Error(t, err)
		assert.False(t, st.IsAuthenticated())
		assertConsistent(t, st)
	})

	t.Run("invariant holds across a sequence of actions", func(t *testing.T) {
		st, err := session.NewStore(ctx, memory.NewPersistence())
		require.NoError(t, err)

		steps := []func() error{
			func() error { return st.Login(ctx, testUser(), "a") },
			func() error { return st.Logout(ctx) },
			func() error { return st.Register(ctx, testUser(), "b") },
			func() error { return st.Login(ctx, testUser(), "c") },
			func() error { return st.Logout(ctx) },
			func() error { return st.Logout(ctx) },
			func() error { return st.Register(ctx, testUser(), "d") },
		}
		for _, step := range steps {
			require.NoError(t, step())
			assertConsistent(t, st)
		}
		assert.Equal(t, "d", st.BearerToken())
	})

	t.Run("current returns a copy", func(t *testing.T) {
		st, err := session.NewStore(ctx, memory.NewPersistence())
		require.NoError(t, err)
		require.NoError(t, st.Login(ctx, testUser(), "tok"))

		cur := st.Current()
		cur.User.Name = "changed"
		cur.User.Achievements[0] = "changed"

		again := st.Current()
		assert.Equal(t, "Ayesha", again.User.Name)
		assert.Equal(t, []string{"First Step"}, again.User.Achievements)
	})
}

func TestStore_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("merges fields over the current user", func(t *testing.T) {
		st, err := session.NewStore(ctx, memory.NewPersistence())
		require.NoError(t, err)

		user := session.User{ID: "u-1", Name: "a", SustainabilityScore: 2}
		require.NoError(t, st.Login(ctx, user, "tok"))

		score := 3.0
		joined := 4
		merged, err := st.UpdateProfile(ctx, session.ProfileUpdate{
			SustainabilityScore: &score,
			JoinedChallenges:    &joined,
		})
		require.NoError(t, err)

		want := session.User{ID: "u-1", Name: "a", SustainabilityScore: 3, JoinedChallenges: 4}
		assert.Equal(t, want, merged)
		assert.Equal(t, want, *st.Current().User)
		assert.Equal(t, "tok", st.BearerToken())
	})

	t.Run("last write wins per field", func(t *testing.T) {
		st, err := session.NewStore(ctx, memory.NewPersistence())
		require.NoError(t, err)
		require.NoError(t, st.Login(ctx, testUser(), "tok"))

		first, second := 1, 5
		_, err = st.UpdateProfile(ctx, session.ProfileUpdate{JoinedChallenges: &first})
		require.NoError(t, err)
		merged, err := st.UpdateProfile(ctx, session.ProfileUpdate{JoinedChallenges: &second})
		require.NoError(t, err)
		assert.Equal(t, 5, merged.JoinedChallenges)
		assert.Equal(t, "Ayesha", merged.Name)
	})

	t.Run("does not write persistence", func(t *testing.T) {
		p := memory.NewPersistence()
		st, err := session.NewStore(ctx, p)
		require.NoError(t, err)
		require.NoError(t, st.Login(ctx, testUser(), "tok"))

		footprint := 4.2
		_, err = st.UpdateProfile(ctx, session.ProfileUpdate{CarbonFootprint: &footprint})
		require.NoError(t, err)

		rec, err := p.Load(ctx)
		require.NoError(t, err)
		assert.Zero(t, rec.User.CarbonFootprint)
	})

	t.Run("fails when anonymous", func(t *testing.T) {
		st, err := session.NewStore(ctx, memory.NewPersistence())
		require.NoError(t, err)

		name := "x"
		_, err = st.UpdateProfile(ctx, session.ProfileUpdate{Name: &name})
		require.ErrorIs(t, err, session.ErrNotAuthenticated)
		assertConsistent(t, st)
	})
}

func TestStore_SaveProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("merged record survives a restart", func(t *testing.T) {
		p := memory.NewPersistence()
		st, err := session.NewStore(ctx, p)
		require.NoError(t, err)
		require.NoError(t, st.Login(ctx, testUser(), "tok"))

		name := "Ayesha K"
		score := 600.0
		merged, err := st.SaveProfile(ctx, session.ProfileUpdate{Name: &name, SustainabilityScore: &score})
		require.NoError(t, err)
		assert.Equal(t, "Ayesha K", merged.Name)

		restored, err := session.NewStore(ctx, p)
		require.NoError(t, err)
		cur := restored.Current()
		require.NotNil(t, cur.User)
		assert.Equal(t, "tok", cur.Token)
		assert.Equal(t, merged, *cur.User)
		assert.Equal(t, []string{"First Step"}, cur.User.Achievements)
	})

	t.Run("failed write leaves state unchanged", func(t *testing.T) {
		p := &failingPersistence{Persistence: memory.NewPersistence()}
		st, err := session.NewStore(ctx, p)
		require.NoError(t, err)
		require.NoError(t, st.Login(ctx, testUser(), "tok"))

		p.saveErr = errors.New("disk full")
		name := "Other"
		_, err = st.SaveProfile(ctx, session.ProfileUpdate{Name: &name})
		require.Error(t, err)

		assert.Equal(t, "Ayesha", st.Current().User.Name)
		rec, err := p.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Ayesha", rec.User.Name)
		assertConsistent(t, st)
	})

	t.Run("fails when anonymous", func(t *testing.T) {
		p := memory.NewPersistence()
		st, err := session.NewStore(ctx, p)
		require.NoError(t, err)

		name := "x"
		_, err = st.SaveProfile(ctx, session.ProfileUpdate{Name: &name})
		require.ErrorIs(t, err, session.ErrNotAuthenticated)

		_, err = p.Load(ctx)
		require.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}
