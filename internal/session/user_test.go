package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_UnmarshalJSON(t *testing.T) {
	t.Run("id field", func(t *testing.T) {
		var u User
		require.NoError(t, json.Unmarshal([]byte(`{"id":"abc","name":"Sam","sustainabilityScore":40}`), &u))
		assert.Equal(t, "abc", u.ID)
		assert.Equal(t, "Sam", u.Name)
		assert.Equal(t, 40.0, u.SustainabilityScore)
	})

	t.Run("legacy _id field", func(t *testing.T) {
		var u User
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"65f0c1","email":"sam@example.com"}`), &u))
		assert.Equal(t, "65f0c1", u.ID)
		assert.Equal(t, "sam@example.com", u.Email)
	})

	t.Run("id wins over _id", func(t *testing.T) {
		var u User
		require.NoError(t, json.Unmarshal([]byte(`{"id":"new","_id":"old"}`), &u))
		assert.Equal(t, "new", u.ID)
	})

	t.Run("round trips through marshal", func(t *testing.T) {
		in := User{ID: "x", Name: "Sam", Achievements: []string{"Recycler"}}
		data, err := json.Marshal(in)
		require.NoError(t, err)

		var out User
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, in, out)
	})
}

func TestUser_Merge(t *testing.T) {
	base := User{ID: "u", Name: "a", SustainabilityScore: 2, Achievements: []string{"one"}}

	t.Run("empty update is identity", func(t *testing.T) {
		assert.True(t, ProfileUpdate{}.IsEmpty())
		assert.Equal(t, base, base.Merge(ProfileUpdate{}))
	})

	t.Run("replaces only set fields", func(t *testing.T) {
		score := 3.0
		joined := 4
		got := base.Merge(ProfileUpdate{SustainabilityScore: &score, JoinedChallenges: &joined})
		assert.Equal(t, User{ID: "u", Name: "a", SustainabilityScore: 3, JoinedChallenges: 4, Achievements: []string{"one"}}, got)
	})

	t.Run("does not alias the original", func(t *testing.T) {
		achievements := []string{"two"}
		got := base.Merge(ProfileUpdate{Achievements: &achievements})
		achievements[0] = "changed"
		got.Name = "changed"

		assert.Equal(t, []string{"two"}, got.Achievements)
		assert.Equal(t, "a", base.Name)
		assert.Equal(t, []string{"one"}, base.Achievements)
	})

	t.Run("decoded update drops unknown fields", func(t *testing.T) {
		var update ProfileUpdate
		require.NoError(t, json.Unmarshal([]byte(`{"completedChallenges":3,"isAdmin":true,"sustainabilityScore":150}`), &update))

		got := base.Merge(update)
		assert.Equal(t, 3, got.CompletedChallenges)
		assert.Equal(t, 150.0, got.SustainabilityScore)
		assert.Equal(t, "a", got.Name)
	})
}

func TestTokenHelpers(t *testing.T) {
	t.Run("fingerprint is stable and hides the token", func(t *testing.T) {
		fp := Fingerprint("secret-token")
		assert.NotEmpty(t, fp)
		assert.Equal(t, fp, Fingerprint("secret-token"))
		assert.NotEqual(t, fp, Fingerprint("other-token"))
		assert.NotContains(t, fp, "secret")
		assert.Empty(t, Fingerprint(""))
	})

	t.Run("opaque token has no expiry", func(t *testing.T) {
		_, ok := TokenExpiry("not-a-jwt")
		assert.False(t, ok)
		assert.False(t, tokenExpired("not-a-jwt", time.Now()))
	})

	t.Run("jwt expiry is read without verification", func(t *testing.T) {
		exp := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		}).SignedString([]byte("unknown-to-client"))
		require.NoError(t, err)

		got, ok := TokenExpiry(token)
		require.True(t, ok)
		assert.True(t, exp.Equal(got))
		assert.False(t, tokenExpired(token, exp.Add(-time.Second)))
		assert.True(t, tokenExpired(token, exp))
	})

	t.Run("jwt without exp never expires", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u"}).SignedString([]byte("k"))
		require.NoError(t, err)
		_, ok := TokenExpiry(token)
		assert.False(t, ok)
	})
}
