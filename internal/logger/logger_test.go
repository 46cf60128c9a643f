package logger

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	var buf bytes.Buffer

	l := setup(&buf, false)
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())
	l.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), `"message":"shown"`)

	buf.Reset()
	dev := setup(&buf, true)
	assert.Equal(t, zerolog.DebugLevel, dev.GetLevel())
	dev.Debug().Msg("debugging")
	assert.Contains(t, buf.String(), "debugging")
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestTransport(t *testing.T) {
	t.Run("logs status without headers", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		var buf bytes.Buffer
		tr := NewTransport(zerolog.New(&buf), nil)

		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/posts", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer super-secret")
		req.Header.Set("X-Request-ID", "req-1")

		resp, err := tr.RoundTrip(req)
		require.NoError(t, err)
		resp.Body.Close()

		out := buf.String()
		assert.Contains(t, out, `"status":401`)
		assert.Contains(t, out, `"path":"/api/posts"`)
		assert.Contains(t, out, `"requestID":"req-1"`)
		assert.Contains(t, out, `"level":"warn"`)
		assert.NotContains(t, out, "super-secret")
	})

	t.Run("logs transport errors", func(t *testing.T) {
		var buf bytes.Buffer
		tr := NewTransport(zerolog.New(&buf), roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}))

		req, err := http.NewRequest(http.MethodPost, "http://localhost/api/auth/login", strings.NewReader("{}"))
		require.NoError(t, err)

		_, err = tr.RoundTrip(req)
		require.Error(t, err)
		assert.Contains(t, buf.String(), "connection refused")
		assert.Contains(t, buf.String(), `"level":"error"`)
	})
}
