package logger

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

var _ http.RoundTripper = (*Transport)(nil)

// Transport logs every API round trip: method, path, status and duration.
// Headers and bodies are never logged since they carry bearer tokens and
// passwords.
type Transport struct {
	logger zerolog.Logger
	next   http.RoundTripper
}

// NewTransport wraps next. A nil next uses http.DefaultTransport.
func NewTransport(logger zerolog.Logger, next http.RoundTripper) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Transport{logger: logger, next: next}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	started := time.Now()

	logger := t.logger.With().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("requestID", req.Header.Get("X-Request-ID")).
		Logger()

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		logger.Error().
			Err(err).
			Dur("duration", time.Since(started)).
			Msg("api call")

		return resp, err
	}

	event := logger.Debug()
	if resp.StatusCode >= http.StatusBadRequest {
		event = logger.Warn()
	}

	event.
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("api call")

	return resp, nil
}
