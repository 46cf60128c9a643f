// Package client talks to the EcoTrack REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gregjones/httpcache"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ecotrack/internal/session"
	"github.com/wolfeidau/ecotrack/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/wolfeidau/ecotrack/internal/client"

	defaultErrorMessage = "Something went wrong"

	// maxErrorBody bounds how much of a failed response is read.
	maxErrorBody = 1 << 20
)

// APIError is a non-2xx response. Message is suitable for showing to the user.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// TokenProvider supplies the bearer token for authenticated calls.
type TokenProvider interface {
	BearerToken() string
}

// Config holds common client configuration
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheDir string
}

// DefaultConfig returns a default client configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:5000/api",
		Timeout: 30 * time.Second,
	}
}

// Client is the EcoTrack API client. Auth endpoints go out without a bearer
// token; everything else carries the token from the TokenProvider.
type Client struct {
	baseURL *url.URL
	anon    *http.Client
	authed  *http.Client
	cache   *tokenCache
	tracer  trace.Tracer
}

// New creates a client for the API rooted at cfg.BaseURL.
func New(cfg Config, tokens TokenProvider) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", cfg.BaseURL)
	}

	cache := newTokenCache(cfg.CacheDir, tokens)
	anon, authed := newHTTPClients(cfg, cache)

	return &Client{
		baseURL: base,
		anon:    anon,
		authed:  authed,
		cache:   cache,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// PurgeCache drops the responses cached for the current token. Call it
// before signing out.
func (c *Client) PurgeCache() error {
	return c.cache.purge()
}

// call describes a single API request.
type call struct {
	op          string // operation name used for spans and metrics
	method      string
	path        string
	query       url.Values
	body        any
	rawBody     io.Reader
	contentType string
	anon        bool
	fallback    string // error message when the response carries none
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, cl call, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, cl.op, trace.WithSpanKind(trace.SpanKindClient))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body := cl.rawBody
	contentType := cl.contentType
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", cl.op, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.endpoint(cl.path, cl.query), body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", cl.op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	hc := c.authed
	if cl.anon {
		hc = c.anon
	}

	started := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		recordRequest(ctx, cl.op, 0, false, time.Since(started))
		if errors.Is(err, errNoToken) {
			return session.ErrNotAuthenticated
		}
		return fmt.Errorf("%s request failed: %w", cl.op, err)
	}
	defer resp.Body.Close()

	cached := resp.Header.Get(httpcache.XFromCache) == "1"
	recordRequest(ctx, cl.op, resp.StatusCode, cached, time.Since(started))
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp, cl.fallback)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", cl.op, err)
	}

	// the cache only stores a response once its body has been read to EOF
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// decodeError extracts the "error" field from a failure response.
func decodeError(resp *http.Response, fallback string) error {
	if fallback == "" {
		fallback = defaultErrorMessage
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: fallback}

	var payload struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Debug().Int("status", resp.StatusCode).Msg("error response is not JSON")
		return apiErr
	}
	if payload.Error != "" {
		apiErr.Message = payload.Error
	}

	return apiErr
}

func recordRequest(ctx context.Context, op string, status int, cached bool, elapsed time.Duration) {
	m := telemetry.GetMetrics()
	attrs := metric.WithAttributes(
		attribute.String("operation", op),
		attribute.Int("status", status),
	)

	m.APIRequestsTotal.Add(ctx, 1, attrs)
	m.APIRequestDuration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
	if status < 200 || status >= 300 {
		m.APIRequestErrorsTotal.Add(ctx, 1, attrs)
	}
	if cached {
		m.APICacheHitsTotal.Add(ctx, 1, attrs)
	}
}
