package client

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ecotrack/internal/logger"
	"github.com/wolfeidau/ecotrack/internal/session"
	"golang.org/x/oauth2"
)

var errNoToken = errors.New("no bearer token")

// tokenSource adapts a TokenProvider to oauth2. The token is read on every
// request so a login or logout in the same process takes effect at once.
type tokenSource struct {
	tokens TokenProvider
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	if ts.tokens == nil {
		return nil, errNoToken
	}
	token := ts.tokens.BearerToken()
	if token == "" {
		return nil, errNoToken
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

// newCache returns a disk cache rooted at dir, or an in-memory cache when
// dir is empty.
func newCache(dir string) httpcache.Cache {
	if dir == "" {
		return httpcache.NewMemoryCache()
	}
	return diskcache.New(dir)
}

// tokenCache keeps one response cache per bearer token so a response
// fetched for one account is never served to another. On disk each token
// gets its own directory named by the token fingerprint.
type tokenCache struct {
	dir    string
	tokens TokenProvider

	mu     sync.Mutex
	caches map[string]httpcache.Cache
}

var _ httpcache.Cache = (*tokenCache)(nil)

func newTokenCache(dir string, tokens TokenProvider) *tokenCache {
	return &tokenCache{
		dir:    dir,
		tokens: tokens,
		caches: make(map[string]httpcache.Cache),
	}
}

func (c *tokenCache) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.BearerToken()
}

func (c *tokenCache) partition(fingerprint string) string {
	if c.dir == "" {
		return ""
	}
	return filepath.Join(c.dir, fingerprint)
}

// current returns the cache for the token in use, or false when there is
// no token.
func (c *tokenCache) current() (httpcache.Cache, bool) {
	token := c.token()
	if token == "" {
		return nil, false
	}
	fingerprint := session.Fingerprint(token)

	c.mu.Lock()
	defer c.mu.Unlock()

	cache, ok := c.caches[fingerprint]
	if !ok {
		cache = newCache(c.partition(fingerprint))
		c.caches[fingerprint] = cache
	}
	return cache, true
}

func (c *tokenCache) Get(key string) ([]byte, bool) {
	cache, ok := c.current()
	if !ok {
		return nil, false
	}
	return cache.Get(key)
}

func (c *tokenCache) Set(key string, data []byte) {
	if cache, ok := c.current(); ok {
		cache.Set(key, data)
	}
}

func (c *tokenCache) Delete(key string) {
	if cache, ok := c.current(); ok {
		cache.Delete(key)
	}
}

// purge drops every response cached for the current token.
func (c *tokenCache) purge() error {
	token := c.token()
	if token == "" {
		return nil
	}
	fingerprint := session.Fingerprint(token)

	c.mu.Lock()
	delete(c.caches, fingerprint)
	c.mu.Unlock()

	if c.dir == "" {
		return nil
	}
	if err := os.RemoveAll(c.partition(fingerprint)); err != nil {
		return fmt.Errorf("failed to remove response cache: %w", err)
	}
	return nil
}

// newHTTPClients builds the transport stacks:
//
//	anon:   logging -> gzip -> network
//	authed: cache (per token) -> bearer -> logging -> gzip -> network
//
// Only GET responses the server marks cacheable are reused.
func newHTTPClients(cfg Config, cache *tokenCache) (anon, authed *http.Client) {
	base := logger.NewTransport(log.Logger, gzhttp.Transport(http.DefaultTransport))

	caching := httpcache.NewTransport(cache)
	caching.Transport = &oauth2.Transport{
		Source: tokenSource{tokens: cache.tokens},
		Base:   base,
	}

	anon = &http.Client{Timeout: cfg.Timeout, Transport: base}
	authed = &http.Client{Timeout: cfg.Timeout, Transport: caching}

	return anon, authed
}
