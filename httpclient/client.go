// Package httpclient provides a resilient HTTP client for scraping
// legislation.gov.uk: persistent response caching, an adaptive rate
// limiter, a circuit breaker, and retry with exponential backoff,
// composed as a CallHandler middleware chain in the same idiom as the
// ai/model request-handling stack.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/i-dot-ai/lex/ai/model"
)

// ErrRateLimited is raised when the upstream server returns 429; it is
// retryable, unlike a generic request failure.
var ErrRateLimited = errors.New("httpclient: rate limited")

// Doer is the Request/Response shape the middleware chain operates over.
type Doer = model.CallHandler[*http.Request, *http.Response]

// Middleware wraps one stage of the resilience chain.
type Middleware = model.CallMiddleware[*http.Request, *http.Response]

// Config tunes the resilience stack; the zero value is usable (Client
// fills in the same defaults as the source's HttpClient constructor).
type Config struct {
	MaxRetries       int
	InitialDelay     time.Duration
	MaxDelay         time.Duration
	Timeout          time.Duration
	EnableCache      bool
	CacheDir         string
	CacheTTL         time.Duration
	FailureThreshold int
	RecoveryTimeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxRetries == 0 {
		c.MaxRetries = 30
	}
	if c.InitialDelay == 0 {
		c.InitialDelay = time.Second
	}
	if c.MaxDelay == 0 {
		c.MaxDelay = 600 * time.Second
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 8 * time.Hour
	}
	if c.FailureThreshold == 0 {
		c.FailureThreshold = 10
	}
	if c.RecoveryTimeout == 0 {
		c.RecoveryTimeout = 300 * time.Second
	}
	return c
}

// Client is a resilient HTTP client: GETs are cached to disk, every
// request passes through an adaptive rate limiter and circuit breaker,
// and transient failures are retried with exponential backoff.
type Client struct {
	cfg     Config
	cache   *DiskCache
	limiter *AdaptiveRateLimiter
	breaker *CircuitBreaker
	handler Doer
}

// New builds a Client. If cfg.EnableCache is true, cfg.CacheDir must be
// writable; a DiskCache is opened eagerly so a bad path fails fast.
func New(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	c := &Client{
		cfg:     cfg,
		limiter: NewAdaptiveRateLimiter(),
		breaker: NewCircuitBreaker(cfg.FailureThreshold, cfg.RecoveryTimeout),
	}

	if cfg.EnableCache {
		cache, err := NewDiskCache(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("httpclient: opening cache: %w", err)
		}
		c.cache = cache
	}

	transport := model.CallHandlerFunc[*http.Request, *http.Response](c.roundTrip)
	handler := Doer(transport)
	handler = retryMiddleware(cfg.MaxRetries, cfg.InitialDelay, cfg.MaxDelay)(handler)
	handler = circuitBreakerMiddleware(c.breaker)(handler)
	handler = rateLimitMiddleware(c.limiter)(handler)
	if c.cache != nil {
		handler = cacheMiddleware(c.cache)(handler)
	}
	c.handler = handler

	return c, nil
}

// roundTrip is the innermost handler: a single, uncached, unretried HTTP
// round trip, translating 429 into ErrRateLimited.
func (c *Client) roundTrip(ctx context.Context, req *http.Request) (*http.Response, error) {
	client := &http.Client{Timeout: c.cfg.Timeout}
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("httpclient: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		c.limiter.RecordRateLimit(retryAfter)
		resp.Body.Close()
		return nil, ErrRateLimited
	}
	if resp.StatusCode >= 500 {
		resp.Body.Close()
		return nil, fmt.Errorf("httpclient: server error %d for %s", resp.StatusCode, req.URL)
	}
	return resp, nil
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := time.ParseDuration(v + "s"); err == nil {
		return secs
	}
	return 0
}

// Do issues req through the full resilience chain.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.handler.Call(ctx, req)
}

// Get fetches url and returns its body, satisfying pdffallback.Fetcher.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// ClearCache drops every cached entry (mirrors clearing the cache on any
// mutating request, and is exposed for operator tooling).
func (c *Client) ClearCache() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Clear()
}

// CacheInfo reports cache statistics, or {"enabled": false} when caching
// is off.
func (c *Client) CacheInfo() map[string]any {
	if c.cache == nil {
		return map[string]any{"enabled": false}
	}
	return c.cache.Info()
}
