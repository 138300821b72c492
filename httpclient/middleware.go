package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/i-dot-ai/lex/ai/model"
)

// cacheMiddleware serves GET requests from disk when a fresh entry
// exists, and stores successful GET responses after a miss — only GET is
// cached, matching the source's "only cache GET requests" rule.
func cacheMiddleware(cache *DiskCache) Middleware {
	return func(next Doer) Doer {
		return model.CallHandlerFunc[*http.Request, *http.Response](func(ctx context.Context, req *http.Request) (*http.Response, error) {
			if req.Method != http.MethodGet {
				_ = cache.Clear()
				return next.Call(ctx, req)
			}

			if resp, ok := cache.Get(req); ok {
				return resp, nil
			}

			resp, err := next.Call(ctx, req)
			if err != nil {
				return nil, err
			}

			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				return nil, readErr
			}
			_ = cache.Set(req, resp, body)
			resp.Body = io.NopCloser(bytes.NewReader(body))
			return resp, nil
		})
	}
}

// rateLimitMiddleware sleeps for the limiter's current adaptive delay
// before every request, and records the outcome afterward.
func rateLimitMiddleware(limiter *AdaptiveRateLimiter) Middleware {
	return func(next Doer) Doer {
		return model.CallHandlerFunc[*http.Request, *http.Response](func(ctx context.Context, req *http.Request) (*http.Response, error) {
			if delay := limiter.GetCurrentDelay(); delay > 0 {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}

			resp, err := next.Call(ctx, req)
			if errors.Is(err, ErrRateLimited) {
				return nil, err
			}
			if err != nil {
				return nil, err
			}
			limiter.RecordSuccess()
			return resp, nil
		})
	}
}

// circuitBreakerMiddleware fails fast with ErrCircuitOpen while the
// breaker is open, and trips/resets it based on call outcomes.
func circuitBreakerMiddleware(breaker *CircuitBreaker) Middleware {
	return func(next Doer) Doer {
		return model.CallHandlerFunc[*http.Request, *http.Response](func(ctx context.Context, req *http.Request) (*http.Response, error) {
			if !breaker.Allow() {
				return nil, ErrCircuitOpen
			}

			resp, err := next.Call(ctx, req)
			if err != nil {
				breaker.RecordFailure()
				return nil, err
			}
			breaker.RecordSuccess()
			return resp, nil
		})
	}
}

// retryMiddleware retries on ErrRateLimited or transport errors with
// exponential backoff and jitter, capped at maxAttempts, mirroring the
// source's tenacity-based `wait_exponential`/`stop_after_attempt` policy.
// It does not retry ErrCircuitOpen, since the breaker itself defines when
// retrying becomes safe again.
func retryMiddleware(maxAttempts int, initialDelay, maxDelay time.Duration) Middleware {
	return func(next Doer) Doer {
		return model.CallHandlerFunc[*http.Request, *http.Response](func(ctx context.Context, req *http.Request) (*http.Response, error) {
			var lastErr error
			for attempt := 0; attempt < maxAttempts; attempt++ {
				resp, err := next.Call(ctx, req)
				if err == nil {
					return resp, nil
				}
				if errors.Is(err, ErrCircuitOpen) {
					return nil, err
				}
				lastErr = err

				delay := backoffDelay(attempt, initialDelay, maxDelay)
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			return nil, lastErr
		})
	}
}

func backoffDelay(attempt int, initial, max time.Duration) time.Duration {
	d := time.Duration(float64(initial) * math.Pow(2, float64(attempt)))
	if d > max {
		d = max
	}
	jitter := time.Duration(rand.Int63n(int64(d)/4 + 1))
	return d + jitter
}
