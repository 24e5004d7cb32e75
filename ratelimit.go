package rest

import (
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures the RateLimit middleware.
type RateLimitConfig struct {
	Rate            float64                      // requests per second
	Burst           int                          // max burst
	KeyFunc         func(r *http.Request) string // default: request host
	CleanupInterval time.Duration                // how often to prune idle limiters (default: 1m)
	MaxIdle         time.Duration                // remove limiters idle longer than this (default: 5m)
}

// RateLimit returns middleware that throttles outbound requests per key.
// A request over the limit waits for a token; it fails only if its context
// ends first.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(r *http.Request) string {
			return r.URL.Host
		}
	}

	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	maxIdle := cfg.MaxIdle
	if maxIdle <= 0 {
		maxIdle = 5 * time.Minute
	}

	var (
		mu          sync.Mutex
		limiters    = make(map[string]*limiterEntry)
		lastCleanup time.Time
	)

	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			key := cfg.KeyFunc(r)

			mu.Lock()
			now := time.Now()

			// Lazy cleanup of expired limiters.
			if now.Sub(lastCleanup) >= cleanupInterval {
				for k, e := range limiters {
					if now.Sub(e.lastSeen) > maxIdle {
						delete(limiters, k)
					}
				}
				lastCleanup = now
			}

			entry, ok := limiters[key]
			if !ok {
				entry = &limiterEntry{
					limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
				}
				limiters[key] = entry
			}
			entry.lastSeen = now
			mu.Unlock()

			if err := entry.limiter.Wait(r.Context()); err != nil {
				return nil, errors.Wrapf(err, "rest: rate limit %s", key)
			}
			return next.RoundTrip(r)
		})
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}
