package api

import (
	"time"

	"github.com/shelfmarkapp/shelfmark-server/internal/ratelimit"
)

// RateLimiter wraps KeyedRateLimiter for API use.
type RateLimiter = ratelimit.KeyedRateLimiter

// NewRateLimiter creates a new rate limiter.
// ratePerInterval: number of requests allowed per interval
// interval: time period for rate (e.g., time.Minute)
// burst: maximum burst size
func NewRateLimiter(ratePerInterval int, interval time.Duration, burst int) *RateLimiter {
	rps := float64(ratePerInterval) / interval.Seconds()
	return ratelimit.New(rps, burst)
}

// clientKey picks the rate-limit key from forwarding headers, falling back
// to a shared key for direct local traffic.
func clientKey(forwardedFor, realIP string) string {
	if forwardedFor != "" {
		// May contain multiple IPs, first is the client.
		for i := 0; i < len(forwardedFor); i++ {
			if forwardedFor[i] == ',' {
				return forwardedFor[:i]
			}
		}
		return forwardedFor
	}
	if realIP != "" {
		return realIP
	}
	return "local"
}
