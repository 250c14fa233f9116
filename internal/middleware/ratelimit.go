// File: internal/middleware/ratelimit.go
package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/ratelimit"
)

// RateLimit guards an endpoint group with the per-IP window limiter.
func RateLimit(limiter *ratelimit.MemoryRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, info := limiter.Allow(ratelimit.GetClientIP(r))
			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(int(info.RetryAfter.Seconds())))
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "Too many requests. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
