package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/decisionloom/decisionloom/internal/api/response"
	"github.com/decisionloom/decisionloom/internal/domain"
	"github.com/decisionloom/decisionloom/internal/repository/redis"
)

// RateLimitMiddleware enforces per-bucket request budgets keyed by client IP
type RateLimitMiddleware struct {
	limiter *redis.RateLimiter
}

// NewRateLimitMiddleware creates rate limiting middleware
func NewRateLimitMiddleware(limiter *redis.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Limit returns middleware that counts each request against the bucket.
// The identifier is the client IP resolved by chi's RealIP middleware.
// Limiter failures fail open so a Redis outage never blocks traffic.
func (m *RateLimitMiddleware) Limit(bucket redis.Bucket) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result, err := m.limiter.Allow(r.Context(), bucket, r.RemoteAddr)
			if err != nil {
				log.Warn().Err(err).Str("bucket", string(bucket)).Msg("rate limit check failed")
				next.ServeHTTP(w, r)
				return
			}

			if !result.Allowed {
				response.Fail(w, http.StatusTooManyRequests, domain.CodeRateLimited,
					"Too many requests. Please try again later.", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
