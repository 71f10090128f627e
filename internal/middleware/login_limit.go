package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"school_management/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Limiter decides whether one more hit for key is allowed
type Limiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}

// LoginRateLimit throttles requests per client IP. Limiter errors let the
// request through.
func LoginRateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		d, err := l.Allow(ctx, "login:"+c.ClientIP())
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("login rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			LoginAttemptsTotal.WithLabelValues("throttled").Inc()
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts, try again later"})
			return
		}
		c.Next()
	}
}
