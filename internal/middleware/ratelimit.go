package middleware

import (
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mediscan/internal/ratelimit"
)

// RateLimit gates pipeline-invoking endpoints with the sliding-window
// limiter. Rejections answer 429 with a Retry-After header and a
// structured body carrying the wait time.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := clientIdentity(c)
		decision := limiter.Allow(clientID)

		if !decision.Allowed {
			log.Printf("middleware.RateLimit: rejected client %s (retry after %ds)", clientID, decision.RetryAfterSecs)
			c.Header("Retry-After", strconv.Itoa(decision.RetryAfterSecs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":                "RATE_LIMITED",
					"message":             "rate limit exceeded, please retry later",
					"retry_after_seconds": decision.RetryAfterSecs,
				},
			})
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Next()
	}
}

// clientIdentity derives the rate-limit key: the first hop of
// X-Forwarded-For when present, otherwise the connection peer address.
func clientIdentity(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}
