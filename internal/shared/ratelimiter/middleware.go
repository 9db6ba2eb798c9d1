package ratelimiter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware limits requests per client IP and route.
// Limiter backend failures fail open so an unavailable Redis does not lock users out.
func Middleware(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.FullPath() + ":" + c.ClientIP()
		err := l.Allow(c.Request.Context(), key)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, ErrLimited):
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please try again later."})
		default:
			slog.Warn("rate limiter unavailable", "error", err, "remote_addr", c.ClientIP())
			c.Next()
		}
	}
}
