package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"ecommerce_backend/internal/shared/ratelimiter"
)

// NewLimiter creates the login/forgot rate limiter, shared across instances when Redis is available.
func NewLimiter(rdb *redis.Client, limit int, window time.Duration) ratelimiter.Limiter {
	if rdb != nil {
		return ratelimiter.NewRedisRateLimiter(rdb, "ratelimit", limit, window)
	}
	return ratelimiter.NewRateLimiter(limit, window)
}
