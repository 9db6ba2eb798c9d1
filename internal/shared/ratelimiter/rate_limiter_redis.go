package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter は複数インスタンスで共有されるレート制限です。
// redis_rate の GCRA スクリプトで判定と TTL 設定を1コマンドで行います。
type RedisRateLimiter struct {
	limiter *redis_rate.Limiter
	prefix  string
	limit   redis_rate.Limit
}

var _ Limiter = (*RedisRateLimiter)(nil)

// NewRedisRateLimiter creates a Redis-backed limiter allowing limit attempts per interval.
func NewRedisRateLimiter(client *redis.Client, prefix string, limit int, interval time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		limiter: redis_rate.NewLimiter(client),
		prefix:  prefix,
		limit:   redis_rate.Limit{Rate: limit, Burst: limit, Period: interval},
	}
}

// Allow counts one attempt for key. Redis errors are returned as-is; the caller decides whether to fail open.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) error {
	res, err := l.limiter.Allow(ctx, l.prefix+":"+key, l.limit)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	if res.Allowed == 0 {
		return ErrLimited
	}
	return nil
}
