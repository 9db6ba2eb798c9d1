package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "ecommerce_backend/internal/feature/auth/adapters"
	"ecommerce_backend/internal/platform/cache"
)

// NewUserRepository creates the credential store wrapped in the Redis identity cache.
// The result also serves as the request guard's IdentityLoader.
// With a nil rdb the cache passes every call through.
func NewUserRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *cache.CachingUserRepository {
	return cache.NewCachingUserRepository(rdb, ttl, authadapters.NewUserGorm(db), "users")
}
