// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "ecommerce_backend/internal/feature/auth/adapters"
	"ecommerce_backend/internal/feature/auth/usecase"
	"ecommerce_backend/internal/platform/session"
)

// NewStateStore creates the OAuth state store.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to the oauth_states table.
func NewStateStore(rdb *redis.Client, db *gorm.DB) usecase.StateStore {
	if rdb != nil {
		return session.NewStateRedis(rdb, "oauth_state")
	}
	return authadapters.NewOAuthStateGorm(db)
}
