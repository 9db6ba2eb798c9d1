// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"ecommerce_backend/internal/feature/auth/domain/entity"
	"ecommerce_backend/internal/feature/auth/usecase"
)

// CachingUserRepository decorates a UserRepository with a Redis read-through cache
// for identity lookups, which the request guard performs on every authenticated call.
// Writes go to the inner repository first and then drop the cached entry.
type CachingUserRepository struct {
	inner     usecase.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.UserRepository = (*CachingUserRepository)(nil)

// identity はキャッシュに保存するユーザーの射影です。パスワードハッシュとリセットトークンは含めません。
type identity struct {
	ID        uint            `json:"id"`
	Email     *string         `json:"email,omitempty"`
	Provider  entity.Provider `json:"provider"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Avatar    *string         `json:"avatar,omitempty"`
	Role      entity.Role     `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func identityOf(u *entity.User) identity {
	return identity{
		ID:        u.ID,
		Email:     u.Email,
		Provider:  u.Provider,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (i identity) user() *entity.User {
	return &entity.User{
		ID:        i.ID,
		Email:     i.Email,
		Provider:  i.Provider,
		FirstName: i.FirstName,
		LastName:  i.LastName,
		Avatar:    i.Avatar,
		Role:      i.Role,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// NewCachingUserRepository decorates a UserRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "users".
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "users"
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FindIdentity returns the user without credentials or reset state, checking cache first
// then falling back to the database. The result must not be written back with Update.
func (c *CachingUserRepository) FindIdentity(ctx context.Context, id uint) (*entity.User, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		u, err := c.inner.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return identityOf(u).user(), nil
	}

	key := c.cacheKey(id)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out identity
		if err := json.Unmarshal(b, &out); err == nil {
			return out.user(), nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	u, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := identityOf(u)

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out.user(), nil
}

// FindByID returns the full record from the database. Password checks and
// read-modify-write updates need the credential fields the cache does not hold.
func (c *CachingUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	return c.inner.FindByID(ctx, id)
}

// Update writes through to the database and invalidates the cached user.
func (c *CachingUserRepository) Update(ctx context.Context, u *entity.User) error {
	if err := c.inner.Update(ctx, u); err != nil {
		return err
	}
	c.invalidate(ctx, u.ID)
	return nil
}

// Create writes to the database. A new id is never cached, so nothing is invalidated.
func (c *CachingUserRepository) Create(ctx context.Context, u *entity.User) error {
	return c.inner.Create(ctx, u)
}

func (c *CachingUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return c.inner.FindByEmail(ctx, email)
}

func (c *CachingUserRepository) FindByProviderID(ctx context.Context, provider entity.Provider, externalID string) (*entity.User, error) {
	return c.inner.FindByProviderID(ctx, provider, externalID)
}

func (c *CachingUserRepository) FindByResetToken(ctx context.Context, digest string, now time.Time) (*entity.User, error) {
	return c.inner.FindByResetToken(ctx, digest, now)
}

func (c *CachingUserRepository) List(ctx context.Context, offset, limit int) ([]entity.User, error) {
	return c.inner.List(ctx, offset, limit)
}

// invalidate drops the cached user. Failures are ignored; the entry expires with its TTL.
func (c *CachingUserRepository) invalidate(ctx context.Context, id uint) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.cacheKey(id)).Err()
}

// cacheKey generates the cache key for a user id.
func (c *CachingUserRepository) cacheKey(id uint) string {
	return fmt.Sprintf("%s:%s:%d", safe(c.namespace), "id", id)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
