// Package session はOAuthログインの state をRedisに保存するストアを提供します。
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ecommerce_backend/internal/feature/auth/domain/entity"
	"ecommerce_backend/internal/feature/auth/usecase"
)

// StateRedis implements usecase.StateStore using Redis.
type StateRedis struct {
	client *redis.Client
	prefix string
}

var _ usecase.StateStore = (*StateRedis)(nil)

// NewStateRedis creates a new StateRedis instance.
func NewStateRedis(client *redis.Client, prefix string) *StateRedis {
	return &StateRedis{
		client: client,
		prefix: prefix,
	}
}

// stateKey returns the Redis key for a state value.
func (r *StateRedis) stateKey(value string) string {
	return fmt.Sprintf("%s:%s", r.prefix, value)
}

// Save stores the state with a TTL matching its expiry.
func (r *StateRedis) Save(ctx context.Context, state *entity.OAuthState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal oauth state: %w", err)
	}

	ttl := time.Until(state.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("oauth state already expired")
	}

	return r.client.Set(ctx, r.stateKey(state.Value), data, ttl).Err()
}

// Consume atomically reads and deletes the state (GETDEL).
func (r *StateRedis) Consume(ctx context.Context, value string) (*entity.OAuthState, error) {
	data, err := r.client.GetDel(ctx, r.stateKey(value)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrStateNotFound
		}
		return nil, err
	}

	var state entity.OAuthState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal oauth state: %w", err)
	}

	return &state, nil
}
