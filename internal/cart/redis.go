package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/attire-shop/attire/internal/domain"
)

// storageKeyPrefix matches the fixed key the cart is stored under, scoped
// per session.
const storageKeyPrefix = "cart-items:"

// RedisRepository persists cart lines as a JSON array in Redis.
type RedisRepository struct {
	client *redis.Client
}

// Compile-time check that RedisRepository implements domain.CartRepository.
var _ domain.CartRepository = (*RedisRepository)(nil)

// NewRedisRepository creates a Redis-backed cart repository.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

// Load returns the stored lines for the session. An absent key or a value
// that fails to parse yields an empty cart with no error; corrupt data is
// discarded silently.
func (r *RedisRepository) Load(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	raw, err := r.client.Get(ctx, storageKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cart from redis: %w", err)
	}

	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, nil
	}
	return items, nil
}

// Save replaces the stored value with the full line list.
func (r *RedisRepository) Save(ctx context.Context, sessionID string, items []domain.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}

	if err := r.client.Set(ctx, storageKeyPrefix+sessionID, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write cart to redis: %w", err)
	}
	return nil
}

// Clear removes the stored value.
func (r *RedisRepository) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, storageKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete cart from redis: %w", err)
	}
	return nil
}
