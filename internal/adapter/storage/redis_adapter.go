package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/techmart/internal/core/domain"
	"github.com/rl1809/techmart/internal/port"
)

const (
	cartKey           = "techmart-cart"
	idempotencyKeyTTL = 24 * time.Hour
)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

// CartKey is the storage slot holding a session's serialized cart.
func CartKey(sessionID string) string {
	return cartKey + ":" + sessionID
}

func (r *RedisAdapter) LoadCart(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	raw, err := r.client.Get(ctx, CartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeCart(raw)
}

func (r *RedisAdapter) SaveCart(ctx context.Context, sessionID string, items []domain.CartItem) error {
	raw, err := encodeCart(items)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, CartKey(sessionID), raw, 0).Err()
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func encodeCart(items []domain.CartItem) ([]byte, error) {
	if items == nil {
		items = []domain.CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return raw, nil
}

// decodeCart reads the JSON array stored under the cart key. A literal null
// reads as an empty cart; anything else that is not an array is corrupt.
func decodeCart(raw []byte) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrCorruptCart, err)
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items, nil
}
