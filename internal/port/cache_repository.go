package port

import (
	"context"
	"errors"

	"github.com/rl1809/techmart/internal/core/domain"
)

// ErrCorruptCart is returned when the stored cart value cannot be decoded.
var ErrCorruptCart = errors.New("corrupt cart data")

type CacheRepository interface {
	// LoadCart returns the persisted cart of a session, empty when nothing was stored
	LoadCart(ctx context.Context, sessionID string) ([]domain.CartItem, error)

	// SaveCart replaces the persisted cart of a session with the full list
	SaveCart(ctx context.Context, sessionID string, items []domain.CartItem) error

	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)
}
