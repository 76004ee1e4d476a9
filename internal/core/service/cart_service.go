package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/rl1809/techmart/internal/core/domain"
	"github.com/rl1809/techmart/internal/port"
)

// CartService owns the line items of every session cart. Each mutation is a
// load-modify-save of the full list, serialized per session.
type CartService struct {
	cache    port.CacheRepository
	notifier Notifier
	logger   *zap.Logger

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

// sessionLock is dropped from the map once the last holder or waiter releases it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewCartService(cache port.CacheRepository, notifier Notifier, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		cache:    cache,
		notifier: notifier,
		logger:   logger,
		locks:    make(map[string]*sessionLock),
	}
}

func (s *CartService) lock(sessionID string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.locksMu.Unlock()
	}
}

func (s *CartService) load(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	items, err := s.cache.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return items, nil
}

func (s *CartService) save(ctx context.Context, sessionID string, items []domain.CartItem) error {
	if err := s.cache.SaveCart(ctx, sessionID, items); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// AddToCart merges the item into the cart by id and returns the new item count.
// Merging does not cap the quantity.
func (s *CartService) AddToCart(ctx context.Context, sessionID string, item domain.CartItem) (int, error) {
	if strings.TrimSpace(item.ID) == "" || item.Price.IsNegative() {
		return 0, ErrInvalidItem
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if item.Quantity < 0 {
		return 0, ErrInvalidQuantity
	}

	unlock := s.lock(sessionID)
	items, err := s.load(ctx, sessionID)
	if err != nil {
		unlock()
		return 0, err
	}

	merged := false
	for i := range items {
		if items[i].ID == item.ID {
			items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
	}

	if err := s.save(ctx, sessionID, items); err != nil {
		unlock()
		return 0, err
	}
	unlock()

	s.notifier.Notify(sessionID, fmt.Sprintf("%s added to cart!", item.Name), domain.NotificationSuccess)
	return domain.Summarize(items).ItemCount, nil
}

// RemoveFromCart drops every entry with the id and returns the new item count.
func (s *CartService) RemoveFromCart(ctx context.Context, sessionID, itemID string) (int, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	items, err := s.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	kept := items[:0]
	for _, item := range items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}

	if err := s.save(ctx, sessionID, kept); err != nil {
		return 0, err
	}
	return domain.Summarize(kept).ItemCount, nil
}

// UpdateCartItem applies a quantity typed into the cart row. Free text is read
// like an integer prefix and is not clamped; an unknown id changes nothing.
func (s *CartService) UpdateCartItem(ctx context.Context, sessionID, itemID, rawQuantity string) (domain.CartSummary, error) {
	quantity, err := parseQuantity(rawQuantity)
	if err != nil {
		return domain.CartSummary{}, err
	}
	return s.setQuantity(ctx, sessionID, itemID, func(int) int { return quantity })
}

// StepQuantity is the increment/decrement control: the result stays within 1..10.
func (s *CartService) StepQuantity(ctx context.Context, sessionID, itemID string, delta int) (domain.CartSummary, error) {
	return s.setQuantity(ctx, sessionID, itemID, func(current int) int {
		return domain.ClampQuantity(current + delta)
	})
}

func (s *CartService) setQuantity(ctx context.Context, sessionID, itemID string, next func(int) int) (domain.CartSummary, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	items, err := s.load(ctx, sessionID)
	if err != nil {
		return domain.CartSummary{}, err
	}

	for i := range items {
		if items[i].ID != itemID {
			continue
		}
		items[i].Quantity = next(items[i].Quantity)
		if err := s.save(ctx, sessionID, items); err != nil {
			return domain.CartSummary{}, err
		}
		break
	}
	return domain.Summarize(items), nil
}

func (s *CartService) Cart(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	return s.load(ctx, sessionID)
}

func (s *CartService) CartCount(ctx context.Context, sessionID string) (int, error) {
	items, err := s.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return domain.Summarize(items).ItemCount, nil
}

func (s *CartService) CartSummary(ctx context.Context, sessionID string) (domain.CartSummary, error) {
	items, err := s.load(ctx, sessionID)
	if err != nil {
		return domain.CartSummary{}, err
	}
	return domain.Summarize(items), nil
}

func parseQuantity(raw string) (int, error) {
	v := strings.TrimSpace(raw)
	end := 0
	if end < len(v) && (v[end] == '-' || v[end] == '+') {
		end++
	}
	digits := end
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, raw)
	}
	q, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, raw)
	}
	return q, nil
}
