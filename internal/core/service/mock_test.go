package service

import (
	"context"
	"sync"

	"github.com/rl1809/techmart/internal/core/domain"
)

// Mock CacheRepository
type mockCacheRepo struct {
	carts          map[string][]domain.CartItem
	idempotencySet map[string]bool
	loadErr        error
	saves          int
	mu             sync.Mutex
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{
		carts:          make(map[string][]domain.CartItem),
		idempotencySet: make(map[string]bool),
	}
}

func (m *mockCacheRepo) LoadCart(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]domain.CartItem{}, m.carts[sessionID]...), nil
}

func (m *mockCacheRepo) SaveCart(ctx context.Context, sessionID string, items []domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.carts[sessionID] = append([]domain.CartItem{}, items...)
	m.saves++
	return nil
}

func (m *mockCacheRepo) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.idempotencySet[key] {
		return false, nil
	}
	m.idempotencySet[key] = true
	return true, nil
}

// Mock CatalogRepository
type mockCatalogRepo struct {
	products []domain.Product
}

func (m *mockCatalogRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return append([]domain.Product{}, m.products...), nil
}

func (m *mockCatalogRepo) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	for _, p := range m.products {
		if p.ID == productID {
			return &p, nil
		}
	}
	return nil, nil
}

type sentNotification struct {
	SessionID string
	Message   string
	Type      domain.NotificationType
}

// recordingNotifier keeps every notification in order.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (r *recordingNotifier) Notify(sessionID, message string, kind domain.NotificationType) domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentNotification{SessionID: sessionID, Message: message, Type: kind})
	return domain.Notification{Message: message, Type: kind}
}

func (r *recordingNotifier) last() (sentNotification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return sentNotification{}, false
	}
	return r.sent[len(r.sent)-1], true
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func testProducts() []domain.Product {
	return []domain.Product{
		domain.NewProductFromLabels("phone", "Phone X", "smartphones", "apple", "$999.00", "4.8 (2,345 reviews)"),
		domain.NewProductFromLabels("laptop", "Laptop Pro", "laptops", "dell", "$1,299.00", "4.5 (1,104 reviews)"),
		domain.NewProductFromLabels("buds", "Buds", "audio", "apple", "$249.00", "4.7 (5,210 reviews)"),
		domain.NewProductFromLabels("tab", "Tab", "tablets", "samsung", "$599.00", "4.2 (731 reviews)"),
	}
}
