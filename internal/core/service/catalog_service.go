package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rl1809/techmart/internal/core/domain"
	"github.com/rl1809/techmart/internal/port"
)

type CatalogService struct {
	repo port.CatalogRepository
}

func NewCatalogService(repo port.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Filter lists every card in catalog order; a card is visible only when it matches all active filters.
func (s *CatalogService) Filter(ctx context.Context, filter domain.ProductFilter) ([]domain.ProductCard, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	cards := make([]domain.ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, domain.ProductCard{Product: p, Visible: filter.Matches(p)})
	}
	return cards, nil
}

// Sort reorders cards in place. The default key keeps the current order.
func Sort(cards []domain.ProductCard, key domain.SortKey) {
	switch key {
	case domain.SortPriceLow:
		sort.SliceStable(cards, func(i, j int) bool {
			return cards[i].Price.LessThan(cards[j].Price)
		})
	case domain.SortPriceHigh:
		sort.SliceStable(cards, func(i, j int) bool {
			return cards[i].Price.GreaterThan(cards[j].Price)
		})
	case domain.SortRating:
		sort.SliceStable(cards, func(i, j int) bool {
			return cards[i].Rating.GreaterThan(cards[j].Rating)
		})
	}
}

func (s *CatalogService) Browse(ctx context.Context, filter domain.ProductFilter, key domain.SortKey) ([]domain.ProductCard, error) {
	cards, err := s.Filter(ctx, filter)
	if err != nil {
		return nil, err
	}
	Sort(cards, key)
	return cards, nil
}

func (s *CatalogService) Product(ctx context.Context, productID string) (domain.Product, error) {
	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return domain.Product{}, ErrProductNotFound
	}
	return *p, nil
}
