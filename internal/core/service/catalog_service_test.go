package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rl1809/techmart/internal/core/domain"
)

func visibleIDs(cards []domain.ProductCard) []string {
	var ids []string
	for _, c := range cards {
		if c.Visible {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func TestFilter_AllCriteriaMustMatch(t *testing.T) {
	svc := NewCatalogService(&mockCatalogRepo{products: testProducts()})
	ctx := context.Background()
	ceiling := decimal.NewFromInt(1000)

	tests := []struct {
		name   string
		filter domain.ProductFilter
		want   []string
	}{
		{"no filters", domain.ProductFilter{}, []string{"phone", "laptop", "buds", "tab"}},
		{"categories", domain.ProductFilter{Categories: []string{"audio", "laptops"}}, []string{"laptop", "buds"}},
		{"brand", domain.ProductFilter{Brand: "apple"}, []string{"phone", "buds"}},
		{"price range", domain.ProductFilter{MinPrice: decimal.NewFromInt(500), MaxPrice: &ceiling}, []string{"phone", "tab"}},
		{"combined", domain.ProductFilter{Categories: []string{"smartphones", "audio"}, Brand: "apple", MaxPrice: &ceiling}, []string{"phone", "buds"}},
		{"nothing", domain.ProductFilter{Brand: "sony"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := svc.Filter(ctx, tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(cards) != 4 {
				t.Fatalf("every card is listed, got %d", len(cards))
			}
			got := visibleIDs(cards)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestSort(t *testing.T) {
	svc := NewCatalogService(&mockCatalogRepo{products: testProducts()})
	ctx := context.Background()

	cards, _ := svc.Browse(ctx, domain.ProductFilter{}, domain.SortPriceHigh)
	for i := 1; i < len(cards); i++ {
		if cards[i].Price.GreaterThan(cards[i-1].Price) {
			t.Fatalf("prices increase at %d: %s > %s", i, cards[i].Price, cards[i-1].Price)
		}
	}

	cards, _ = svc.Browse(ctx, domain.ProductFilter{}, domain.SortPriceLow)
	if cards[0].ID != "buds" || cards[3].ID != "laptop" {
		t.Errorf("unexpected ascending order: %v", cards)
	}

	cards, _ = svc.Browse(ctx, domain.ProductFilter{}, domain.SortRating)
	if cards[0].ID != "phone" || cards[3].ID != "tab" {
		t.Errorf("unexpected rating order: %v", cards)
	}

	cards, _ = svc.Browse(ctx, domain.ProductFilter{}, domain.ParseSortKey("bogus"))
	if cards[0].ID != "phone" || cards[1].ID != "laptop" {
		t.Errorf("default sort should keep catalog order")
	}
}

func TestSort_Stable(t *testing.T) {
	cards := []domain.ProductCard{
		{Product: domain.NewProductFromLabels("a", "A", "x", "y", "$10.00", "4.5")},
		{Product: domain.NewProductFromLabels("b", "B", "x", "y", "$10.00", "4.5")},
		{Product: domain.NewProductFromLabels("c", "C", "x", "y", "$5.00", "4.5")},
	}
	Sort(cards, domain.SortPriceHigh)
	if cards[0].ID != "a" || cards[1].ID != "b" {
		t.Errorf("equal prices should keep their order, got %s %s", cards[0].ID, cards[1].ID)
	}
}

func TestProduct_NotFound(t *testing.T) {
	svc := NewCatalogService(&mockCatalogRepo{products: testProducts()})

	if _, err := svc.Product(context.Background(), "missing"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}
