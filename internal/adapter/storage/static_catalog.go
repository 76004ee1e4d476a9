package storage

import (
	"context"

	"github.com/rl1809/techmart/internal/core/domain"
)

// StaticCatalog serves a fixed product listing for local development when no
// database is configured.
type StaticCatalog struct {
	products []domain.Product
}

func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{
		products: []domain.Product{
			domain.NewProductFromLabels("iphone-15-pro", "iPhone 15 Pro", "smartphones", "apple", "$999.00", "4.8 (2,345 reviews)"),
			domain.NewProductFromLabels("galaxy-s24", "Samsung Galaxy S24", "smartphones", "samsung", "$799.99", "4.6 (1,872 reviews)"),
			domain.NewProductFromLabels("macbook-pro-14", "MacBook Pro 14-inch", "laptops", "apple", "$1,999.00", "4.9 (987 reviews)"),
			domain.NewProductFromLabels("dell-xps-13", "Dell XPS 13", "laptops", "dell", "$1,299.00", "4.5 (1,104 reviews)"),
			domain.NewProductFromLabels("hp-spectre-x360", "HP Spectre x360", "laptops", "hp", "$1,149.99", "4.4 (642 reviews)"),
			domain.NewProductFromLabels("airpods-pro", "AirPods Pro", "audio", "apple", "$249.00", "4.7 (5,210 reviews)"),
			domain.NewProductFromLabels("sony-wh-1000xm5", "Sony WH-1000XM5", "audio", "sony", "$399.99", "4.8 (3,018 reviews)"),
			domain.NewProductFromLabels("ipad-air", "iPad Air", "tablets", "apple", "$599.00", "4.7 (1,456 reviews)"),
			domain.NewProductFromLabels("galaxy-tab-s9", "Samsung Galaxy Tab S9", "tablets", "samsung", "$799.00", "4.5 (731 reviews)"),
			domain.NewProductFromLabels("apple-watch-series-9", "Apple Watch Series 9", "wearables", "apple", "$399.00", "4.6 (2,087 reviews)"),
		},
	}
}

func (c *StaticCatalog) ListProducts(context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out, nil
}

func (c *StaticCatalog) GetProduct(_ context.Context, productID string) (*domain.Product, error) {
	for _, p := range c.products {
		if p.ID == productID {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}
