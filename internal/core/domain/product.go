package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

type SortKey string

const (
	SortDefault   SortKey = ""
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// ParseSortKey maps a sort control value to a key; anything unknown keeps catalog order.
func ParseSortKey(v string) SortKey {
	switch SortKey(strings.TrimSpace(v)) {
	case SortPriceLow:
		return SortPriceLow
	case SortPriceHigh:
		return SortPriceHigh
	case SortRating:
		return SortRating
	default:
		return SortDefault
	}
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Rating      decimal.Decimal `json:"rating"`
	PriceLabel  string          `json:"price_label"`
	RatingLabel string          `json:"rating_label"`
}

// ProductCard is a product as listed on the page, with its current visibility.
type ProductCard struct {
	Product
	Visible bool `json:"visible"`
}

var ratingPattern = regexp.MustCompile(`\d\.\d`)

// ParsePriceLabel reads a displayed price such as "$1,299.00".
func ParsePriceLabel(label string) (decimal.Decimal, bool) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(label))
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseRatingLabel extracts the first digit.digit value of a rating label such as "4.8 (2,345 reviews)".
func ParseRatingLabel(label string) (decimal.Decimal, bool) {
	m := ratingPattern.FindString(label)
	if m == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// NewProductFromLabels builds a product from its card markup; unparseable labels read as zero.
func NewProductFromLabels(id, name, category, brand, priceLabel, ratingLabel string) Product {
	price, _ := ParsePriceLabel(priceLabel)
	rating, _ := ParseRatingLabel(ratingLabel)
	return Product{
		ID:          id,
		Name:        name,
		Category:    category,
		Brand:       brand,
		Price:       price,
		Rating:      rating,
		PriceLabel:  priceLabel,
		RatingLabel: ratingLabel,
	}
}

type ProductFilter struct {
	Categories []string
	MinPrice   decimal.Decimal
	MaxPrice   *decimal.Decimal // nil is unbounded
	Brand      string
}

// Matches reports whether p satisfies every active filter.
func (f ProductFilter) Matches(p Product) bool {
	if len(f.Categories) > 0 {
		found := false
		for _, c := range f.Categories {
			if c == p.Category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if p.Price.LessThan(f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	return true
}
