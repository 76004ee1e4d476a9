package domain

import "github.com/shopspring/decimal"

type PromoType string

const (
	PromoPercentage PromoType = "percentage"
	PromoFixed      PromoType = "fixed"
)

type PromoCode struct {
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
	Type     PromoType       `json:"type"`
}
