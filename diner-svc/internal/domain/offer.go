package domain

import (
	"math"
	"time"
)

const (
	DiscountPercentage = "percentage"
	DiscountFlat       = "flat"
)

type Offer struct {
	ID             string     `json:"id"`
	Code           string     `json:"code"`
	Title          string     `json:"title,omitempty"`
	Description    string     `json:"description"`
	DiscountType   string     `json:"discountType"`
	DiscountValue  float64    `json:"discountValue"`
	MinOrderAmount float64    `json:"minOrderAmount,omitempty"`
	MaxDiscount    float64    `json:"maxDiscount,omitempty"`
	ValidUntil     *time.Time `json:"validUntil,omitempty"`
}

// Discount returns the amount taken off subtotal. It never exceeds the subtotal.
func (o Offer) Discount(subtotal float64) float64 {
	if subtotal <= 0 || subtotal < o.MinOrderAmount {
		return 0
	}

	var discount float64
	switch o.DiscountType {
	case DiscountPercentage:
		discount = subtotal * o.DiscountValue / 100
	case DiscountFlat:
		discount = o.DiscountValue
	default:
		return 0
	}

	if o.MaxDiscount > 0 {
		discount = math.Min(discount, o.MaxDiscount)
	}
	discount = math.Min(discount, subtotal)
	return math.Round(discount*100) / 100
}

func (o Offer) Expired(now time.Time) bool {
	return o.ValidUntil != nil && now.After(*o.ValidUntil)
}
