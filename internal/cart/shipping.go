package cart

import "merchant-kit/internal/model"

// FeeCalculator computes a shipping fee from the current cart contents.
// The store clamps the result to >= 0, so a policy may return a negative
// value without producing a negative fee.
type FeeCalculator func(subtotal float64, itemCount int, items []model.CartItem) float64

// Default shipping brackets.
const (
	freeShippingThreshold = 50.0
	baseShippingFee       = 5.0
	perItemShippingFee    = 0.5
)

// DefaultShipping is the bracket-based default policy: free shipping once
// the subtotal reaches 50.0, otherwise a 5.0 base fee plus 0.5 per item
// beyond the first.
func DefaultShipping(subtotal float64, itemCount int, _ []model.CartItem) float64 {
	if subtotal >= freeShippingThreshold {
		return 0.0
	}

	additional := 0.0
	if itemCount > 1 {
		additional = float64(itemCount-1) * perItemShippingFee
	}
	return baseShippingFee + additional
}
