package model

import "time"

// CartItem is one line in a session's cart. Identity within a cart is
// (ProductID, variation set); two additions with an equivalent variation
// set merge by summing quantity. UnitPrice and Amount are set only once
// a price has been resolved.
type CartItem struct {
	ProductID  string              `json:"product_id"`
	Quantity   int                 `json:"quantity"`
	Variations []SelectedVariation `json:"variations"`
	UnitPrice  *float64            `json:"unit_price,omitempty"`
	Amount     *float64            `json:"amount,omitempty"`
}

// CartSummary is the derived, always-fresh view of a cart. Subtotal sums
// only items with a resolved amount; the shipping fee is recomputed from
// current contents on every call and TotalAmount = Subtotal + ShippingFee.
type CartSummary struct {
	SessionID   string     `json:"session_id"`
	Items       []CartItem `json:"items"`
	ItemCount   int        `json:"item_count"`
	Subtotal    float64    `json:"subtotal"`
	ShippingFee float64    `json:"shipping_fee"`
	TotalAmount float64    `json:"total_amount"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
