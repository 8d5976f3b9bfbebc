package model

// OrderItem is a line item of a created order.
type OrderItem struct {
	ProductID  string              `json:"product_id"`
	Quantity   int                 `json:"quantity"`
	UnitPrice  float64             `json:"unit_price"`
	Variations []SelectedVariation `json:"variations,omitempty"`
}

// OrderItemRequest is a caller-supplied order line, validated before it
// is handed to merchant code.
type OrderItemRequest struct {
	ProductID  string              `json:"product_id"`
	Quantity   int                 `json:"quantity"`
	Variations []SelectedVariation `json:"variations,omitempty"`
}

// OrderResponse is the serialised result of order creation.
// Field names are part of the tool-layer contract.
type OrderResponse struct {
	Success     bool        `json:"success"`
	OrderID     string      `json:"order_id"`
	Items       []OrderItem `json:"items"`
	CustomerID  string      `json:"customer_id"`
	TotalAmount float64     `json:"total_amount"`
	Status      string      `json:"status"`
	Error       string      `json:"error"`
}

// PricedItem is one line of a price preview with its resolved unit price.
type PricedItem struct {
	ProductID   string              `json:"product_id"`
	ProductName string              `json:"product_name"`
	Quantity    int                 `json:"quantity"`
	UnitPrice   float64             `json:"unit_price"`
	Variations  []SelectedVariation `json:"variations,omitempty"`
}

// TotalPreview is the result of a price preview. It reflects no state
// change; previewing never touches cart or order state.
type TotalPreview struct {
	Items       []PricedItem `json:"items"`
	TotalAmount float64      `json:"total_amount"`
}

// Defaults applied when the merchant or caller omits optional order fields.
const (
	DefaultCustomerID  = "GUEST"
	DefaultOrderStatus = "CREATED"
)
