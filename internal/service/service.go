package service

import (
	"context"

	"merchant-kit/internal/merchant"
	"merchant-kit/internal/model"
)

// CommerceService is the boundary between merchant callbacks and the tool
// layer. Every payload a callback returns is validated before it is
// mapped into typed, agent-safe structures.
type CommerceService interface {
	// SearchProducts invokes the merchant's product lookup and validates
	// the result. A nil response (with nil error) means no products
	// matched; a *model.ValidationError means the merchant returned a
	// malformed payload. The two are never conflated.
	SearchProducts(ctx context.Context, query merchant.ProductQuery) (*model.ProductsResponse, error)

	// CalculateTotal prices the requested lines against the current
	// catalogue without creating anything. Fails with a PRODUCT_NOT_FOUND
	// domain error when a line references an unknown product.
	CalculateTotal(ctx context.Context, items []model.OrderItemRequest) (*model.TotalPreview, error)

	// CreateOrder validates the caller's raw order lines, hands them to
	// the merchant's order-creation callback, validates the returned
	// order, and maps it into a typed response.
	CreateOrder(ctx context.Context, items []map[string]any, customerID string) (*model.OrderResponse, error)
}

// CartService exposes the session-scoped cart operations to the tool
// layer, resolving unit prices through the commerce boundary when the
// caller does not supply one.
type CartService interface {
	// Add puts an item into the session's cart. When unitPrice is nil the
	// price is resolved via CalculateTotal; if resolution fails the item
	// is still added with a zero price.
	Add(ctx context.Context, sessionID, productID string, quantity int, variations []model.SelectedVariation, unitPrice *float64) (*model.CartSummary, error)

	// View returns the session's current cart summary.
	View(ctx context.Context, sessionID string) (*model.CartSummary, error)

	// Remove deletes matching items from the session's cart. Removing a
	// missing item is not an error.
	Remove(ctx context.Context, sessionID, productID string, variations []model.SelectedVariation) (*model.CartSummary, error)
}
