// Package merchant defines the two callback contracts a merchant backend
// implements, plus reference adapters (Postgres-backed and catalogue-backed).
// Adapter results are raw payloads; nothing downstream trusts them until
// the schema layer has validated them.
package merchant

import (
	"context"

	"merchant-kit/internal/model"
)

// ProductQuery carries the optional filters of a product lookup.
type ProductQuery struct {
	// Query is a general search term matched against name and description.
	Query string

	// Limit caps the number of results. Non-positive means the adapter
	// default (10).
	Limit int

	// ProductID filters by exact product id.
	ProductID string

	// NameContains filters by name substring.
	NameContains string

	// PriceMin and PriceMax bound the base price when non-nil.
	PriceMin *float64
	PriceMax *float64

	// DescContains filters by description substring.
	DescContains string
}

// Merchant is the two-method capability a merchant backend provides.
// Both methods return raw, unvalidated payloads: product dicts from
// LookupProducts and an order dict from CreateOrder. The boundary layer
// depends only on this interface and validates everything it returns.
type Merchant interface {
	// LookupProducts searches the merchant's catalogue. It may return an
	// empty list; the result must not be assumed valid.
	LookupProducts(ctx context.Context, query ProductQuery) ([]map[string]any, error)

	// CreateOrder persists an order for the given validated lines and
	// returns the merchant's raw order payload. Failures are surfaced
	// unwrapped by the boundary as order-creation failures.
	CreateOrder(ctx context.Context, items []model.OrderItemRequest, customerID string) (map[string]any, error)
}
