package merchant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"merchant-kit/internal/model"
	"merchant-kit/internal/schema"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultLookupLimit = 10

// memoryMerchant implements Merchant over a raw in-memory catalogue,
// typically loaded through a Loader. Orders are fabricated with generated
// ids and not persisted anywhere; this adapter exists for demos and tests
// of the boundary layer.
type memoryMerchant struct {
	mu       sync.RWMutex
	products []map[string]any
	logger   zerolog.Logger
}

// NewMemoryMerchant creates a merchant adapter serving the given raw
// catalogue payloads.
func NewMemoryMerchant(products []map[string]any, logger zerolog.Logger) Merchant {
	return &memoryMerchant{
		products: products,
		logger:   logger.With().Str("merchant", "memory").Logger(),
	}
}

// LookupProducts filters the catalogue by the query. All reads of the raw
// payloads are tolerant: entries whose fields cannot be read simply fail
// the filter and are passed through or dropped on their own merits, since
// validation is the boundary layer's job.
func (m *memoryMerchant) LookupProducts(ctx context.Context, query ProductQuery) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultLookupLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]map[string]any, 0, limit)
	for _, p := range m.products {
		if !matchesQuery(p, query) {
			continue
		}
		results = append(results, p)
		if len(results) >= limit {
			break
		}
	}

	m.logger.Debug().
		Str("query", query.Query).
		Str("product_id", query.ProductID).
		Int("count", len(results)).
		Msg("catalogue lookup")

	return results, nil
}

// CreateOrder fabricates an order for the given lines, pricing each line
// from the catalogue (base price plus matching variation modifiers).
func (m *memoryMerchant) CreateOrder(ctx context.Context, items []model.OrderItemRequest, customerID string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	orderItems := make([]map[string]any, 0, len(items))
	total := 0.0

	for _, item := range items {
		product := m.findByID(item.ProductID)
		if product == nil {
			return nil, fmt.Errorf("product %s not in catalogue", item.ProductID)
		}

		price, _ := schema.AsFloat(product["base_price"])
		price += variationModifiers(product, item.Variations)

		line := map[string]any{
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
			"unit_price": price,
		}
		if len(item.Variations) > 0 {
			line["variations"] = selectedToRaw(item.Variations)
		}
		orderItems = append(orderItems, line)
		total += price * float64(item.Quantity)
	}

	orderID := uuid.NewString()
	m.logger.Info().
		Str("order_id", orderID).
		Str("customer_id", customerID).
		Int("item_count", len(orderItems)).
		Msg("order created")

	return map[string]any{
		"order_id":     orderID,
		"items":        orderItems,
		"total_amount": total,
		"status":       model.DefaultOrderStatus,
	}, nil
}

func (m *memoryMerchant) findByID(id string) map[string]any {
	for _, p := range m.products {
		if pid, ok := schema.AsString(p["id"]); ok && pid == id {
			return p
		}
	}
	return nil
}

func matchesQuery(p map[string]any, query ProductQuery) bool {
	id, _ := schema.AsString(p["id"])
	name, _ := schema.AsString(p["name"])
	desc, _ := schema.AsString(p["description"])

	if query.ProductID != "" && id != query.ProductID {
		return false
	}
	if query.NameContains != "" && !containsFold(name, query.NameContains) {
		return false
	}
	if query.DescContains != "" && !containsFold(desc, query.DescContains) {
		return false
	}
	if query.Query != "" && !containsFold(name, query.Query) && !containsFold(desc, query.Query) {
		return false
	}

	if query.PriceMin != nil || query.PriceMax != nil {
		price, ok := schema.AsFloat(p["base_price"])
		if !ok {
			return false
		}
		if query.PriceMin != nil && price < *query.PriceMin {
			return false
		}
		if query.PriceMax != nil && price > *query.PriceMax {
			return false
		}
	}

	return true
}

// variationModifiers sums the price modifiers of catalogue variations
// matching the selection by (type, name). Selections without a catalogue
// match contribute nothing.
func variationModifiers(product map[string]any, selected []model.SelectedVariation) float64 {
	raw, ok := schema.AsList(product["variations"])
	if !ok || len(selected) == 0 {
		return 0
	}

	sum := 0.0
	for _, sel := range selected {
		for _, rv := range raw {
			variation, ok := rv.(map[string]any)
			if !ok {
				continue
			}
			vtype, _ := schema.AsString(variation["type"])
			vname, _ := schema.AsString(variation["name"])
			if vtype == sel.Type && vname == sel.Name {
				if mod, ok := schema.AsFloat(variation["price_modifier"]); ok {
					sum += mod
				}
				break
			}
		}
	}
	return sum
}

func selectedToRaw(selected []model.SelectedVariation) []map[string]any {
	out := make([]map[string]any, len(selected))
	for i, sel := range selected {
		out[i] = map[string]any{"type": sel.Type, "name": sel.Name}
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
