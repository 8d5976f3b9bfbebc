package service

import (
	"context"
	"fmt"

	"merchant-kit/internal/merchant"
	"merchant-kit/internal/model"
	"merchant-kit/internal/schema"

	"github.com/rs/zerolog"
)

// commerceService implements CommerceService.
type commerceService struct {
	merchant merchant.Merchant
	logger   zerolog.Logger
}

// NewCommerceService creates the boundary service over a merchant backend.
func NewCommerceService(m merchant.Merchant, logger zerolog.Logger) CommerceService {
	return &commerceService{
		merchant: m,
		logger:   logger.With().Str("service", "commerce").Logger(),
	}
}

// SearchProducts invokes the product-lookup callback and converts its raw
// result into typed products.
func (s *commerceService) SearchProducts(ctx context.Context, query merchant.ProductQuery) (*model.ProductsResponse, error) {
	raw, err := s.merchant.LookupProducts(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query.Query).Msg("product lookup failed")
		return nil, fmt.Errorf("%w: product lookup: %v", model.ErrCallbackFailure, err)
	}

	if ve := schema.ValidateProductList(raw); ve != nil {
		s.logger.Warn().
			Str("field", ve.Path).
			Str("reason", ve.Reason).
			Msg("merchant returned invalid product payload")
		return nil, ve
	}

	if len(raw) == 0 {
		s.logger.Debug().Str("query", query.Query).Msg("no products matched")
		return nil, nil
	}

	products := make([]model.Product, len(raw))
	for i, p := range raw {
		products[i] = mapProduct(p)
	}

	s.logger.Info().Int("total_count", len(products)).Msg("products retrieved")

	return &model.ProductsResponse{
		Success:    true,
		TotalCount: len(products),
		Products:   products,
	}, nil
}

// CalculateTotal prices each requested line by looking the product up by
// exact id and applying matching variation modifiers. It is a pure
// preview and mutates no state.
func (s *commerceService) CalculateTotal(ctx context.Context, items []model.OrderItemRequest) (*model.TotalPreview, error) {
	priced := make([]model.PricedItem, 0, len(items))
	total := 0.0

	for _, item := range items {
		raw, err := s.merchant.LookupProducts(ctx, merchant.ProductQuery{
			ProductID: item.ProductID,
			Limit:     1,
		})
		if err != nil {
			s.logger.Error().Err(err).Str("product_id", item.ProductID).Msg("product lookup failed")
			return nil, fmt.Errorf("%w: product lookup: %v", model.ErrCallbackFailure, err)
		}
		if len(raw) == 0 {
			s.logger.Warn().Str("product_id", item.ProductID).Msg("product not found for pricing")
			return nil, model.NewProductNotFoundError(item.ProductID)
		}

		if ve := schema.ValidateProduct(raw[0], "product"); ve != nil {
			s.logger.Warn().
				Str("product_id", item.ProductID).
				Str("field", ve.Path).
				Str("reason", ve.Reason).
				Msg("merchant returned invalid product payload")
			return nil, ve
		}

		product := mapProduct(raw[0])
		price := product.BasePrice + modifierSum(product.Variations, item.Variations)

		pricedItem := model.PricedItem{
			ProductID:   item.ProductID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   price,
		}
		if len(item.Variations) > 0 {
			pricedItem.Variations = item.Variations
		}
		priced = append(priced, pricedItem)
		total += price * float64(item.Quantity)
	}

	return &model.TotalPreview{
		Items:       priced,
		TotalAmount: total,
	}, nil
}

// CreateOrder validates caller input, delegates to the merchant, and
// validates the merchant's output. The two passes are asymmetric by
// design: caller items are checked so merchant code never receives
// malformed input, and merchant output is checked again because merchant
// code is equally untrusted.
func (s *commerceService) CreateOrder(ctx context.Context, items []map[string]any, customerID string) (*model.OrderResponse, error) {
	for i, item := range items {
		if ve := schema.ValidateOrderItem(item, fmt.Sprintf("items[%d]", i)); ve != nil {
			s.logger.Warn().
				Int("item_index", i).
				Str("field", ve.Path).
				Str("reason", ve.Reason).
				Msg("invalid order item")
			return nil, ve
		}
	}

	orderLines := make([]model.OrderItemRequest, len(items))
	for i, item := range items {
		orderLines[i] = mapOrderLine(item)
	}

	raw, err := s.merchant.CreateOrder(ctx, orderLines, customerID)
	if err != nil {
		s.logger.Error().Err(err).Int("item_count", len(items)).Msg("order creation failed")
		return nil, fmt.Errorf("%w: order creation: %v", model.ErrCallbackFailure, err)
	}

	if ve := schema.ValidateOrder(raw); ve != nil {
		s.logger.Warn().
			Str("field", ve.Path).
			Str("reason", ve.Reason).
			Msg("merchant returned invalid order payload")
		return nil, ve
	}

	response := mapOrder(raw, customerID)

	s.logger.Info().
		Str("order_id", response.OrderID).
		Str("customer_id", response.CustomerID).
		Float64("total_amount", response.TotalAmount).
		Msg("order created")

	return response, nil
}

// modifierSum adds up the price modifiers of catalogue variations that
// exactly match a selection on (type, name). Unmatched selections
// contribute nothing.
func modifierSum(catalog []model.Variation, selected []model.SelectedVariation) float64 {
	sum := 0.0
	for _, sel := range selected {
		for _, v := range catalog {
			if v.Type == sel.Type && v.Name == sel.Name {
				sum += v.PriceModifier
				break
			}
		}
	}
	return sum
}

// mapProduct converts a validated raw product payload into a typed
// Product. Coercions cannot fail after validation.
func mapProduct(raw map[string]any) model.Product {
	id, _ := schema.AsString(raw["id"])
	name, _ := schema.AsString(raw["name"])
	price, _ := schema.AsFloat(raw["base_price"])
	stock, _ := schema.AsInt(raw["stock_level"])

	product := model.Product{
		ID:         id,
		Name:       name,
		BasePrice:  price,
		StockLevel: stock,
	}
	if desc, ok := schema.AsString(raw["description"]); ok {
		product.Description = desc
	}
	if image, ok := schema.AsString(raw["image"]); ok {
		product.Image = image
	}
	if rawVars, ok := schema.AsList(raw["variations"]); ok {
		variations := make([]model.Variation, 0, len(rawVars))
		for _, rv := range rawVars {
			v, ok := rv.(map[string]any)
			if !ok {
				continue
			}
			vtype, _ := schema.AsString(v["type"])
			vname, _ := schema.AsString(v["name"])
			modifier, _ := schema.AsFloat(v["price_modifier"])
			variations = append(variations, model.Variation{
				Type:          vtype,
				Name:          vname,
				PriceModifier: modifier,
			})
		}
		if len(variations) > 0 {
			product.Variations = variations
		}
	}
	return product
}

// mapOrderLine converts a validated raw order line into a typed request.
func mapOrderLine(raw map[string]any) model.OrderItemRequest {
	productID, _ := schema.AsString(raw["product_id"])
	quantity, _ := schema.AsInt(raw["quantity"])

	line := model.OrderItemRequest{
		ProductID: productID,
		Quantity:  quantity,
	}
	if rawVars, ok := schema.AsList(raw["variations"]); ok {
		line.Variations = mapSelectedVariations(rawVars)
	}
	return line
}

// mapOrder converts a validated raw order payload into a typed response.
// unit_price is optional on merchant items and defaults to zero; customer
// and status fall back to GUEST / CREATED.
func mapOrder(raw map[string]any, customerID string) *model.OrderResponse {
	orderID, _ := schema.AsString(raw["order_id"])
	total, _ := schema.AsFloat(raw["total_amount"])

	rawItems, _ := schema.AsList(raw["items"])
	items := make([]model.OrderItem, 0, len(rawItems))
	for _, ri := range rawItems {
		item, ok := ri.(map[string]any)
		if !ok {
			continue
		}
		productID, _ := schema.AsString(item["product_id"])
		quantity, _ := schema.AsInt(item["quantity"])
		unitPrice, _ := schema.AsFloat(item["unit_price"])

		orderItem := model.OrderItem{
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: unitPrice,
		}
		if rawVars, ok := schema.AsList(item["variations"]); ok {
			orderItem.Variations = mapSelectedVariations(rawVars)
		}
		items = append(items, orderItem)
	}

	status, ok := schema.AsString(raw["status"])
	if !ok || status == "" {
		status = model.DefaultOrderStatus
	}
	if customerID == "" {
		customerID = model.DefaultCustomerID
	}

	return &model.OrderResponse{
		Success:     true,
		OrderID:     orderID,
		Items:       items,
		CustomerID:  customerID,
		TotalAmount: total,
		Status:      status,
	}
}

func mapSelectedVariations(raw []any) []model.SelectedVariation {
	out := make([]model.SelectedVariation, 0, len(raw))
	for _, rv := range raw {
		v, ok := rv.(map[string]any)
		if !ok {
			continue
		}
		vtype, _ := schema.AsString(v["type"])
		vname, _ := schema.AsString(v["name"])
		out = append(out, model.SelectedVariation{Type: vtype, Name: vname})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
