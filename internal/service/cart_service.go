package service

import (
	"context"

	"merchant-kit/internal/cart"
	"merchant-kit/internal/model"

	"github.com/rs/zerolog"
)

// cartService implements CartService over the in-memory store, using the
// commerce boundary to resolve prices the caller did not supply.
type cartService struct {
	store    *cart.Store
	commerce CommerceService
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(store *cart.Store, commerce CommerceService, logger zerolog.Logger) CartService {
	return &cartService{
		store:    store,
		commerce: commerce,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// Add puts an item into the session's cart. A missing unit price is
// resolved with a single-quantity price preview for the same variations;
// if that fails the item is added with a zero price so the cart flow
// never blocks on a pricing hiccup.
func (s *cartService) Add(ctx context.Context, sessionID, productID string, quantity int, variations []model.SelectedVariation, unitPrice *float64) (*model.CartSummary, error) {
	if unitPrice == nil {
		resolved := s.resolveUnitPrice(ctx, productID, variations)
		unitPrice = &resolved
	}

	summary, err := s.store.Add(sessionID, productID, quantity, variations, unitPrice)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Str("product_id", productID).
		Int("quantity", quantity).
		Float64("unit_price", *unitPrice).
		Float64("total_amount", summary.TotalAmount).
		Msg("added to cart")

	return summary, nil
}

// View returns the session's current cart summary.
func (s *cartService) View(ctx context.Context, sessionID string) (*model.CartSummary, error) {
	return s.store.View(sessionID), nil
}

// Remove deletes matching items from the session's cart.
func (s *cartService) Remove(ctx context.Context, sessionID, productID string, variations []model.SelectedVariation) (*model.CartSummary, error) {
	summary := s.store.Remove(sessionID, productID, variations)

	s.logger.Info().
		Str("session_id", sessionID).
		Str("product_id", productID).
		Int("item_count", summary.ItemCount).
		Msg("removed from cart")

	return summary, nil
}

func (s *cartService) resolveUnitPrice(ctx context.Context, productID string, variations []model.SelectedVariation) float64 {
	preview, err := s.commerce.CalculateTotal(ctx, []model.OrderItemRequest{{
		ProductID:  productID,
		Quantity:   1,
		Variations: variations,
	}})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("product_id", productID).
			Msg("unit price resolution failed, defaulting to zero")
		return 0
	}
	if len(preview.Items) == 0 {
		return 0
	}

	price := preview.Items[0].UnitPrice
	s.logger.Debug().
		Str("product_id", productID).
		Float64("unit_price", price).
		Msg("resolved unit price")
	return price
}
