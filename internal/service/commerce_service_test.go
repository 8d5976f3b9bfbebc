package service

import (
	"context"
	"errors"
	"testing"

	"merchant-kit/internal/merchant"
	"merchant-kit/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMerchant is a mock implementation of merchant.Merchant.
type MockMerchant struct {
	mock.Mock
}

func (m *MockMerchant) LookupProducts(ctx context.Context, query merchant.ProductQuery) ([]map[string]any, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]any), args.Error(1)
}

func (m *MockMerchant) CreateOrder(ctx context.Context, items []model.OrderItemRequest, customerID string) (map[string]any, error) {
	args := m.Called(ctx, items, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func rawProduct(id string, basePrice float64) map[string]any {
	return map[string]any{
		"id":          id,
		"name":        "Product " + id,
		"base_price":  basePrice,
		"stock_level": 10,
	}
}

func TestCommerceService_SearchProducts(t *testing.T) {
	ctx := context.Background()
	query := merchant.ProductQuery{Query: "hoodie", Limit: 10}

	t.Run("Maps validated products", func(t *testing.T) {
		mockMerchant := new(MockMerchant)
		raw := rawProduct("prod-1", 25.0)
		raw["description"] = "warm"
		raw["variations"] = []any{
			map[string]any{"type": "size", "name": "L", "price_modifier": 2.0},
		}
		mockMerchant.On("LookupProducts", ctx, query).Return([]map[string]any{raw}, nil)

		svc := NewCommerceService(mockMerchant, zerolog.Nop())
		resp, err := svc.SearchProducts(ctx, query)

		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.True(t, resp.Success)
		assert.Equal(t, 1, resp.TotalCount)
		require.Len(t, resp.Products, 1)
		assert.Equal(t, "prod-1", resp.Products[0].ID)
		assert.InDelta(t, 25.0, resp.Products[0].BasePrice, 1e-9)
		assert.Equal(t, "warm", resp.Products[0].Description)
		require.Len(t, resp.Products[0].Variations, 1)
		assert.InDelta(t, 2.0, resp.Products[0].Variations[0].PriceModifier, 1e-9)
		mockMerchant.AssertExpectations(t)
	})

	t.Run("Empty result is nil response without error", func(t *testing.T) {
		mockMerchant := new(MockMerchant)
		mockMerchant.On("LookupProducts", ctx, query).Return([]map[string]any{}, nil)

		svc := NewCommerceService(mockMerchant, zerolog.Nop())
		resp, err := svc.SearchProducts(ctx, query)

		require.NoError(t, err)
		assert.Nil(t, resp)
	})

	t.Run("Malformed payload is a validation error", func(t *testing.T) {
		mockMerchant := new(MockMerchant)
		bad := rawProduct("prod-1", 25.0)
		delete(bad, "stock_level")
		mockMerchant.On("LookupProducts", ctx, query).Return([]map[string]any{bad}, nil)

		svc := NewCommerceService(mockMerchant, zerolog.Nop())
		resp, err := svc.SearchProducts(ctx, query)

		assert.Nil(t, resp)
		var ve *model.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "products[0].stock_level", ve.Path)
	})

	t.Run("Lookup failure wrapped as callback failure", func(t *testing.T) {
		mockMerchant := new(MockMerchant)
		mockMerchant.On("LookupProducts", ctx, query).Return(nil, errors.New("backend down"))

		svc := NewCommerceService(mockMerchant, zerolog.Nop())
		resp, err := svc.SearchProducts(ctx, query)

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, model.ErrCallbackFailure)
		assert.Contains(t, err.Error(), "backend down")
	})
}

func TestCommerceService_CalculateTotal(t *testing.T) {
	ctx := context.Background()

	productWithVariations := func() map[string]any {
		p := rawProduct("prod-1", 20.0)
		p["variations"] = []any{
			map[string]any{"type": "size", "name": "L", "price_modifier": 3.5},
			map[string]any{"type": "color", "name": "red", "price_modifier": 1.0},
		}
		return p
	}

	t.Run("Applies matching modifiers", func(t *testing.T) {
		mockMerchant := new(MockMerchant)
		mockMerchant.On("LookupProducts", ctx, merchant.ProductQuery{ProductID: "prod-1", Limit: 1}).
			Return([]map[string]any{productWithVariations()}, nil)

		svc := NewCommerceService(mockMerchant, zerolog.Nop())
		preview, err := svc.CalculateTotal(ctx, []model.OrderItemRequest{{
			ProductID:  "prod-1",
			Quantity:   2,
			Variations: []model.SelectedVariation{{Type: "size", Name: "L"}},
		}})

		require.NoError(t, err)
		require.Len(t, preview.Items, 1)
		assert.InDelta(t, 23.5, preview.Items[0].UnitPrice, 1e-9)
		assert.InDelta(t, 47.0, preview.TotalAmount, 1e-9)
	})

	t.Run("Unmatched selection adds nothing", func(t *testing.T) {
		mockMerchant := new(MockMerchant)
		mockMerchant.On("LookupProducts", ctx, merchant.ProductQuery{ProductID: "prod-1", Limit: 1}).
			Return([]map[string]any{productWithVariations()}, nil)

		svc := NewCommerceService(mockMerchant, zerolog.Nop())
		preview, err := svc.CalculateTotal(ctx, []model.OrderItemRequest{{
			ProductID:  "prod-1",
			Quantity:   1,
			Variations: []model.SelectedVariation{{Type: "size", Name: "XXL"}},
		}})

		require.NoError(t, err)
		assert.InDelta(t, 20.0, preview.TotalAmount, 1e-9)
	})

	t.Run("Sums across lines", func(t *testing.T) {
		mockMerchant := new(MockMerchant)
		mockMerchant.On("LookupProducts", ctx, merchant.ProductQuery{ProductID: "prod-1", Limit: 1}).
			Return([]map[string]any{rawProduct("prod-1", 10.0)}, nil)
		mockMerchant.On("LookupProducts", ctx, merchant.ProductQuery{ProductID: "prod-2", Limit: 1}).
			Return([]map[string]any{rawProduct("prod-2", 4.0)}, nil)

		svc := NewCommerceService(mockMerchant, zerolog.Nop())
		preview, err := svc.CalculateTotal(ctx, []model.OrderItemRequest{
			{ProductID: "prod-1", Quantity: 1},
			{ProductID: "prod-2", Quantity: 3},
		})

		require.NoError(t, err)
		assert.Len(t, preview.Items, 2)
		assert.InDelta(t, 22.0, preview.TotalAmount, 1e-9)
	})

	t.Run("Unknown product", func(t *testing.T) {
		mockMerchant := new(MockMerchant)
		mockMerchant.On("LookupProducts", ctx, merchant.ProductQuery{ProductID: "prod-404", Limit: 1}).
			Return([]map[string]any{}, nil)

		svc := NewCommerceService(mockMerchant, zerolog.Nop())
		preview, err := svc.CalculateTotal(ctx, []model.OrderItemRequest{{ProductID: "prod-404", Quantity: 1}})

		assert.Nil(t, preview)
		var de *model.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, model.ErrCodeProductNotFound, de.Code)
		assert.Contains(t, de.Message, "prod-404")
	})

	t.Run("Malformed product payload", func(t *testing.T) {
		mockMerchant := new(MockMerchant)
		bad := rawProduct("prod-1", 20.0)
		bad["base_price"] = -1.0
		mockMerchant.On("LookupProducts", ctx, merchant.ProductQuery{ProductID: "prod-1", Limit: 1}).
			Return([]map[string]any{bad}, nil)

		svc := NewCommerceService(mockMerchant, zerolog.Nop())
		_, err := svc.CalculateTotal(ctx, []model.OrderItemRequest{{ProductID: "prod-1", Quantity: 1}})

		var ve *model.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "product.base_price", ve.Path)
	})

	t.Run("Empty request prices to zero", func(t *testing.T) {
		mockMerchant := new(MockMerchant)

		svc := NewCommerceService(mockMerchant, zerolog.Nop())
		preview, err := svc.CalculateTotal(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, preview.Items)
		assert.InDelta(t, 0.0, preview.TotalAmount, 1e-9)
	})
}

func TestCommerceService_CreateOrder(t *testing.T) {
	ctx := context.Background()

	validItems := []map[string]any{
		{"product_id": "prod-1", "quantity": 2},
	}

	t.Run("Maps validated order with defaults", func(t *testing.T) {
		mockMerchant := new(MockMerchant)
		expectedLines := []model.OrderItemRequest{{ProductID: "prod-1", Quantity: 2}}
		mockMerchant.On("CreateOrder", ctx, expectedLines, "").Return(map[string]any{
			"order_id": "ord-1",
			"items": []any{
				map[string]any{"product_id": "prod-1", "quantity": 2, "unit_price": 12.5},
			},
			"total_amount": 25.0,
		}, nil)

		svc := NewCommerceService(mockMerchant, zerolog.Nop())
		resp, err := svc.CreateOrder(ctx, validItems, "")

		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "ord-1", resp.OrderID)
		assert.Equal(t, model.DefaultCustomerID, resp.CustomerID)
		assert.Equal(t, model.DefaultOrderStatus, resp.Status)
		assert.InDelta(t, 25.0, resp.TotalAmount, 1e-9)
		require.Len(t, resp.Items, 1)
		assert.InDelta(t, 12.5, resp.Items[0].UnitPrice, 1e-9)
		mockMerchant.AssertExpectations(t)
	})

	t.Run("Merchant status and customer id preserved", func(t *testing.T) {
		mockMerchant := new(MockMerchant)
		mockMerchant.On("CreateOrder", ctx, mock.Anything, "cust-9").Return(map[string]any{
			"order_id": "ord-2",
			"items": []any{
				map[string]any{"product_id": "prod-1", "quantity": 1},
			},
			"total_amount": 10.0,
			"status":       "PENDING",
		}, nil)

		svc := NewCommerceService(mockMerchant, zerolog.Nop())
		resp, err := svc.CreateOrder(ctx, validItems, "cust-9")

		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, "cust-9", resp.CustomerID)
		// Item without unit_price defaults to zero.
		assert.InDelta(t, 0.0, resp.Items[0].UnitPrice, 1e-9)
	})

	t.Run("Invalid input item fails before the callback runs", func(t *testing.T) {
		mockMerchant := new(MockMerchant)

		svc := NewCommerceService(mockMerchant, zerolog.Nop())
		resp, err := svc.CreateOrder(ctx, []map[string]any{
			{"product_id": "prod-1", "quantity": 1},
			{"product_id": "prod-2", "quantity": 0},
		}, "")

		assert.Nil(t, resp)
		var ve *model.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "items[1].quantity", ve.Path)
		mockMerchant.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Callback failure wrapped", func(t *testing.T) {
		mockMerchant := new(MockMerchant)
		mockMerchant.On("CreateOrder", ctx, mock.Anything, "").Return(nil, errors.New("payment refused"))

		svc := NewCommerceService(mockMerchant, zerolog.Nop())
		resp, err := svc.CreateOrder(ctx, validItems, "")

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, model.ErrCallbackFailure)
	})

	t.Run("Malformed merchant order rejected", func(t *testing.T) {
		mockMerchant := new(MockMerchant)
		mockMerchant.On("CreateOrder", ctx, mock.Anything, "").Return(map[string]any{
			"order_id":     "ord-3",
			"items":        []any{},
			"total_amount": 0.0,
		}, nil)

		svc := NewCommerceService(mockMerchant, zerolog.Nop())
		resp, err := svc.CreateOrder(ctx, validItems, "")

		assert.Nil(t, resp)
		var ve *model.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "order.items", ve.Path)
	})
}
