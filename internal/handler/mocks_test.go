package handler

import (
	"context"

	"merchant-kit/internal/merchant"
	"merchant-kit/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockCommerceService is a mock implementation of service.CommerceService.
type MockCommerceService struct {
	mock.Mock
}

func (m *MockCommerceService) SearchProducts(ctx context.Context, query merchant.ProductQuery) (*model.ProductsResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductsResponse), args.Error(1)
}

func (m *MockCommerceService) CalculateTotal(ctx context.Context, items []model.OrderItemRequest) (*model.TotalPreview, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TotalPreview), args.Error(1)
}

func (m *MockCommerceService) CreateOrder(ctx context.Context, items []map[string]any, customerID string) (*model.OrderResponse, error) {
	args := m.Called(ctx, items, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

// MockCartService is a mock implementation of service.CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Add(ctx context.Context, sessionID, productID string, quantity int, variations []model.SelectedVariation, unitPrice *float64) (*model.CartSummary, error) {
	args := m.Called(ctx, sessionID, productID, quantity, variations, unitPrice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartSummary), args.Error(1)
}

func (m *MockCartService) View(ctx context.Context, sessionID string) (*model.CartSummary, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartSummary), args.Error(1)
}

func (m *MockCartService) Remove(ctx context.Context, sessionID, productID string, variations []model.SelectedVariation) (*model.CartSummary, error) {
	args := m.Called(ctx, sessionID, productID, variations)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartSummary), args.Error(1)
}
