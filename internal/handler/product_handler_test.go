package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"merchant-kit/internal/merchant"
	"merchant-kit/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductHandler_Search(t *testing.T) {
	t.Run("Returns matched products", func(t *testing.T) {
		mockService := new(MockCommerceService)
		mockService.On("SearchProducts", mock.Anything, merchant.ProductQuery{Query: "hoodie", Limit: 10}).
			Return(&model.ProductsResponse{
				Success:    true,
				TotalCount: 1,
				Products:   []model.Product{{ID: "prod-1", Name: "Blue Hoodie", BasePrice: 25.0}},
			}, nil)

		h := NewProductHandler(mockService, zerolog.Nop())
		req := httptest.NewRequest(http.MethodGet, "/api/products/search?query=hoodie", nil)
		rec := httptest.NewRecorder()

		h.Search(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp model.ProductsResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 1, resp.TotalCount)
		require.Len(t, resp.Products, 1)
		assert.Equal(t, "prod-1", resp.Products[0].ID)
		mockService.AssertExpectations(t)
	})

	t.Run("Empty match is success with zero products", func(t *testing.T) {
		mockService := new(MockCommerceService)
		mockService.On("SearchProducts", mock.Anything, mock.Anything).Return(nil, nil)

		h := NewProductHandler(mockService, zerolog.Nop())
		req := httptest.NewRequest(http.MethodGet, "/api/products/search?query=nothing", nil)
		rec := httptest.NewRecorder()

		h.Search(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp model.ProductsResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 0, resp.TotalCount)
		assert.Empty(t, resp.Products)
	})

	t.Run("Forwards all filters", func(t *testing.T) {
		mockService := new(MockCommerceService)
		min, max := 5.0, 30.0
		expected := merchant.ProductQuery{
			Query:        "mug",
			ProductID:    "prod-2",
			NameContains: "red",
			DescContains: "ceramic",
			Limit:        5,
			PriceMin:     &min,
			PriceMax:     &max,
		}
		mockService.On("SearchProducts", mock.Anything, expected).Return(nil, nil)

		h := NewProductHandler(mockService, zerolog.Nop())
		req := httptest.NewRequest(http.MethodGet,
			"/api/products/search?query=mug&product_id=prod-2&name_contains=red&desc_contains=ceramic&limit=5&price_min=5&price_max=30", nil)
		rec := httptest.NewRecorder()

		h.Search(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Invalid numeric parameter", func(t *testing.T) {
		mockService := new(MockCommerceService)

		h := NewProductHandler(mockService, zerolog.Nop())
		req := httptest.NewRequest(http.MethodGet, "/api/products/search?price_min=cheap", nil)
		rec := httptest.NewRecorder()

		h.Search(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp model.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, model.ErrCodeValidation, resp.Error)
		mockService.AssertNotCalled(t, "SearchProducts", mock.Anything, mock.Anything)
	})

	t.Run("Malformed merchant payload surfaces as 422", func(t *testing.T) {
		mockService := new(MockCommerceService)
		mockService.On("SearchProducts", mock.Anything, mock.Anything).
			Return(nil, model.NewValidationError("products[0].base_price", "must be numeric"))

		h := NewProductHandler(mockService, zerolog.Nop())
		req := httptest.NewRequest(http.MethodGet, "/api/products/search?query=mug", nil)
		rec := httptest.NewRecorder()

		h.Search(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var resp model.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, model.ErrCodeValidation, resp.Error)
		assert.Contains(t, resp.Message, "products[0].base_price")
	})

	t.Run("Callback failure surfaces as 502", func(t *testing.T) {
		mockService := new(MockCommerceService)
		wrapped := fmt.Errorf("%w: product lookup: backend down", model.ErrCallbackFailure)
		mockService.On("SearchProducts", mock.Anything, mock.Anything).Return(nil, wrapped)

		h := NewProductHandler(mockService, zerolog.Nop())
		req := httptest.NewRequest(http.MethodGet, "/api/products/search?query=mug", nil)
		rec := httptest.NewRecorder()

		h.Search(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("Method not allowed", func(t *testing.T) {
		h := NewProductHandler(new(MockCommerceService), zerolog.Nop())
		req := httptest.NewRequest(http.MethodPost, "/api/products/search", nil)
		rec := httptest.NewRecorder()

		h.Search(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
