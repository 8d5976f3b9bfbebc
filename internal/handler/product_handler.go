package handler

import (
	"net/http"
	"strconv"

	"merchant-kit/internal/merchant"
	"merchant-kit/internal/model"
	"merchant-kit/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-search HTTP requests.
type ProductHandler struct {
	service service.CommerceService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.CommerceService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// Search handles GET /api/products/search requests.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	query, err := parseProductQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, err.Error(), h.logger)
		return
	}

	result, svcErr := h.service.SearchProducts(r.Context(), query)
	if svcErr != nil {
		writeDomainError(w, svcErr, h.logger)
		return
	}

	if result == nil {
		// No products matched; distinct from a validation failure.
		writeJSON(w, http.StatusOK, model.ProductsResponse{
			Success:  true,
			Products: []model.Product{},
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func parseProductQuery(r *http.Request) (merchant.ProductQuery, error) {
	params := r.URL.Query()

	query := merchant.ProductQuery{
		Query:        params.Get("query"),
		ProductID:    params.Get("product_id"),
		NameContains: params.Get("name_contains"),
		DescContains: params.Get("desc_contains"),
		Limit:        10,
	}

	if v := params.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return merchant.ProductQuery{}, errInvalidParam("limit")
		}
		query.Limit = limit
	}
	if v := params.Get("price_min"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return merchant.ProductQuery{}, errInvalidParam("price_min")
		}
		query.PriceMin = &min
	}
	if v := params.Get("price_max"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return merchant.ProductQuery{}, errInvalidParam("price_max")
		}
		query.PriceMax = &max
	}

	return query, nil
}

type paramError string

func (e paramError) Error() string { return "invalid " + string(e) + " parameter" }

func errInvalidParam(name string) error { return paramError(name) }
