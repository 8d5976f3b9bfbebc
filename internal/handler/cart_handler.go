package handler

import (
	"encoding/json"
	"net/http"

	"merchant-kit/internal/model"
	"merchant-kit/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests. The cart is scoped by the
// X-Session-ID header.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

type addToCartRequest struct {
	ProductID  string                    `json:"product_id"`
	Quantity   int                       `json:"quantity"`
	Variations []model.SelectedVariation `json:"variations"`
	UnitPrice  *float64                  `json:"unit_price"`
}

type removeFromCartRequest struct {
	ProductID  string                    `json:"product_id"`
	Variations []model.SelectedVariation `json:"variations"`
}

// Add handles POST /api/cart/items requests.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "product_id is required", h.logger)
		return
	}

	summary, err := h.service.Add(r.Context(), sessionID(r), req.ProductID, req.Quantity, req.Variations, req.UnitPrice)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// View handles GET /api/cart requests.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.View(r.Context(), sessionID(r))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Remove handles DELETE /api/cart/items requests. Removing an item that
// is not in the cart succeeds and returns the unchanged summary.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req removeFromCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "product_id is required", h.logger)
		return
	}

	summary, err := h.service.Remove(r.Context(), sessionID(r), req.ProductID, req.Variations)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
