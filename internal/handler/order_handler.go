package handler

import (
	"encoding/json"
	"net/http"

	"merchant-kit/internal/model"
	"merchant-kit/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.CommerceService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.CommerceService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// createOrderRequest carries the caller's raw order lines. Items stay
// untyped here on purpose: the boundary layer owns their validation.
type createOrderRequest struct {
	Items      []map[string]any `json:"items"`
	CustomerID string           `json:"customer_id"`
}

type previewRequest struct {
	Items []model.OrderItemRequest `json:"items"`
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "order must contain at least one item", h.logger)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), req.Items, req.CustomerID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// Preview handles POST /api/orders/preview requests: a pure price
// calculation that creates nothing.
func (h *OrderHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "preview requires at least one item", h.logger)
		return
	}

	preview, err := h.service.CalculateTotal(r.Context(), req.Items)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, preview)
}
