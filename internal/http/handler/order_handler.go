package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/marketgrid/orders-api/internal/auth"
	"github.com/marketgrid/orders-api/internal/domain"
	"github.com/marketgrid/orders-api/internal/service"
	"go.uber.org/zap"
)

// OrderHandler handles order confirmation and order history
type OrderHandler struct {
	orderService *service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// Confirm godoc
// @Summary Confirm order
// @Description Place the basket as an order with a delivery contact
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body domain.ConfirmOrderRequest true "Basket and contact"
// @Success 200 {object} domain.ConfirmOrderResponse
// @Failure 400 {object} domain.StatusResponse
// @Failure 401 {object} domain.StatusResponse
// @Failure 404 {object} domain.StatusResponse
// @Security BearerAuth
// @Router /orders/confirm [post]
func (h *OrderHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.ConfirmOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := h.orderService.Confirm(r.Context(), userCtx.UserID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// ListOrders godoc
// @Summary List orders
// @Description Get the user's placed orders, newest first
// @Tags Orders
// @Produce json
// @Success 200 {array} domain.OrderDTO
// @Failure 401 {object} domain.StatusResponse
// @Failure 500 {object} domain.StatusResponse
// @Security BearerAuth
// @Router /orders [get]
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	orders, err := h.orderService.List(r.Context(), userCtx.UserID)
	if err != nil {
		h.logger.Error("failed to list orders",
			zap.String("user_id", userCtx.UserID.String()),
			zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// GetOrder godoc
// @Summary Get order
// @Description Get one of the user's placed orders
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.OrderDTO
// @Failure 400 {object} domain.StatusResponse
// @Failure 401 {object} domain.StatusResponse
// @Failure 404 {object} domain.StatusResponse
// @Security BearerAuth
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := h.orderService.Get(r.Context(), userCtx.UserID, orderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
