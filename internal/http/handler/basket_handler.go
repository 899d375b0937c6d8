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

// BasketHandler handles the authenticated basket endpoints
type BasketHandler struct {
	basketService *service.BasketService
	logger        *zap.Logger
}

// NewBasketHandler creates a new BasketHandler
func NewBasketHandler(basketService *service.BasketService, logger *zap.Logger) *BasketHandler {
	return &BasketHandler{
		basketService: basketService,
		logger:        logger,
	}
}

// GetBasket godoc
// @Summary Get basket
// @Description Get the current user's basket, creating an empty one if absent
// @Tags Basket
// @Produce json
// @Success 200 {object} domain.OrderDTO
// @Failure 401 {object} domain.StatusResponse
// @Failure 500 {object} domain.StatusResponse
// @Security BearerAuth
// @Router /basket [get]
func (h *BasketHandler) GetBasket(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	basket, err := h.basketService.GetBasket(r.Context(), userCtx.UserID)
	if err != nil {
		h.logger.Error("failed to get basket",
			zap.String("user_id", userCtx.UserID.String()),
			zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, basket)
}

// AddItem godoc
// @Summary Add item to basket
// @Description Add an offer to the basket; adding the same offer again merges quantities
// @Tags Basket
// @Accept json
// @Produce json
// @Param request body domain.AddBasketItemRequest true "Item to add"
// @Success 201 {object} domain.OrderDTO
// @Failure 400 {object} domain.StatusResponse
// @Failure 401 {object} domain.StatusResponse
// @Failure 404 {object} domain.StatusResponse
// @Security BearerAuth
// @Router /basket/items [post]
func (h *BasketHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.AddBasketItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	basket, err := h.basketService.AddItem(r.Context(), userCtx.UserID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, basket)
}

// UpdateItem godoc
// @Summary Update basket item
// @Description Replace the quantity on a basket line
// @Tags Basket
// @Accept json
// @Produce json
// @Param id path string true "Basket item ID"
// @Param request body domain.UpdateBasketItemRequest true "New quantity"
// @Success 200 {object} domain.OrderDTO
// @Failure 400 {object} domain.StatusResponse
// @Failure 401 {object} domain.StatusResponse
// @Failure 404 {object} domain.StatusResponse
// @Security BearerAuth
// @Router /basket/items/{id} [put]
func (h *BasketHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req domain.UpdateBasketItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	basket, err := h.basketService.UpdateItem(r.Context(), userCtx.UserID, itemID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, basket)
}

// RemoveItem godoc
// @Summary Remove basket item
// @Description Delete a line from the basket
// @Tags Basket
// @Produce json
// @Param id path string true "Basket item ID"
// @Success 200 {object} domain.OrderDTO
// @Failure 400 {object} domain.StatusResponse
// @Failure 401 {object} domain.StatusResponse
// @Failure 404 {object} domain.StatusResponse
// @Security BearerAuth
// @Router /basket/items/{id} [delete]
func (h *BasketHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	basket, err := h.basketService.RemoveItem(r.Context(), userCtx.UserID, itemID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, basket)
}
