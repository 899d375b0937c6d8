package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/marketgrid/orders-api/internal/repository"
	"github.com/marketgrid/orders-api/internal/service"
	"go.uber.org/zap"
)

// CatalogHandler handles the public browse endpoints
type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListShops godoc
// @Summary List shops
// @Description Get all active shops
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.ShopDTO
// @Failure 500 {object} domain.StatusResponse
// @Router /shops [get]
func (h *CatalogHandler) ListShops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.catalogService.ListShops(r.Context())
	if err != nil {
		h.logger.Error("failed to list shops", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list shops")
		return
	}
	respondJSON(w, http.StatusOK, shops)
}

// ListCategories godoc
// @Summary List categories
// @Description Get all product categories
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.CategoryDTO
// @Failure 500 {object} domain.StatusResponse
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list categories")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// ListProducts godoc
// @Summary List products
// @Description Get sellable product offers, optionally filtered by shop and category
// @Tags Catalog
// @Produce json
// @Param shop_id query string false "Filter by shop ID"
// @Param category_id query string false "Filter by category ID"
// @Success 200 {array} domain.OfferDTO
// @Failure 400 {object} domain.StatusResponse
// @Failure 500 {object} domain.StatusResponse
// @Router /products [get]
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filters := &repository.OfferFilters{}

	if shopID := r.URL.Query().Get("shop_id"); shopID != "" {
		id, err := uuid.Parse(shopID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid shop_id: must be a valid UUID")
			return
		}
		filters.ShopID = &id
	}
	if categoryID := r.URL.Query().Get("category_id"); categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid category_id: must be a valid UUID")
			return
		}
		filters.CategoryID = &id
	}

	offers, err := h.catalogService.ListOffers(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}
	respondJSON(w, http.StatusOK, offers)
}
