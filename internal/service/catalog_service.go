package service

import (
	"context"
	"fmt"

	"github.com/marketgrid/orders-api/internal/domain"
	"github.com/marketgrid/orders-api/internal/mapper"
	"github.com/marketgrid/orders-api/internal/repository"
	"go.uber.org/zap"
)

// CatalogService serves the public browse endpoints: shops, categories
// and sellable offers. Read-only.
type CatalogService struct {
	shopRepo     *repository.ShopRepository
	categoryRepo *repository.CategoryRepository
	offerRepo    *repository.OfferRepository
	logger       *zap.Logger
}

func NewCatalogService(
	shopRepo *repository.ShopRepository,
	categoryRepo *repository.CategoryRepository,
	offerRepo *repository.OfferRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		shopRepo:     shopRepo,
		categoryRepo: categoryRepo,
		offerRepo:    offerRepo,
		logger:       logger,
	}
}

// ListShops returns active shops only; deactivated storefronts are hidden
func (s *CatalogService) ListShops(ctx context.Context) ([]domain.ShopDTO, error) {
	shops, err := s.shopRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}

	dtos := make([]domain.ShopDTO, len(shops))
	for i, shop := range shops {
		dtos[i] = mapper.ToShopDTO(&shop)
	}
	return dtos, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.CategoryDTO, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	dtos := make([]domain.CategoryDTO, len(categories))
	for i, category := range categories {
		dtos[i] = mapper.ToCategoryDTO(&category)
	}
	return dtos, nil
}

// ListOffers returns sellable offers, optionally narrowed by shop and
// category. Offers from inactive shops never appear.
func (s *CatalogService) ListOffers(ctx context.Context, filters *repository.OfferFilters) ([]domain.OfferDTO, error) {
	offers, err := s.offerRepo.ListActive(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	dtos := make([]domain.OfferDTO, len(offers))
	for i, offer := range offers {
		dtos[i] = mapper.ToOfferDTO(&offer)
	}
	return dtos, nil
}
