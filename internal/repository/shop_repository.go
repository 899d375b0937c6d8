package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketgrid/orders-api/internal/domain"
	"gorm.io/gorm"
)

type ShopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) *ShopRepository {
	return &ShopRepository{db: db}
}

func (r *ShopRepository) Create(ctx context.Context, shop *domain.Shop) error {
	return r.db.WithContext(ctx).Create(shop).Error
}

func (r *ShopRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	var shop domain.Shop
	err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// ListActive returns active shops ordered by name. Buyers never see
// deactivated storefronts.
func (r *ShopRepository) ListActive(ctx context.Context) ([]domain.Shop, error) {
	var shops []domain.Shop
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name").
		Find(&shops).Error
	return shops, err
}
