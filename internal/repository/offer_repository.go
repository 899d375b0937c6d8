package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketgrid/orders-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) Create(ctx context.Context, offer *domain.Offer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *OfferRepository) Update(ctx context.Context, offer *domain.Offer) error {
	return r.db.WithContext(ctx).Save(offer).Error
}

// OfferFilters holds the catalog listing filters
type OfferFilters struct {
	ShopID     *uuid.UUID
	CategoryID *uuid.UUID
}

// ListActive returns offers from active shops with product, shop and
// parameter data preloaded, optionally filtered by shop and category.
func (r *OfferRepository) ListActive(ctx context.Context, filters *OfferFilters) ([]domain.Offer, error) {
	var offers []domain.Offer

	query := r.db.WithContext(ctx).
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Where("shops.active = ?", true).
		Where("product_infos.active = ?", true)

	if filters != nil {
		if filters.ShopID != nil {
			query = query.Where("product_infos.shop_id = ?", *filters.ShopID)
		}
		if filters.CategoryID != nil {
			query = query.
				Joins("JOIN products ON products.id = product_infos.product_id").
				Where("products.category_id = ?", *filters.CategoryID)
		}
	}

	err := query.
		Preload("Product.Category").
		Preload("Shop").
		Preload("Parameters.Parameter").
		Order("product_infos.name").
		Find(&offers).Error

	return offers, err
}

// GetSellable returns the offer only if it exists, is active and belongs
// to an active shop. gorm.ErrRecordNotFound otherwise.
func (r *OfferRepository) GetSellable(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	var offer domain.Offer
	err := r.db.WithContext(ctx).
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Where("shops.active = ?", true).
		Where("product_infos.active = ?", true).
		Preload("Product").
		Preload("Shop").
		First(&offer, "product_infos.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// GetSellableForUpdate is GetSellable with a row lock, for use inside a
// transaction so that concurrent basket writes against the same offer
// serialize on the stock check. The lock clause is postgres-only; the
// sqlite test databases run the same transaction unlocked.
func (r *OfferRepository) GetSellableForUpdate(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	query := r.db.WithContext(ctx)
	if query.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "product_infos"}})
	}

	var offer domain.Offer
	err := query.
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Where("shops.active = ?", true).
		Where("product_infos.active = ?", true).
		First(&offer, "product_infos.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}
