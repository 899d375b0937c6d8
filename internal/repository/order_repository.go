package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/marketgrid/orders-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// withItems preloads everything the order serializer renders: line items
// with their offers, products, shops, parameters, and the delivery contact.
func (r *OrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.created_at")
		}).
		Preload("Items.Offer.Product.Category").
		Preload("Items.Offer.Shop").
		Preload("Items.Offer.Parameters.Parameter").
		Preload("Contact")
}

// GetOrCreateBasket returns the user's live basket, creating it if
// absent. The insert tolerates conflicts on the one-basket-per-user
// partial unique index, so two concurrent first touches converge on a
// single row.
func (r *OrderRepository) GetOrCreateBasket(ctx context.Context, userID uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		First(&order, "user_id = ? AND status = ?", userID, domain.OrderStatusBasket).Error
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	basket := &domain.Order{
		UserID: userID,
		Status: domain.OrderStatusBasket,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(basket).Error; err != nil {
		return nil, err
	}

	// Re-read: on conflict the insert was a no-op and another request's
	// basket is the winner.
	err = r.db.WithContext(ctx).
		First(&order, "user_id = ? AND status = ?", userID, domain.OrderStatusBasket).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetBasketWithItems get-or-creates the basket and loads it fully
func (r *OrderRepository) GetBasketWithItems(ctx context.Context, userID uuid.UUID) (*domain.Order, error) {
	basket, err := r.GetOrCreateBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	var order domain.Order
	err = r.withItems(ctx).First(&order, "id = ?", basket.ID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOwnedBasket returns the order only if it belongs to the user and is
// still in basket status, with items loaded.
func (r *OrderRepository) GetOwnedBasket(ctx context.Context, orderID, userID uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := r.withItems(ctx).
		First(&order, "id = ? AND user_id = ? AND status = ?",
			orderID, userID, domain.OrderStatusBasket).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOwned returns the user's order in any status, with items loaded
func (r *OrderRepository) GetOwned(ctx context.Context, orderID, userID uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := r.withItems(ctx).
		First(&order, "id = ? AND user_id = ?", orderID, userID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByID reloads an order with items (post-confirmation reads)
func (r *OrderRepository) GetByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := r.withItems(ctx).First(&order, "id = ?", orderID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListNonBasket returns the user's placed orders, newest first
func (r *OrderRepository) ListNonBasket(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.withItems(ctx).
		Where("user_id = ? AND status <> ?", userID, domain.OrderStatusBasket).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// Item operations

func (r *OrderRepository) CreateItem(ctx context.Context, item *domain.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *OrderRepository) UpdateItem(ctx context.Context, item *domain.OrderItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// GetItemByOrderAndOffer returns the existing line for (order, offer),
// or gorm.ErrRecordNotFound.
func (r *OrderRepository) GetItemByOrderAndOffer(ctx context.Context, orderID, offerID uuid.UUID) (*domain.OrderItem, error) {
	var item domain.OrderItem
	err := r.db.WithContext(ctx).
		First(&item, "order_id = ? AND product_info_id = ?", orderID, offerID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetOwnedBasketItem returns the item only when it sits in one of the
// user's basket-status orders, with the offer loaded for stock checks.
func (r *OrderRepository) GetOwnedBasketItem(ctx context.Context, itemID, userID uuid.UUID) (*domain.OrderItem, error) {
	var item domain.OrderItem
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ?", userID, domain.OrderStatusBasket).
		Preload("Offer").
		First(&item, "order_items.id = ?", itemID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteOwnedItem removes the item if it belongs to one of the user's
// baskets; reports whether a row was deleted.
func (r *OrderRepository) DeleteOwnedItem(ctx context.Context, itemID, userID uuid.UUID) (bool, error) {
	ownedBaskets := r.db.Model(&domain.Order{}).
		Select("id").
		Where("user_id = ? AND status = ?", userID, domain.OrderStatusBasket)

	result := r.db.WithContext(ctx).
		Where("id = ? AND order_id IN (?)", itemID, ownedBaskets).
		Delete(&domain.OrderItem{})
	return result.RowsAffected > 0, result.Error
}

// DeleteStaleEmptyBaskets drops basket orders with no items that have
// not been touched since the cutoff. They are recreated lazily on next
// access, so this is safe housekeeping.
func (r *OrderRepository) DeleteStaleEmptyBaskets(ctx context.Context, cutoff time.Time) (int64, error) {
	itemCount := r.db.Model(&domain.OrderItem{}).
		Select("count(1)").
		Where("order_items.order_id = orders.id")

	result := r.db.WithContext(ctx).
		Where("status = ?", domain.OrderStatusBasket).
		Where("updated_at < ?", cutoff).
		Where("(?) = 0", itemCount).
		Delete(&domain.Order{})
	return result.RowsAffected, result.Error
}
