package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/marketgrid/orders-api/internal/domain"
	"github.com/marketgrid/orders-api/internal/mapper"
	"github.com/marketgrid/orders-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BasketService manages the per-user live basket. Every user has at most
// one basket; it is created lazily on first access and survives until
// confirmed into an order. Stock ceilings are enforced under a row lock
// so concurrent writes against the same offer serialize.
type BasketService struct {
	db        *gorm.DB
	orderRepo *repository.OrderRepository
	logger    *zap.Logger
}

func NewBasketService(db *gorm.DB, orderRepo *repository.OrderRepository, logger *zap.Logger) *BasketService {
	return &BasketService{
		db:        db,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// GetBasket returns the user's basket, creating an empty one if absent
func (s *BasketService) GetBasket(ctx context.Context, userID uuid.UUID) (*domain.OrderDTO, error) {
	basket, err := s.orderRepo.GetBasketWithItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load basket: %w", err)
	}

	dto := mapper.ToOrderDTO(basket)
	return &dto, nil
}

// AddItem puts an offer into the basket. Adding an offer that is already
// in the basket merges quantities onto the existing line. The merged
// quantity may not exceed the offer's stock.
func (s *BasketService) AddItem(ctx context.Context, userID uuid.UUID, req *domain.AddBasketItemRequest) (*domain.OrderDTO, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderRepo := repository.NewOrderRepository(tx)
		offerRepo := repository.NewOfferRepository(tx)

		basket, err := orderRepo.GetOrCreateBasket(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get basket: %w", err)
		}

		offer, err := offerRepo.GetSellableForUpdate(ctx, req.OfferID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOfferNotFound
			}
			return fmt.Errorf("failed to load offer: %w", err)
		}

		item, err := orderRepo.GetItemByOrderAndOffer(ctx, basket.ID, offer.ID)
		switch {
		case err == nil:
			merged := item.Quantity + req.Quantity
			if merged > offer.Quantity {
				return ErrStockExceeded
			}
			item.Quantity = merged
			if err := orderRepo.UpdateItem(ctx, item); err != nil {
				return fmt.Errorf("failed to update basket item: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if req.Quantity > offer.Quantity {
				return ErrStockExceeded
			}
			item = &domain.OrderItem{
				OrderID:  basket.ID,
				OfferID:  offer.ID,
				Quantity: req.Quantity,
			}
			if err := orderRepo.CreateItem(ctx, item); err != nil {
				return fmt.Errorf("failed to create basket item: %w", err)
			}
		default:
			return fmt.Errorf("failed to look up basket item: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetBasket(ctx, userID)
}

// UpdateItem replaces the quantity on an existing basket line
func (s *BasketService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req *domain.UpdateBasketItemRequest) (*domain.OrderDTO, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderRepo := repository.NewOrderRepository(tx)
		offerRepo := repository.NewOfferRepository(tx)

		item, err := orderRepo.GetOwnedBasketItem(ctx, itemID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load basket item: %w", err)
		}

		offer, err := offerRepo.GetSellableForUpdate(ctx, item.OfferID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOfferNotFound
			}
			return fmt.Errorf("failed to load offer: %w", err)
		}

		if req.Quantity > offer.Quantity {
			return ErrStockExceeded
		}

		item.Quantity = req.Quantity
		if err := orderRepo.UpdateItem(ctx, item); err != nil {
			return fmt.Errorf("failed to update basket item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetBasket(ctx, userID)
}

// RemoveItem deletes a basket line. Items the user does not own are
// reported as not found.
func (s *BasketService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.OrderDTO, error) {
	deleted, err := s.orderRepo.DeleteOwnedItem(ctx, itemID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete basket item: %w", err)
	}
	if !deleted {
		return nil, ErrNotFound
	}

	return s.GetBasket(ctx, userID)
}
