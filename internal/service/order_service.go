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

// OrderService turns baskets into placed orders and lists order history.
// Confirmation is a single transaction: ownership, state, contact and
// stock are all re-checked inside it, so a basket that was valid when
// the user looked at it can still be rejected here.
type OrderService struct {
	db            *gorm.DB
	orderRepo     *repository.OrderRepository
	userRepo      *repository.UserRepository
	notifications *NotificationService
	logger        *zap.Logger
}

func NewOrderService(
	db *gorm.DB,
	orderRepo *repository.OrderRepository,
	userRepo *repository.UserRepository,
	notifications *NotificationService,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		db:            db,
		orderRepo:     orderRepo,
		userRepo:      userRepo,
		notifications: notifications,
		logger:        logger,
	}
}

// Confirm places the basket as an order: attaches the delivery contact,
// re-validates stock under row locks and flips status to 'confirmed'.
// The confirmation email goes out after commit, fire-and-forget.
func (s *OrderService) Confirm(ctx context.Context, userID uuid.UUID, req *domain.ConfirmOrderRequest) (*domain.ConfirmOrderResponse, error) {
	var confirmed *domain.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderRepo := repository.NewOrderRepository(tx)
		offerRepo := repository.NewOfferRepository(tx)
		contactRepo := repository.NewContactRepository(tx)

		order, err := orderRepo.GetOwned(ctx, req.BasketID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load basket: %w", err)
		}
		if order.Status != domain.OrderStatusBasket {
			return ErrNotBasket
		}
		if len(order.Items) == 0 {
			return ErrEmptyBasket
		}

		contact, err := contactRepo.GetOwned(ctx, req.ContactID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContactNotFound
			}
			return fmt.Errorf("failed to load contact: %w", err)
		}

		// Final stock check. Stock may have moved since the items were
		// added; the whole confirmation fails if any line no longer fits.
		for _, item := range order.Items {
			offer, err := offerRepo.GetSellableForUpdate(ctx, item.OfferID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrOfferNotFound
				}
				return fmt.Errorf("failed to load offer: %w", err)
			}
			if item.Quantity > offer.Quantity {
				return ErrStockExceeded
			}
		}

		order.ContactID = &contact.ID
		order.Status = domain.OrderStatusConfirmed
		if err := orderRepo.Update(ctx, order); err != nil {
			return fmt.Errorf("failed to confirm order: %w", err)
		}

		confirmed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reload outside the transaction so the response carries fresh
	// associations, then notify.
	order, err := s.orderRepo.GetByID(ctx, confirmed.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	if user, err := s.userRepo.GetByID(ctx, userID); err != nil {
		s.logger.Warn("Order confirmed but user lookup for email failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	} else {
		s.notifications.SendOrderConfirmation(user, order)
	}

	s.logger.Info("Order confirmed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("items", len(order.Items)))

	return &domain.ConfirmOrderResponse{
		Status:   true,
		Message:  "Order confirmed",
		OrderID:  order.ID,
		TotalSum: order.Total(),
	}, nil
}

// List returns the user's placed orders, newest first. The live basket
// is never part of order history.
func (s *OrderService) List(ctx context.Context, userID uuid.UUID) ([]domain.OrderDTO, error) {
	orders, err := s.orderRepo.ListNonBasket(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	dtos := make([]domain.OrderDTO, len(orders))
	for i, order := range orders {
		dtos[i] = mapper.ToOrderDTO(&order)
	}
	return dtos, nil
}

// Get returns one of the user's placed orders
func (s *OrderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*domain.OrderDTO, error) {
	order, err := s.orderRepo.GetOwned(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order.Status == domain.OrderStatusBasket {
		return nil, ErrNotFound
	}

	dto := mapper.ToOrderDTO(order)
	return &dto, nil
}
