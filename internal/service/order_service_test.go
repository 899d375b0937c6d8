package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/marketgrid/orders-api/internal/domain"
	"github.com/marketgrid/orders-api/internal/mail"
	"github.com/marketgrid/orders-api/internal/repository"
	"github.com/marketgrid/orders-api/internal/service"
	"github.com/marketgrid/orders-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newOrderService(db *gorm.DB) *service.OrderService {
	log := zap.NewNop()
	notifications := service.NewNotificationService(mail.NewLogMailer(log), "http://localhost:3000", log)
	return service.NewOrderService(db,
		repository.NewOrderRepository(db),
		repository.NewUserRepository(db),
		notifications,
		log)
}

// filledBasket puts quantity of the offer into the user's basket and
// returns the basket ID.
func filledBasket(t *testing.T, db *gorm.DB, userID uuid.UUID, offerID uuid.UUID, quantity int) uuid.UUID {
	svc := newBasketService(db)
	basket, err := svc.AddItem(context.Background(), userID, &domain.AddBasketItemRequest{
		OfferID:  offerID,
		Quantity: quantity,
	})
	require.NoError(t, err)
	return basket.ID
}

func TestOrderService_Confirm(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOrderService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	contact := testutil.CreateTestContact(t, db, user)
	offer := testutil.SellableOffer(t, db, "widget", 10, "25.00")
	basketID := filledBasket(t, db, user.ID, offer.ID, 3)
	ctx := context.Background()

	resp, err := svc.Confirm(ctx, user.ID, &domain.ConfirmOrderRequest{
		BasketID:  basketID,
		ContactID: contact.ID,
	})
	require.NoError(t, err)
	assert.True(t, resp.Status)
	assert.Equal(t, basketID, resp.OrderID)
	assert.Equal(t, "75", resp.TotalSum.String())

	// The confirmed order left basket status and carries the contact
	order, err := svc.Get(ctx, user.ID, basketID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	require.NotNil(t, order.Contact)
	assert.Equal(t, contact.ID, order.Contact.ID)

	// A fresh empty basket appears on next access
	basket, err := newBasketService(db).GetBasket(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, basketID, basket.ID)
	assert.Empty(t, basket.Items)
}

func TestOrderService_Confirm_EmptyBasket(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOrderService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	contact := testutil.CreateTestContact(t, db, user)
	ctx := context.Background()

	basket, err := newBasketService(db).GetBasket(ctx, user.ID)
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, user.ID, &domain.ConfirmOrderRequest{
		BasketID:  basket.ID,
		ContactID: contact.ID,
	})
	assert.ErrorIs(t, err, service.ErrEmptyBasket)
}

func TestOrderService_Confirm_AlreadyConfirmed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOrderService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	contact := testutil.CreateTestContact(t, db, user)
	offer := testutil.SellableOffer(t, db, "widget", 10, "25.00")
	basketID := filledBasket(t, db, user.ID, offer.ID, 2)
	ctx := context.Background()

	req := &domain.ConfirmOrderRequest{BasketID: basketID, ContactID: contact.ID}
	_, err := svc.Confirm(ctx, user.ID, req)
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, user.ID, req)
	assert.ErrorIs(t, err, service.ErrNotBasket)
}

func TestOrderService_Confirm_ForeignContact(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOrderService(db)
	alice := testutil.CreateTestUser(t, db, "alice")
	bob := testutil.CreateTestUser(t, db, "bob")
	bobContact := testutil.CreateTestContact(t, db, bob)
	offer := testutil.SellableOffer(t, db, "widget", 10, "25.00")
	basketID := filledBasket(t, db, alice.ID, offer.ID, 2)
	ctx := context.Background()

	_, err := svc.Confirm(ctx, alice.ID, &domain.ConfirmOrderRequest{
		BasketID:  basketID,
		ContactID: bobContact.ID,
	})
	assert.ErrorIs(t, err, service.ErrContactNotFound)
}

func TestOrderService_Confirm_ForeignBasket(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOrderService(db)
	alice := testutil.CreateTestUser(t, db, "alice")
	bob := testutil.CreateTestUser(t, db, "bob")
	bobContact := testutil.CreateTestContact(t, db, bob)
	offer := testutil.SellableOffer(t, db, "widget", 10, "25.00")
	aliceBasket := filledBasket(t, db, alice.ID, offer.ID, 2)
	ctx := context.Background()

	_, err := svc.Confirm(ctx, bob.ID, &domain.ConfirmOrderRequest{
		BasketID:  aliceBasket,
		ContactID: bobContact.ID,
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestOrderService_Confirm_StockDropped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOrderService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	contact := testutil.CreateTestContact(t, db, user)
	offer := testutil.SellableOffer(t, db, "widget", 10, "25.00")
	basketID := filledBasket(t, db, user.ID, offer.ID, 8)
	ctx := context.Background()

	// Stock moved between adding and confirming
	require.NoError(t, db.Model(&domain.Offer{}).Where("id = ?", offer.ID).Update("quantity", 5).Error)

	_, err := svc.Confirm(ctx, user.ID, &domain.ConfirmOrderRequest{
		BasketID:  basketID,
		ContactID: contact.ID,
	})
	assert.ErrorIs(t, err, service.ErrStockExceeded)

	// The basket survives the failed confirmation untouched
	basket, err := newBasketService(db).GetBasket(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, basketID, basket.ID)
	require.Len(t, basket.Items, 1)
	assert.Equal(t, 8, basket.Items[0].Quantity)
}

func TestOrderService_TotalFollowsCurrentPrice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOrderService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	contact := testutil.CreateTestContact(t, db, user)
	offer := testutil.SellableOffer(t, db, "widget", 10, "25.00")
	basketID := filledBasket(t, db, user.ID, offer.ID, 2)
	ctx := context.Background()

	_, err := svc.Confirm(ctx, user.ID, &domain.ConfirmOrderRequest{
		BasketID:  basketID,
		ContactID: contact.ID,
	})
	require.NoError(t, err)

	// Price changes after confirmation; totals are always recomputed
	// from the current offer price, never cached.
	require.NoError(t, db.Model(&domain.Offer{}).Where("id = ?", offer.ID).Update("price", "30.00").Error)

	order, err := svc.Get(ctx, user.ID, basketID)
	require.NoError(t, err)
	assert.Equal(t, "60", order.TotalSum.String())
}

func TestOrderService_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOrderService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	contact := testutil.CreateTestContact(t, db, user)
	first := testutil.SellableOffer(t, db, "widget", 10, "25.00")
	second := testutil.SellableOffer(t, db, "gadget", 10, "5.00")
	ctx := context.Background()

	firstBasket := filledBasket(t, db, user.ID, first.ID, 1)
	_, err := svc.Confirm(ctx, user.ID, &domain.ConfirmOrderRequest{BasketID: firstBasket, ContactID: contact.ID})
	require.NoError(t, err)

	secondBasket := filledBasket(t, db, user.ID, second.ID, 2)
	_, err = svc.Confirm(ctx, user.ID, &domain.ConfirmOrderRequest{BasketID: secondBasket, ContactID: contact.ID})
	require.NoError(t, err)

	// A live basket must never leak into order history
	_ = filledBasket(t, db, user.ID, first.ID, 1)

	orders, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.NotEqual(t, domain.OrderStatusBasket, o.Status)
	}
}

func TestOrderService_Get_HidesBasket(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOrderService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	offer := testutil.SellableOffer(t, db, "widget", 10, "25.00")
	basketID := filledBasket(t, db, user.ID, offer.ID, 1)
	ctx := context.Background()

	_, err := svc.Get(ctx, user.ID, basketID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
