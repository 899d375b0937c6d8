package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/marketgrid/orders-api/internal/domain"
	"github.com/marketgrid/orders-api/internal/repository"
	"github.com/marketgrid/orders-api/internal/service"
	"github.com/marketgrid/orders-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newBasketService(db *gorm.DB) *service.BasketService {
	return service.NewBasketService(db, repository.NewOrderRepository(db), zap.NewNop())
}

func TestBasketService_GetBasket_CreatesLazily(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newBasketService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	ctx := context.Background()

	basket, err := svc.GetBasket(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusBasket, basket.Status)
	assert.Empty(t, basket.Items)
	assert.True(t, basket.TotalSum.IsZero())

	// Second read returns the same basket, not a new one
	again, err := svc.GetBasket(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, basket.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&domain.Order{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestBasketService_AddItem(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newBasketService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	offer := testutil.SellableOffer(t, db, "widget", 10, "25.00")
	ctx := context.Background()

	basket, err := svc.AddItem(ctx, user.ID, &domain.AddBasketItemRequest{
		OfferID:  offer.ID,
		Quantity: 3,
	})
	require.NoError(t, err)
	require.Len(t, basket.Items, 1)
	assert.Equal(t, 3, basket.Items[0].Quantity)
	assert.Equal(t, "75", basket.TotalSum.String())
}

func TestBasketService_AddItem_MergesQuantities(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newBasketService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	offer := testutil.SellableOffer(t, db, "widget", 10, "25.00")
	ctx := context.Background()

	_, err := svc.AddItem(ctx, user.ID, &domain.AddBasketItemRequest{OfferID: offer.ID, Quantity: 3})
	require.NoError(t, err)

	basket, err := svc.AddItem(ctx, user.ID, &domain.AddBasketItemRequest{OfferID: offer.ID, Quantity: 4})
	require.NoError(t, err)

	// One line, merged quantity, no duplicate
	require.Len(t, basket.Items, 1)
	assert.Equal(t, 7, basket.Items[0].Quantity)
}

func TestBasketService_AddItem_StockCeiling(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newBasketService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	offer := testutil.SellableOffer(t, db, "widget", 5, "25.00")
	ctx := context.Background()

	_, err := svc.AddItem(ctx, user.ID, &domain.AddBasketItemRequest{OfferID: offer.ID, Quantity: 6})
	assert.ErrorIs(t, err, service.ErrStockExceeded)

	// Merge that would cross the ceiling also fails, leaving the line intact
	_, err = svc.AddItem(ctx, user.ID, &domain.AddBasketItemRequest{OfferID: offer.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, user.ID, &domain.AddBasketItemRequest{OfferID: offer.ID, Quantity: 3})
	assert.ErrorIs(t, err, service.ErrStockExceeded)

	basket, err := svc.GetBasket(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, basket.Items, 1)
	assert.Equal(t, 3, basket.Items[0].Quantity)
}

func TestBasketService_AddItem_UnknownOffer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newBasketService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	ctx := context.Background()

	_, err := svc.AddItem(ctx, user.ID, &domain.AddBasketItemRequest{OfferID: uuid.New(), Quantity: 1})
	assert.ErrorIs(t, err, service.ErrOfferNotFound)
}

func TestBasketService_AddItem_InactiveShop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newBasketService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	offer := testutil.SellableOffer(t, db, "widget", 10, "25.00")
	require.NoError(t, db.Model(&domain.Shop{}).Where("id = ?", offer.ShopID).Update("active", false).Error)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, user.ID, &domain.AddBasketItemRequest{OfferID: offer.ID, Quantity: 1})
	assert.ErrorIs(t, err, service.ErrOfferNotFound)
}

func TestBasketService_UpdateItem(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newBasketService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	offer := testutil.SellableOffer(t, db, "widget", 10, "25.00")
	ctx := context.Background()

	basket, err := svc.AddItem(ctx, user.ID, &domain.AddBasketItemRequest{OfferID: offer.ID, Quantity: 3})
	require.NoError(t, err)
	itemID := basket.Items[0].ID

	updated, err := svc.UpdateItem(ctx, user.ID, itemID, &domain.UpdateBasketItemRequest{Quantity: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Items[0].Quantity)

	// Quantity replaces, it never merges
	updated, err = svc.UpdateItem(ctx, user.ID, itemID, &domain.UpdateBasketItemRequest{Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Items[0].Quantity)

	_, err = svc.UpdateItem(ctx, user.ID, itemID, &domain.UpdateBasketItemRequest{Quantity: 11})
	assert.ErrorIs(t, err, service.ErrStockExceeded)
}

func TestBasketService_UpdateItem_NotOwned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newBasketService(db)
	alice := testutil.CreateTestUser(t, db, "alice")
	mallory := testutil.CreateTestUser(t, db, "mallory")
	offer := testutil.SellableOffer(t, db, "widget", 10, "25.00")
	ctx := context.Background()

	basket, err := svc.AddItem(ctx, alice.ID, &domain.AddBasketItemRequest{OfferID: offer.ID, Quantity: 3})
	require.NoError(t, err)

	// Someone else's item behaves as missing
	_, err = svc.UpdateItem(ctx, mallory.ID, basket.Items[0].ID, &domain.UpdateBasketItemRequest{Quantity: 1})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestBasketService_RemoveItem(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newBasketService(db)
	user := testutil.CreateTestUser(t, db, "alice")
	offer := testutil.SellableOffer(t, db, "widget", 10, "25.00")
	ctx := context.Background()

	basket, err := svc.AddItem(ctx, user.ID, &domain.AddBasketItemRequest{OfferID: offer.ID, Quantity: 3})
	require.NoError(t, err)

	emptied, err := svc.RemoveItem(ctx, user.ID, basket.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, emptied.Items)
	assert.True(t, emptied.TotalSum.IsZero())

	// Removing again reports not found
	_, err = svc.RemoveItem(ctx, user.ID, basket.Items[0].ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
