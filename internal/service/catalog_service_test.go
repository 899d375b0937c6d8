package service_test

import (
	"context"
	"testing"

	"github.com/marketgrid/orders-api/internal/domain"
	"github.com/marketgrid/orders-api/internal/repository"
	"github.com/marketgrid/orders-api/internal/service"
	"github.com/marketgrid/orders-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newCatalogService(db *gorm.DB) *service.CatalogService {
	return service.NewCatalogService(
		repository.NewShopRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewOfferRepository(db),
		zap.NewNop())
}

func TestCatalogService_ListShops_HidesInactive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newCatalogService(db)
	testutil.CreateTestShop(t, db, "alpha")
	closed := testutil.CreateTestShop(t, db, "closed")
	require.NoError(t, db.Model(closed).Update("active", false).Error)
	ctx := context.Background()

	shops, err := svc.ListShops(ctx)
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, "alpha", shops[0].Name)
}

func TestCatalogService_ListCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newCatalogService(db)
	testutil.CreateTestCategory(t, db, "laptops")
	testutil.CreateTestCategory(t, db, "phones")
	ctx := context.Background()

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}

func TestCatalogService_ListOffers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newCatalogService(db)
	widget := testutil.SellableOffer(t, db, "widget", 10, "25.00")
	gadget := testutil.SellableOffer(t, db, "gadget", 5, "5.00")
	ctx := context.Background()

	offers, err := svc.ListOffers(ctx, &repository.OfferFilters{})
	require.NoError(t, err)
	assert.Len(t, offers, 2)

	t.Run("filter by shop", func(t *testing.T) {
		offers, err := svc.ListOffers(ctx, &repository.OfferFilters{ShopID: &widget.ShopID})
		require.NoError(t, err)
		require.Len(t, offers, 1)
		assert.Equal(t, "widget", offers[0].Name)
	})

	t.Run("filter by category", func(t *testing.T) {
		var product domain.Product
		require.NoError(t, db.First(&product, "id = ?", gadget.ProductID).Error)
		offers, err := svc.ListOffers(ctx, &repository.OfferFilters{CategoryID: &product.CategoryID})
		require.NoError(t, err)
		require.Len(t, offers, 1)
		assert.Equal(t, "gadget", offers[0].Name)
	})

	t.Run("inactive shop hides its offers", func(t *testing.T) {
		require.NoError(t, db.Exec("UPDATE shops SET active = ? WHERE id = ?", false, gadget.ShopID).Error)
		offers, err := svc.ListOffers(ctx, &repository.OfferFilters{})
		require.NoError(t, err)
		require.Len(t, offers, 1)
		assert.Equal(t, "widget", offers[0].Name)
	})
}
