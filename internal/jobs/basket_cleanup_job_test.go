package jobs_test

import (
	"testing"
	"time"

	"github.com/marketgrid/orders-api/internal/config"
	"github.com/marketgrid/orders-api/internal/domain"
	"github.com/marketgrid/orders-api/internal/jobs"
	"github.com/marketgrid/orders-api/internal/repository"
	"github.com/marketgrid/orders-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func backdateOrder(t *testing.T, db *gorm.DB, orderID interface{}, age time.Duration) {
	stale := time.Now().UTC().Add(-age)
	require.NoError(t, db.Exec("UPDATE orders SET updated_at = ? WHERE id = ?", stale, orderID).Error)
}

func TestBasketCleanupJob_Run(t *testing.T) {
	db := testutil.SetupTestDB(t)
	orderRepo := repository.NewOrderRepository(db)
	cfg := &config.JobsConfig{
		BasketCleanupCron:       "0 3 * * *",
		BasketCleanupMaxAgeDays: 30,
		Enabled:                 true,
	}
	job := jobs.NewBasketCleanupJob(orderRepo, cfg, zap.NewNop())

	stale := testutil.CreateTestUser(t, db, "stale")
	fresh := testutil.CreateTestUser(t, db, "fresh")
	filled := testutil.CreateTestUser(t, db, "filled")
	offer := testutil.SellableOffer(t, db, "widget", 10, "25.00")

	staleBasket := &domain.Order{UserID: stale.ID, Status: domain.OrderStatusBasket}
	require.NoError(t, db.Create(staleBasket).Error)
	backdateOrder(t, db, staleBasket.ID, 60*24*time.Hour)

	freshBasket := &domain.Order{UserID: fresh.ID, Status: domain.OrderStatusBasket}
	require.NoError(t, db.Create(freshBasket).Error)

	// An old basket that still holds an item must survive
	filledBasket := &domain.Order{UserID: filled.ID, Status: domain.OrderStatusBasket}
	require.NoError(t, db.Create(filledBasket).Error)
	require.NoError(t, db.Create(&domain.OrderItem{
		OrderID:  filledBasket.ID,
		OfferID:  offer.ID,
		Quantity: 1,
	}).Error)
	backdateOrder(t, db, filledBasket.ID, 60*24*time.Hour)

	job.Run()

	var remaining []domain.Order
	require.NoError(t, db.Where("status = ?", domain.OrderStatusBasket).Find(&remaining).Error)
	require.Len(t, remaining, 2)
	ids := []interface{}{remaining[0].ID, remaining[1].ID}
	assert.Contains(t, ids, freshBasket.ID)
	assert.Contains(t, ids, filledBasket.ID)
}

func TestScheduler_AddAndRemove(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("noop", "@daily", func() {}))
	assert.Error(t, s.AddJob("noop", "@daily", func() {}), "duplicate names are rejected")
	assert.Error(t, s.AddJob("broken", "not a cron expr", func() {}))

	assert.Equal(t, []string{"noop"}, s.GetJobNames())

	require.NoError(t, s.RemoveJob("noop"))
	assert.Error(t, s.RemoveJob("noop"))
	assert.Empty(t, s.GetJobNames())
}
