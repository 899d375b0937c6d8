package jobs

import (
	"context"
	"time"

	"github.com/marketgrid/orders-api/internal/config"
	"github.com/marketgrid/orders-api/internal/repository"
	"go.uber.org/zap"
)

// BasketCleanupJob removes empty baskets that have not been touched for
// the configured age. Baskets are created lazily on first access, so
// deleting an abandoned empty one changes nothing the user can observe;
// baskets with items are never touched.
type BasketCleanupJob struct {
	orderRepo *repository.OrderRepository
	cfg       *config.JobsConfig
	logger    *zap.Logger
}

// NewBasketCleanupJob creates a new basket cleanup job
func NewBasketCleanupJob(orderRepo *repository.OrderRepository, cfg *config.JobsConfig, logger *zap.Logger) *BasketCleanupJob {
	return &BasketCleanupJob{
		orderRepo: orderRepo,
		cfg:       cfg,
		logger:    logger,
	}
}

const cleanupTimeout = 5 * time.Minute

// Run executes one cleanup pass
func (j *BasketCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	cutoff := time.Now().UTC().Add(-j.cfg.BasketCleanupMaxAge())

	deleted, err := j.orderRepo.DeleteStaleEmptyBaskets(ctx, cutoff)
	if err != nil {
		j.logger.Error("basket cleanup failed", zap.Error(err))
		return
	}

	j.logger.Info("basket cleanup finished",
		zap.Int64("deleted", deleted),
		zap.Time("cutoff", cutoff))
}

// Register schedules the job on the scheduler
func (j *BasketCleanupJob) Register(s *Scheduler) error {
	return s.AddJob("basket-cleanup", j.cfg.BasketCleanupCron, j.Run)
}
