package scheduler

import (
	"time"

	"github.com/dchukwu/shoplane-backend/internal/app/service"
	"github.com/dchukwu/shoplane-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CartCleanupScheduler purges abandoned anonymous carts on a schedule
type CartCleanupScheduler struct {
	cron        *cron.Cron
	cartService service.CartService
	retention   time.Duration
}

func NewCartCleanupScheduler(cartService service.CartService, retention time.Duration) *CartCleanupScheduler {
	return &CartCleanupScheduler{
		cron:        cron.New(),
		cartService: cartService,
		retention:   retention,
	}
}

// Start schedules the purge to run daily at 3:00 AM
func (s *CartCleanupScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled cart cleanup", map[string]interface{}{
			"retention": s.retention.String(),
		})

		deleted, err := s.cartService.PurgeStaleCarts(s.retention)
		if err != nil {
			logger.Error("Failed to purge stale carts from scheduler", err)
			return
		}

		logger.Info("Scheduled cart cleanup finished", map[string]interface{}{
			"deleted": deleted,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for cart cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart cleanup scheduler started (daily at 3:00 AM)", nil)
	return nil
}

// Stop stops the scheduler
func (s *CartCleanupScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Cart cleanup scheduler stopped", nil)
}
