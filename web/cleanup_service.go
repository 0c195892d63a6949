package web

import (
	"context"
	"time"

	"go.uber.org/zap"

	"faq-bot/config"
	"faq-bot/database"
)

// CleanupService removes aged response-cache rows. This is maintenance only:
// the TTL check at lookup time never depends on the sweep having run.
type CleanupService struct {
	store  *database.PostgresStore
	logger *zap.Logger
}

// NewCleanupService creates a new cleanup service instance
func NewCleanupService(store *database.PostgresStore, logger *zap.Logger) *CleanupService {
	return &CleanupService{
		store:  store,
		logger: logger,
	}
}

// CleanupExpiredCache deletes cache entries older than the retention window
// and returns how many were removed.
func (cs *CleanupService) CleanupExpiredCache(ctx context.Context, retention time.Duration) (int64, error) {
	deleted, err := cs.store.CleanupExpiredCache(ctx, retention)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		cs.logger.Info("Expired cache entries removed",
			zap.Int64("deleted", deleted),
			zap.Duration("retention", retention))
	}
	return deleted, nil
}

// StartCacheCleanup runs the cache sweep on the configured interval until the
// context is cancelled. Intended to run as a background goroutine from main.
func StartCacheCleanup(ctx context.Context, cfg *config.Config, cleanupService *CleanupService, logger *zap.Logger) {
	if !cfg.CleanupEnabled {
		logger.Info("Cache cleanup disabled by configuration")
		return
	}

	logger.Info("Starting cache cleanup routine",
		zap.Duration("interval", cfg.CleanupInterval),
		zap.Duration("retention", cfg.CacheRetentionHours))

	ticker := time.NewTicker(cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := cleanupService.CleanupExpiredCache(ctx, cfg.CacheRetentionHours); err != nil {
				logger.Error("Cache cleanup failed", zap.Error(err))
			}
		case <-ctx.Done():
			logger.Info("Stopping cache cleanup routine")
			return
		}
	}
}
