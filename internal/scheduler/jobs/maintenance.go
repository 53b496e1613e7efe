package jobs

import (
	"context"

	"github.com/LNshuti/energy/pkg/logger"
)

// ExpiringCache is a cache whose stale entries can be purged
type ExpiringCache interface {
	CleanExpired() int
}

// CacheCleanupJob purges expired market data so memory tracks the live window
type CacheCleanupJob struct {
	cache    ExpiringCache
	schedule string
	logger   *logger.Logger
}

// NewCacheCleanupJob creates a new cache cleanup job
func NewCacheCleanupJob(cache ExpiringCache, schedule string, log *logger.Logger) *CacheCleanupJob {
	return &CacheCleanupJob{
		cache:    cache,
		schedule: schedule,
		logger:   log.WithField("job", "cache_cleanup"),
	}
}

// Name returns the job name
func (j *CacheCleanupJob) Name() string {
	return "cache_cleanup"
}

// Schedule returns the cron schedule
func (j *CacheCleanupJob) Schedule() string {
	return j.schedule
}

// Run executes the cache cleanup
func (j *CacheCleanupJob) Run(ctx context.Context) error {
	count := j.cache.CleanExpired()

	if count > 0 {
		j.logger.WithField("removed", count).Info("Cache cleanup completed")
	}

	return nil
}
