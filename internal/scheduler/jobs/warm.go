package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/LNshuti/energy/internal/marketdata"
	"github.com/LNshuti/energy/pkg/logger"
)

// TickerLookup maps display names to tickers
type TickerLookup interface {
	Ticker(name string) (string, error)
}

// Resolver loads a history window into the cache
type Resolver interface {
	Resolve(ctx context.Context, ticker string, start, end time.Time) marketdata.Resolution
}

// CacheWarmJob pre-fetches the history window for frequently viewed
// companies after the close, so the first request of the day is a hit.
type CacheWarmJob struct {
	directory    TickerLookup
	resolver     Resolver
	companies    []string
	historyStart time.Time
	schedule     string
	now          func() time.Time
	logger       *logger.Logger
}

// NewCacheWarmJob creates a new cache warm-up job
func NewCacheWarmJob(directory TickerLookup, resolver Resolver, companies []string, historyStart time.Time, schedule string, log *logger.Logger) *CacheWarmJob {
	return &CacheWarmJob{
		directory:    directory,
		resolver:     resolver,
		companies:    companies,
		historyStart: historyStart,
		schedule:     schedule,
		now:          time.Now,
		logger:       log.WithField("job", "cache_warm"),
	}
}

// Name returns the job name
func (j *CacheWarmJob) Name() string {
	return "cache_warm"
}

// Schedule returns the cron schedule
func (j *CacheWarmJob) Schedule() string {
	return j.schedule
}

// Run resolves every configured company; a company without data is logged, not fatal
func (j *CacheWarmJob) Run(ctx context.Context) error {
	end := j.now()
	warmed, missing := 0, 0

	for _, company := range j.companies {
		if err := ctx.Err(); err != nil {
			return err
		}

		ticker, err := j.directory.Ticker(company)
		if err != nil {
			return fmt.Errorf("warm %s: %w", company, err)
		}

		if j.resolver.Resolve(ctx, ticker, j.historyStart, end).Available() {
			warmed++
		} else {
			missing++
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"warmed":  warmed,
		"missing": missing,
	}).Info("Cache warm-up completed")

	return nil
}
