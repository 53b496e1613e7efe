package commands

import (
	"context"
	"fmt"

	"github.com/LNshuti/energy/internal/external/yahoo"
	"github.com/LNshuti/energy/internal/gallery"
	"github.com/LNshuti/energy/internal/marketdata"
	"github.com/LNshuti/energy/internal/reference"
	"github.com/LNshuti/energy/internal/render"
	"github.com/LNshuti/energy/internal/scheduler"
	"github.com/LNshuti/energy/internal/scheduler/jobs"
	"github.com/LNshuti/energy/pkg/config"
	"github.com/LNshuti/energy/pkg/httputil"
	"github.com/LNshuti/energy/pkg/logger"
	"github.com/LNshuti/energy/pkg/metrics"
	"github.com/LNshuti/energy/pkg/redis"
)

// app holds the wired components shared by every command
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	redis     *redis.Client
	metrics   *metrics.Metrics
	directory *reference.Directory
	cache     *marketdata.Cache
	gallery   *gallery.Service
}

// newApp wires data source, cache, renderer and gallery from config
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	rdb, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	httpClient := httputil.New(cfg, log)
	if rdb.Enabled() {
		limit := redis.YahooRateLimit
		if cfg.Yahoo.RatePerSec > 0 {
			limit.Limit = cfg.Yahoo.RatePerSec
		}
		httpClient.WithRateLimiter(redis.NewRateLimiter(rdb, "energy"), limit)
		log.Info("Using shared Redis rate limiter for Yahoo Finance")
	}

	yahooClient := yahoo.NewClient(httpClient, cfg.Yahoo, log)

	cache := marketdata.NewCache(yahooClient, yahooClient, marketdata.Config{
		TTL:        cfg.Cache.TTL,
		MaxEntries: cfg.Cache.MaxEntries,
	}, log, marketdata.WithMetrics(m))

	directory := reference.Default()
	renderer := render.NewPlotRenderer(cfg.Chart, log)

	service := gallery.NewService(directory, cache, renderer, gallery.Config{
		MaxCompanies: cfg.Gallery.MaxCompanies,
		Workers:      cfg.Gallery.Workers,
		HistoryStart: cfg.Gallery.HistoryStart,
	}, log, gallery.WithMetrics(m))

	return &app{
		cfg:       cfg,
		log:       log,
		redis:     rdb,
		metrics:   m,
		directory: directory,
		cache:     cache,
		gallery:   service,
	}, nil
}

// newScheduler registers the cache maintenance jobs
func (a *app) newScheduler() (*scheduler.Scheduler, error) {
	s := scheduler.New(a.log)

	if err := s.AddJob(jobs.NewCacheCleanupJob(a.cache, a.cfg.Scheduler.CacheCleanup, a.log)); err != nil {
		return nil, err
	}

	if len(a.cfg.Scheduler.WarmCompanies) > 0 {
		for _, name := range a.cfg.Scheduler.WarmCompanies {
			if _, err := a.directory.Ticker(name); err != nil {
				return nil, fmt.Errorf("WARM_COMPANIES: %w", err)
			}
		}
		warm := jobs.NewCacheWarmJob(a.directory, a.cache, a.cfg.Scheduler.WarmCompanies,
			a.cfg.Gallery.HistoryStart, a.cfg.Scheduler.WarmSchedule, a.log)
		if err := s.AddJob(warm); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Close releases external connections
func (a *app) Close() error {
	return a.redis.Close()
}
