// Package gallery turns a company/indicator selection into rendered charts.
package gallery

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/LNshuti/energy/internal/contracts"
	"github.com/LNshuti/energy/internal/indicators"
	"github.com/LNshuti/energy/internal/marketdata"
	"github.com/LNshuti/energy/pkg/logger"
	"github.com/LNshuti/energy/pkg/metrics"
)

// TickerLookup maps display names to tickers
type TickerLookup interface {
	Ticker(name string) (string, error)
}

// Resolver supplies price data; absence is a value, not an error
type Resolver interface {
	Resolve(ctx context.Context, ticker string, start, end time.Time) marketdata.Resolution
}

// Config holds orchestration limits
type Config struct {
	MaxCompanies int
	Workers      int
	HistoryStart time.Time
}

// Result is what one request produces
type Result struct {
	Images         []contracts.Image
	ErrorMessage   string
	TotalMarketCap decimal.NullDecimal
}

// Summary formats the total for display
func (r Result) Summary() string {
	if !r.TotalMarketCap.Valid || r.TotalMarketCap.Decimal.IsZero() {
		return "N/A"
	}
	return fmt.Sprintf("Total Market Cap: $%s Billion", r.TotalMarketCap.Decimal.StringFixed(2))
}

// SelectAllIndicators maps the select-all toggle to an indicator list
func SelectAllIndicators(selectAll bool) []string {
	if !selectAll {
		return []string{}
	}
	return indicators.All()
}

// Option customizes a Service
type Option func(*Service)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMetrics records request outcomes and render latency
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// Service orchestrates fetch, compute and render for a selection
// ⭐ SSOT: selection rules and market cap aggregation live here only
type Service struct {
	directory TickerLookup
	resolver  Resolver
	renderer  contracts.Renderer
	cfg       Config
	logger    *logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewService creates a gallery service
func NewService(directory TickerLookup, resolver Resolver, renderer contracts.Renderer, cfg Config, log *logger.Logger, opts ...Option) *Service {
	if cfg.MaxCompanies <= 0 {
		cfg.MaxCompanies = DefaultMaxCompanies
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	s := &Service{
		directory: directory,
		resolver:  resolver,
		renderer:  renderer,
		cfg:       cfg,
		logger:    log.WithField("module", "gallery"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type task struct {
	index     int
	company   string
	ticker    string
	indicator string
}

type rendered struct {
	index     int
	image     contracts.Image
	marketCap contracts.MarketCap
}

// Process validates the selection and renders every (company, indicator)
// pair with data. Tasks run concurrently up to the worker limit and all
// of them finish before the result is assembled.
func (s *Service) Process(ctx context.Context, sel contracts.Selection) Result {
	companies := unique(sel.Companies)
	names := unique(sel.Indicators)

	if err := Validate(companies, names, s.cfg.MaxCompanies); err != nil {
		s.logger.WithField("reason", err.Error()).Info("Selection rejected")
		s.metrics.ObserveRequest(metrics.OutcomeValidation)
		return Result{ErrorMessage: err.Error()}
	}

	tasks, err := s.plan(companies, names)
	if err != nil {
		return s.fail(err)
	}

	start := s.cfg.HistoryStart
	end := s.now()

	var (
		mu   sync.Mutex
		done []rendered
	)

	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)

	for _, t := range tasks {
		g.Go(func() error {
			out, ok, err := s.run(ctx, t, start, end)
			if err != nil || !ok {
				return err
			}
			mu.Lock()
			done = append(done, out)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return s.fail(err)
	}

	if len(done) == 0 {
		s.logger.WithField("tasks", len(tasks)).Info("No data for any selection")
		s.metrics.ObserveRequest(metrics.OutcomeNoData)
		return Result{ErrorMessage: MsgNoData}
	}

	sort.Slice(done, func(i, j int) bool { return done[i].index < done[j].index })

	images := make([]contracts.Image, len(done))
	total := decimal.Zero
	for i, r := range done {
		images[i] = r.image
		// once per rendered image, so a company charted twice counts twice
		if b, ok := r.marketCap.Billions(); ok {
			total = total.Add(b)
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"tasks":  len(tasks),
		"images": len(images),
		"total":  total.StringFixed(2),
	}).Info("Gallery request completed")
	s.metrics.ObserveRequest(metrics.OutcomeOK)

	return Result{
		Images:         images,
		TotalMarketCap: decimal.NewNullDecimal(total),
	}
}

// plan resolves names up front so a bad name fails before any fetch
func (s *Service) plan(companies, names []string) ([]task, error) {
	known := make(map[string]bool, len(indicators.All()))
	for _, n := range indicators.All() {
		known[n] = true
	}
	for _, n := range names {
		if !known[n] {
			return nil, fmt.Errorf("%w: %q", indicators.ErrUnknownIndicator, n)
		}
	}

	tasks := make([]task, 0, len(companies)*len(names))
	for _, company := range companies {
		ticker, err := s.directory.Ticker(company)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			tasks = append(tasks, task{
				index:     len(tasks),
				company:   company,
				ticker:    ticker,
				indicator: name,
			})
		}
	}
	return tasks, nil
}

// run executes one task; ok is false when the ticker has no data
func (s *Service) run(ctx context.Context, t task, start, end time.Time) (out rendered, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s %s: panic: %v", t.company, t.indicator, r)
		}
	}()

	res := s.resolver.Resolve(ctx, t.ticker, start, end)
	if !res.Available() {
		s.logger.WithFields(map[string]interface{}{
			"company": t.company,
			"ticker":  t.ticker,
		}).Debug("Skipping company without data")
		return rendered{}, false, nil
	}

	result, err := indicators.Compute(t.indicator, res.Series)
	if err != nil {
		return rendered{}, false, fmt.Errorf("%s %s: %w", t.company, t.indicator, err)
	}

	title := fmt.Sprintf("%s (%s) %s", t.company, t.ticker, t.indicator)
	caption := res.MarketCap.Caption()

	startedAt := time.Now()
	png, err := s.renderer.Render(result, title, caption)
	if err != nil {
		return rendered{}, false, err
	}
	s.metrics.ObserveRender(time.Since(startedAt))

	return rendered{
		index: t.index,
		image: contracts.Image{
			Company:   t.company,
			Ticker:    t.ticker,
			Indicator: t.indicator,
			Title:     title,
			Caption:   caption,
			PNG:       png,
		},
		marketCap: res.MarketCap,
	}, true, nil
}

func (s *Service) fail(err error) Result {
	s.logger.WithError(err).Error("Gallery request failed")
	s.metrics.ObserveRequest(metrics.OutcomeError)
	return Result{ErrorMessage: err.Error()}
}

// unique drops repeated entries, keeping first-seen order
func unique(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
