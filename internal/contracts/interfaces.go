package contracts

import (
	"context"
	"time"
)

// PriceSource fetches daily history from an external provider
// ⭐ SSOT: returns ErrEmptySeries (or a wrapped not-found) when there is no data
type PriceSource interface {
	FetchPrices(ctx context.Context, ticker string, start, end time.Time) (*PriceSeries, error)
}

// MetadataSource fetches company valuation from an external provider
type MetadataSource interface {
	FetchMarketCap(ctx context.Context, ticker string) (MarketCap, error)
}

// Renderer rasterizes one indicator result into a PNG
type Renderer interface {
	Render(result *IndicatorResult, title, subtitle string) ([]byte, error)
}
