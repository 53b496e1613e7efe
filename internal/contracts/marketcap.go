package contracts

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var billion = decimal.NewFromInt(1_000_000_000)

// MarketCap is a company valuation in billions, or Unknown.
// The zero value is Unknown, which is distinct from a known cap of zero.
type MarketCap struct {
	billions decimal.Decimal
	known    bool
}

// UnknownMarketCap is the explicit "no valuation" marker
var UnknownMarketCap = MarketCap{}

// MarketCapFromRaw converts a raw currency-unit figure to billions
func MarketCapFromRaw(raw int64) MarketCap {
	return MarketCap{billions: decimal.NewFromInt(raw).Div(billion), known: true}
}

// MarketCapFromBillions wraps a figure already expressed in billions
func MarketCapFromBillions(b decimal.Decimal) MarketCap {
	return MarketCap{billions: b, known: true}
}

// Known reports whether the valuation is available
func (m MarketCap) Known() bool {
	return m.known
}

// Billions returns the value; ok is false for Unknown
func (m MarketCap) Billions() (decimal.Decimal, bool) {
	return m.billions, m.known
}

// Caption formats the per-image subtitle
func (m MarketCap) Caption() string {
	if !m.known {
		return "Market Cap: N/A"
	}
	return fmt.Sprintf("Market Cap: $%s Billion", m.billions.StringFixed(2))
}

// String implements fmt.Stringer
func (m MarketCap) String() string {
	if !m.known {
		return "unknown"
	}
	return m.billions.StringFixed(2) + "B"
}
