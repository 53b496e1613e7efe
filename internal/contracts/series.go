package contracts

import (
	"errors"
	"sort"
	"time"
)

// ErrEmptySeries is returned when a price series has no usable observations
var ErrEmptySeries = errors.New("price series has no observations")

// Observation is one trading day of price data
type Observation struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is an ordered run of daily observations for one ticker
// ⭐ SSOT: dates strictly increasing, closes positive, never empty
type PriceSeries struct {
	Ticker       string        `json:"ticker"`
	Observations []Observation `json:"observations"`
}

// NewPriceSeries normalizes raw observations into a valid series.
// Observations are sorted by date; a repeated date keeps the later
// entry and non-positive closes are dropped.
func NewPriceSeries(ticker string, obs []Observation) (*PriceSeries, error) {
	sorted := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if o.Close > 0 {
			sorted = append(sorted, o)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	out := sorted[:0]
	for _, o := range sorted {
		if n := len(out); n > 0 && sameDay(out[n-1].Date, o.Date) {
			out[n-1] = o
			continue
		}
		out = append(out, o)
	}

	if len(out) == 0 {
		return nil, ErrEmptySeries
	}

	return &PriceSeries{Ticker: ticker, Observations: out}, nil
}

// Len returns the number of observations
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Observations)
}

// Closes returns the closing prices in date order
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, s.Len())
	for i, o := range s.Observations {
		closes[i] = o.Close
	}
	return closes
}

// Dates returns the trading dates in order
func (s *PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, s.Len())
	for i, o := range s.Observations {
		dates[i] = o.Date
	}
	return dates
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
