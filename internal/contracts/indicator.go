package contracts

import (
	"math"
	"time"
)

// Missing marks a point with insufficient history
var Missing = math.NaN()

// IsMissing reports whether v has no value
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Line is one named sub-series aligned to the input dates
type Line struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Guide is a horizontal reference level (e.g. RSI overbought)
type Guide struct {
	Name  string  `json:"name"`
	Level float64 `json:"level"`
}

// IndicatorResult is the output of one indicator over one series
// ⭐ SSOT: produced per request, never cached
type IndicatorResult struct {
	Indicator string      `json:"indicator"`
	Dates     []time.Time `json:"dates"`
	Lines     []Line      `json:"lines"`
	Guides    []Guide     `json:"guides,omitempty"`
	YLabel    string      `json:"y_label"`
}

// Line returns the sub-series with the given name
func (r *IndicatorResult) Line(name string) ([]float64, bool) {
	for _, l := range r.Lines {
		if l.Name == name {
			return l.Values, true
		}
	}
	return nil, false
}

// Image is one rendered indicator chart
type Image struct {
	Company   string `json:"company"`
	Ticker    string `json:"ticker"`
	Indicator string `json:"indicator"`
	Title     string `json:"title"`
	Caption   string `json:"caption"`
	PNG       []byte `json:"png"`
}

// Selection is the caller's choice of companies and indicators
type Selection struct {
	Companies  []string `json:"companies"`
	Indicators []string `json:"indicators"`
}
