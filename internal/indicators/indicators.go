// Package indicators computes technical indicators over daily close prices.
//
// Every function is pure and works on trading-day indexes. Points without
// enough history are contracts.Missing, never zero.
package indicators

import (
	"errors"
	"fmt"

	"github.com/LNshuti/energy/internal/contracts"
)

// Indicator names accepted by Compute
const (
	SMA            = "SMA"
	MACD           = "MACD"
	RSI            = "RSI"
	BollingerBands = "Bollinger Bands"
)

// Sub-series names
const (
	LineClose     = "Close"
	LineSMA55     = "SMA-55"
	LineSMA200    = "SMA-200"
	LineMACD      = "MACD"
	LineSignal    = "Signal"
	LineHistogram = "Histogram"
	LineRSI       = "RSI"
	LineSMA20     = "SMA-20"
	LineUpper     = "Upper"
	LineLower     = "Lower"
)

// Parameters
const (
	shortSMAWindow = 55
	longSMAWindow  = 200

	macdFastSpan   = 12
	macdSlowSpan   = 26
	macdSignalSpan = 9

	rsiWindow     = 14
	rsiOverbought = 70.0
	rsiOversold   = 30.0

	bollingerWindow = 20
	bollingerWidth  = 2.0
)

// ErrUnknownIndicator is returned for a name outside All()
var ErrUnknownIndicator = errors.New("unknown indicator")

// All returns the supported indicators in display order
// ⭐ SSOT: the fixed indicator set offered to callers
func All() []string {
	return []string{SMA, MACD, RSI, BollingerBands}
}

// Compute applies the named indicator to a series
func Compute(name string, series *contracts.PriceSeries) (*contracts.IndicatorResult, error) {
	if series.Len() == 0 {
		return nil, contracts.ErrEmptySeries
	}

	closes := series.Closes()

	var (
		lines  []contracts.Line
		guides []contracts.Guide
		ylabel string
	)

	switch name {
	case SMA:
		lines = smaLines(closes)
		ylabel = "Price"
	case MACD:
		lines = macdLines(closes)
		ylabel = "MACD"
	case RSI:
		lines = []contracts.Line{{Name: LineRSI, Values: RelativeStrength(closes, rsiWindow)}}
		guides = []contracts.Guide{
			{Name: "Overbought (70)", Level: rsiOverbought},
			{Name: "Oversold (30)", Level: rsiOversold},
		}
		ylabel = "RSI"
	case BollingerBands:
		lines = bollingerLines(closes)
		ylabel = "Price"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIndicator, name)
	}

	return &contracts.IndicatorResult{
		Indicator: name,
		Dates:     series.Dates(),
		Lines:     lines,
		Guides:    guides,
		YLabel:    ylabel,
	}, nil
}

func smaLines(closes []float64) []contracts.Line {
	return []contracts.Line{
		{Name: LineClose, Values: closes},
		{Name: LineSMA55, Values: RollingMean(closes, shortSMAWindow)},
		{Name: LineSMA200, Values: RollingMean(closes, longSMAWindow)},
	}
}

func macdLines(closes []float64) []contracts.Line {
	fast := EWM(closes, EWMOptions{Alpha: SpanAlpha(macdFastSpan)})
	slow := EWM(closes, EWMOptions{Alpha: SpanAlpha(macdSlowSpan)})

	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = fast[i] - slow[i]
	}

	signal := EWM(macd, EWMOptions{Alpha: SpanAlpha(macdSignalSpan)})

	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = macd[i] - signal[i]
	}

	return []contracts.Line{
		{Name: LineMACD, Values: macd},
		{Name: LineSignal, Values: signal},
		{Name: LineHistogram, Values: hist},
	}
}

func bollingerLines(closes []float64) []contracts.Line {
	mid := RollingMean(closes, bollingerWindow)
	std := RollingStdDev(closes, bollingerWindow)

	upper := make([]float64, len(closes))
	lower := make([]float64, len(closes))
	for i := range closes {
		upper[i] = mid[i] + bollingerWidth*std[i]
		lower[i] = mid[i] - bollingerWidth*std[i]
	}

	return []contracts.Line{
		{Name: LineClose, Values: closes},
		{Name: LineSMA20, Values: mid},
		{Name: LineUpper, Values: upper},
		{Name: LineLower, Values: lower},
	}
}
