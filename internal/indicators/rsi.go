package indicators

import (
	"math"

	"github.com/LNshuti/energy/internal/contracts"
)

// RelativeStrength computes Wilder's RSI with smoothing factor 1/window.
// Averages use the adjusted exponential weighting and need window
// observed price changes before the first value. With no losses the
// index saturates at 100; with no movement at all it is missing.
func RelativeStrength(closes []float64, window int) []float64 {
	delta := Diff(closes)

	gains := make([]float64, len(delta))
	losses := make([]float64, len(delta))
	for i, d := range delta {
		if math.IsNaN(d) {
			gains[i], losses[i] = d, d
			continue
		}
		gains[i] = math.Max(d, 0)
		losses[i] = math.Max(-d, 0)
	}

	opts := EWMOptions{Alpha: 1.0 / float64(window), Adjust: true, MinPeriods: window}
	avgGain := EWM(gains, opts)
	avgLoss := EWM(losses, opts)

	out := make([]float64, len(closes))
	for i := range out {
		g, l := avgGain[i], avgLoss[i]
		switch {
		case math.IsNaN(g) || math.IsNaN(l):
			out[i] = contracts.Missing
		case l == 0 && g == 0:
			out[i] = contracts.Missing
		case l == 0:
			out[i] = 100
		default:
			out[i] = 100 - 100/(1+g/l)
		}
	}
	return out
}
