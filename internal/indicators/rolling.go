package indicators

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/LNshuti/energy/internal/contracts"
)

// RollingMean is the simple moving average over the last window points.
// The first window-1 points, and any window containing a missing value,
// are missing.
func RollingMean(values []float64, window int) []float64 {
	return rolling(values, window, func(w []float64) float64 {
		return stat.Mean(w, nil)
	})
}

// RollingStdDev is the sample standard deviation (n-1) over the last window points
func RollingStdDev(values []float64, window int) []float64 {
	return rolling(values, window, func(w []float64) float64 {
		return stat.StdDev(w, nil)
	})
}

func rolling(values []float64, window int, fn func([]float64) float64) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = contracts.Missing
	}
	if window <= 0 {
		return out
	}

	for end := window; end <= len(values); end++ {
		w := values[end-window : end]
		if hasMissing(w) {
			continue
		}
		out[end-1] = fn(w)
	}
	return out
}

// Diff returns values[i] - values[i-1]; the first point is missing
func Diff(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i == 0 {
			out[i] = contracts.Missing
			continue
		}
		out[i] = values[i] - values[i-1]
	}
	return out
}

func hasMissing(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
