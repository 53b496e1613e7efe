package indicators

import (
	"math"

	"github.com/LNshuti/energy/internal/contracts"
)

// EWMOptions configures an exponentially weighted mean
type EWMOptions struct {
	// Alpha is the smoothing factor in (0, 1]
	Alpha float64

	// Adjust divides by the decaying sum of weights instead of using the
	// recursive form seeded with the first observation.
	Adjust bool

	// MinPeriods is the number of observations required before a value is emitted
	MinPeriods int
}

// SpanAlpha converts a span to a smoothing factor, 2/(span+1)
func SpanAlpha(span int) float64 {
	return 2.0 / (float64(span) + 1.0)
}

// EWM computes the exponentially weighted mean of values.
// Missing inputs are not observations: they leave the running mean
// unchanged but still decay its weight.
func EWM(values []float64, opts EWMOptions) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	minPeriods := opts.MinPeriods
	if minPeriods < 1 {
		minPeriods = 1
	}

	decay := 1.0 - opts.Alpha
	newWeight := 1.0
	if !opts.Adjust {
		newWeight = opts.Alpha
	}

	weighted := values[0]
	oldWeight := 1.0
	nobs := 0
	if !math.IsNaN(weighted) {
		nobs = 1
	}
	out[0] = emit(weighted, nobs, minPeriods)

	for i := 1; i < len(values); i++ {
		cur := values[i]
		observed := !math.IsNaN(cur)
		if observed {
			nobs++
		}

		switch {
		case !math.IsNaN(weighted):
			oldWeight *= decay
			if observed {
				// constant runs keep their exact value
				if weighted != cur {
					weighted = (oldWeight*weighted + newWeight*cur) / (oldWeight + newWeight)
				}
				if opts.Adjust {
					oldWeight += newWeight
				} else {
					oldWeight = 1.0
				}
			}
		case observed:
			weighted = cur
		}

		out[i] = emit(weighted, nobs, minPeriods)
	}

	return out
}

func emit(v float64, nobs, minPeriods int) float64 {
	if nobs < minPeriods {
		return contracts.Missing
	}
	return v
}
