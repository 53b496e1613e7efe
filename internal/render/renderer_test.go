package render

import (
	"bytes"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LNshuti/energy/internal/contracts"
	"github.com/LNshuti/energy/internal/indicators"
	"github.com/LNshuti/energy/pkg/config"
	"github.com/LNshuti/energy/pkg/logger"
)

func testSeries(t *testing.T, n int) *contracts.PriceSeries {
	t.Helper()
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	obs := make([]contracts.Observation, n)
	for i := range obs {
		obs[i] = contracts.Observation{
			Date:  start.AddDate(0, 0, i),
			Close: 100 + 10*math.Sin(float64(i)/9),
		}
	}
	s, err := contracts.NewPriceSeries("XOM", obs)
	require.NoError(t, err)
	return s
}

func TestRender_AllIndicators(t *testing.T) {
	r := NewPlotRenderer(config.ChartConfig{WidthPx: 640, HeightPx: 400}, logger.Nop())
	series := testSeries(t, 260)

	for _, name := range indicators.All() {
		t.Run(name, func(t *testing.T) {
			result, err := indicators.Compute(name, series)
			require.NoError(t, err)

			out, err := r.Render(result, "Exxon Mobil (XOM) "+name, "Market Cap: $150.00 Billion")
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(out))
			require.NoError(t, err)
			assert.InDelta(t, 640, img.Bounds().Dx(), 1)
			assert.InDelta(t, 400, img.Bounds().Dy(), 1)
		})
	}
}

func TestRender_AllMissing(t *testing.T) {
	r := NewPlotRenderer(config.ChartConfig{WidthPx: 320, HeightPx: 200}, logger.Nop())

	// too short for any RSI value; only the guides are drawn
	result, err := indicators.Compute(indicators.RSI, testSeries(t, 5))
	require.NoError(t, err)

	out, err := r.Render(result, "Short (S) RSI", "Market Cap: N/A")
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), out[:4])
}

func TestRender_Errors(t *testing.T) {
	r := NewPlotRenderer(config.ChartConfig{WidthPx: 320, HeightPx: 200}, logger.Nop())

	_, err := r.Render(nil, "t", "s")
	assert.Error(t, err)

	_, err = r.Render(&contracts.IndicatorResult{
		Dates: []time.Time{time.Now()},
		Lines: []contracts.Line{{Name: "bad", Values: []float64{1, 2}}},
	}, "t", "s")
	assert.Error(t, err)
}

func TestSegments(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name   string
		values []float64
		want   []span
	}{
		{"all present", []float64{1, 2, 3}, []span{{0, 3}}},
		{"leading missing", []float64{nan, nan, 1, 2}, []span{{2, 4}}},
		{"gap", []float64{1, nan, 2, 3}, []span{{0, 1}, {2, 4}}},
		{"all missing", []float64{nan, nan}, nil},
		{"infinite is a gap", []float64{1, math.Inf(1), 2}, []span{{0, 1}, {2, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, segments(tt.values))
		})
	}
}
