package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LNshuti/energy/internal/contracts"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		img  contracts.Image
		want string
	}{
		{contracts.Image{Company: "Exxon Mobil", Ticker: "XOM", Indicator: "SMA"}, "exxon-mobil_xom_sma.png"},
		{contracts.Image{Company: "Cabot Oil & Gas", Ticker: "COG", Indicator: "Bollinger Bands"}, "cabot-oil-gas_cog_bollinger-bands.png"},
		{contracts.Image{Company: "Phillips 66", Ticker: "PSX", Indicator: "RSI"}, "phillips-66_psx_rsi.png"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, fileName(tt.img))
		})
	}
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"serve", "plot", "companies"} {
		assert.True(t, names[want], want)
	}
}
