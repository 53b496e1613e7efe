package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/LNshuti/energy/internal/gallery"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// ImageResponse is one chart in a plot response
type ImageResponse struct {
	Company   string `json:"company"`
	Ticker    string `json:"ticker"`
	Indicator string `json:"indicator"`
	Title     string `json:"title"`
	Caption   string `json:"caption"`
	PNG       string `json:"png"` // base64
}

// PlotResponse is the body of POST /api/plots and of each WebSocket reply
type PlotResponse struct {
	Images         []ImageResponse `json:"images"`
	Error          string          `json:"error"`
	TotalMarketCap *float64        `json:"total_market_cap"`
	Summary        string          `json:"summary"`
}

func toPlotResponse(res gallery.Result) PlotResponse {
	out := PlotResponse{
		Images: make([]ImageResponse, len(res.Images)),
		Error:  res.ErrorMessage,
	}

	for i, img := range res.Images {
		out.Images[i] = ImageResponse{
			Company:   img.Company,
			Ticker:    img.Ticker,
			Indicator: img.Indicator,
			Title:     img.Title,
			Caption:   img.Caption,
			PNG:       base64.StdEncoding.EncodeToString(img.PNG),
		}
	}

	if res.TotalMarketCap.Valid {
		total := res.TotalMarketCap.Decimal.InexactFloat64()
		out.TotalMarketCap = &total
	}

	if res.ErrorMessage == "" {
		out.Summary = res.Summary()
	}

	return out
}
