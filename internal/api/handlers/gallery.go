package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/LNshuti/energy/internal/contracts"
	"github.com/LNshuti/energy/internal/gallery"
	"github.com/LNshuti/energy/internal/reference"
	"github.com/LNshuti/energy/pkg/logger"
)

// maxSelectionBytes bounds a decoded selection body
const maxSelectionBytes = 64 << 10

// GalleryProcessor runs a selection
type GalleryProcessor interface {
	Process(ctx context.Context, sel contracts.Selection) gallery.Result
}

// GalleryHandler handles indicator gallery endpoints
// ⭐ SSOT: gallery HTTP handlers live in this struct only
type GalleryHandler struct {
	service   GalleryProcessor
	directory *reference.Directory
	logger    *logger.Logger
}

// NewGalleryHandler creates a new gallery handler
func NewGalleryHandler(service GalleryProcessor, directory *reference.Directory, log *logger.Logger) *GalleryHandler {
	return &GalleryHandler{
		service:   service,
		directory: directory,
		logger:    log.WithField("module", "api"),
	}
}

// ListCompanies returns the selectable companies in display order
// GET /api/companies
func (h *GalleryHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"companies": h.directory.Names(),
		"count":     h.directory.Len(),
	})
}

// ListIndicators maps the select-all toggle to an indicator list
// GET /api/indicators?all=true
func (h *GalleryHandler) ListIndicators(w http.ResponseWriter, r *http.Request) {
	selectAll := true
	if v := r.URL.Query().Get("all"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "all must be true or false")
			return
		}
		selectAll = parsed
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"indicators": gallery.SelectAllIndicators(selectAll),
	})
}

// CreatePlots renders the requested charts.
// Selection problems are reported in the body with status 200.
// POST /api/plots
func (h *GalleryHandler) CreatePlots(w http.ResponseWriter, r *http.Request) {
	var sel contracts.Selection
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSelectionBytes))
	if err := dec.Decode(&sel); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res := h.service.Process(r.Context(), sel)

	h.logger.WithFields(map[string]interface{}{
		"companies":  len(sel.Companies),
		"indicators": len(sel.Indicators),
		"images":     len(res.Images),
		"error":      res.ErrorMessage,
	}).Debug("Plot request served")

	respondJSON(w, http.StatusOK, toPlotResponse(res))
}
