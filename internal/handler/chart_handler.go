package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"gradebook/internal/service"
)

type ChartHandler struct {
	base
	charts ChartService
}

func NewChartHandler(records RecordService, charts ChartService, log zerolog.Logger) *ChartHandler {
	return &ChartHandler{base: base{records: records, log: log}, charts: charts}
}

// SVG serves /charts/{kind}.svg
func (h *ChartHandler) SVG(w http.ResponseWriter, r *http.Request) {
	table, ok := h.loadTable(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	kind := mux.Vars(r)["kind"]
	if err := h.charts.RenderSVG(kind, table, &buf); err != nil {
		switch {
		case errors.Is(err, service.ErrNoData):
			http.Error(w, "No students available for visualization.", http.StatusNotFound)
		case errors.Is(err, service.ErrUnknownChart):
			http.Error(w, "Unknown chart", http.StatusNotFound)
		default:
			h.log.Error().Err(err).Str("kind", kind).Msg("Failed to render chart")
			http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// Data serves /api/charts/{kind}
func (h *ChartHandler) Data(w http.ResponseWriter, r *http.Request) {
	table, ok := h.loadTable(w, r)
	if !ok {
		return
	}

	cfg, err := h.charts.Build(mux.Vars(r)["kind"], table)
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusOK, cfg)
	case errors.Is(err, service.ErrNoData):
		h.writeJSONError(w, http.StatusNotFound, "No students available for visualization.")
	case errors.Is(err, service.ErrUnknownChart):
		h.writeJSONError(w, http.StatusNotFound, "Unknown chart")
	default:
		h.writeJSONError(w, http.StatusInternalServerError, "Failed to build chart")
	}
}
