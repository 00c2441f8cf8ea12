package handler

import (
	"net/http"

	"github.com/rs/zerolog"
)

type AnalysisHandler struct {
	base
	analysis Analyzer
}

func NewAnalysisHandler(records RecordService, analysis Analyzer, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{base: base{records: records, log: log}, analysis: analysis}
}

// Get returns the statistics map; {} when there are no records.
func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	table, ok := h.loadTable(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.analysis.Analyze(table).Map())
}
