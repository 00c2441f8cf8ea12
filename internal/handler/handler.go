package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"gradebook/internal/model"
	"gradebook/internal/service"
	"gradebook/internal/session"
)

// RecordService adds records to, and projects, a session's store.
type RecordService interface {
	Submit(sess *session.Session, form service.RecordForm) (model.Row, error)
	Table(sess *session.Session) (model.Table, error)
}

// Analyzer computes aggregate statistics for a table.
type Analyzer interface {
	Analyze(table model.Table) *model.Statistics
}

// ChartService builds and renders the visualization charts.
type ChartService interface {
	Kinds() []string
	Build(kind string, table model.Table) (*service.ChartConfig, error)
	RenderSVG(kind string, table model.Table, w io.Writer) error
}

// TransferService moves records in and out as CSV.
type TransferService interface {
	Export(table model.Table, w io.Writer) error
	Import(sess *session.Session, fileName string, r io.Reader) (*service.ImportReport, error)
}

// base is embedded by every handler: the record service and the request logger.
type base struct {
	records RecordService
	log     zerolog.Logger
}

func (b base) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		b.log.Error().Err(err).Msg("Error encoding response")
	}
}

func (b base) writeJSONError(w http.ResponseWriter, status int, msg string) {
	b.writeJSON(w, status, map[string]interface{}{"error": msg})
}

// sessionFrom returns the request's session, answering 500 when the session
// middleware did not run.
func sessionFrom(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		http.Error(w, "no session", http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

// loadTable projects the session's table, answering 500 on a store failure.
func (b base) loadTable(w http.ResponseWriter, r *http.Request) (model.Table, bool) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return model.Table{}, false
	}
	table, err := b.records.Table(sess)
	if err != nil {
		b.log.Error().Err(err).Str("session", sess.ID).Msg("Failed to load records")
		http.Error(w, "Failed to load records", http.StatusInternalServerError)
		return model.Table{}, false
	}
	return table, true
}
