package handler

import (
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"gradebook/internal/session"
	"gradebook/internal/web"
)

// Deps are the services the router wires into handlers.
type Deps struct {
	Templates      *template.Template
	Sessions       *session.Manager
	Records        RecordService
	Analysis       Analyzer
	Charts         ChartService
	Transfer       TransferService
	MaxUploadBytes int64
	Log            zerolog.Logger
}

// NewRouter builds the dashboard routes. Everything except /health and
// /static runs inside a session.
func NewRouter(d Deps) http.Handler {
	log := d.Log.With().Str("component", "http").Logger()
	page := NewPage(d.Templates, d.Records, d.Analysis, log)
	recordHandler := NewRecordHandler(d.Records, page, log)
	analysisHandler := NewAnalysisHandler(d.Records, d.Analysis, log)
	chartHandler := NewChartHandler(d.Records, d.Charts, log)
	transferHandler := NewTransferHandler(d.Records, d.Transfer, page, d.MaxUploadBytes, log)

	r := mux.NewRouter()
	r.HandleFunc("/health", base{log: log}.health).Methods("GET")
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", web.Static()))

	app := r.NewRoute().Subrouter()
	app.Use(d.Sessions.Middleware)

	app.HandleFunc("/", page.Index).Methods("GET")
	app.HandleFunc("/records", recordHandler.Submit).Methods("POST")
	app.HandleFunc("/charts/{kind}.svg", chartHandler.SVG).Methods("GET")
	app.HandleFunc("/export", transferHandler.Export).Methods("GET")
	app.HandleFunc("/import", transferHandler.Import).Methods("POST")

	api := app.PathPrefix("/api").Subrouter()
	api.HandleFunc("/records", recordHandler.List).Methods("GET")
	api.HandleFunc("/records", recordHandler.Create).Methods("POST")
	api.HandleFunc("/analysis", analysisHandler.Get).Methods("GET")
	api.HandleFunc("/charts/{kind}", chartHandler.Data).Methods("GET")
	api.HandleFunc("/import", transferHandler.ImportAPI).Methods("POST")

	return handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{log}))(
		handlers.CustomLoggingHandler(io.Discard, r, requestLogger(log)),
	)
}

func (b base) health(w http.ResponseWriter, _ *http.Request) {
	b.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger logs each request through zerolog instead of a text log line.
func requestLogger(log zerolog.Logger) handlers.LogFormatter {
	return func(_ io.Writer, p handlers.LogFormatterParams) {
		log.Info().
			Str("method", p.Request.Method).
			Str("path", p.URL.Path).
			Int("status", p.StatusCode).
			Int("bytes", p.Size).
			Dur("duration", time.Since(p.TimeStamp)).
			Msg("HTTP request")
	}
}

type recoveryLogger struct {
	log zerolog.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error().Interface("panic", v).Msg("recovered from panic")
}
