package handler

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog"

	"gradebook/internal/model"
	"gradebook/internal/service"
	"gradebook/internal/session"
)

// Tab identifiers for the page views.
const (
	TabRecords        = "records"
	TabAnalysis       = "analysis"
	TabVisualizations = "visualizations"
	TabSaveLoad       = "saveload"
)

// Tab is one navigation entry.
type Tab struct {
	ID    string
	Title string
}

var tabs = []Tab{
	{TabRecords, "Records"},
	{TabAnalysis, "Analysis"},
	{TabVisualizations, "Visualizations"},
	{TabSaveLoad, "Save/Load"},
}

// Flash is a one-off message on the rendered page.
type Flash struct {
	Kind    string // success, error, info
	Message string
	Sidebar bool
}

// View selects what a page render shows beyond the session's current data.
type View struct {
	Tab    string
	Flash  *Flash
	Form   service.RecordForm
	Import *service.ImportReport
}

type pageData struct {
	View
	Tabs         []Tab
	StudentTypes []string
	Table        model.Table
	Stats        map[string]interface{}
}

// Page renders the dashboard. Every render is derived from the session's
// current store.
type Page struct {
	tmpl     *template.Template
	records  RecordService
	analysis Analyzer
	log      zerolog.Logger
}

func NewPage(tmpl *template.Template, records RecordService, analysis Analyzer, log zerolog.Logger) *Page {
	return &Page{
		tmpl:     tmpl,
		records:  records,
		analysis: analysis,
		log:      log,
	}
}

// Index serves GET /?tab=...
func (p *Page) Index(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	p.Render(w, sess, http.StatusOK, View{Tab: r.URL.Query().Get("tab")})
}

// Render writes the page for sess with the given status.
func (p *Page) Render(w http.ResponseWriter, sess *session.Session, status int, view View) {
	if !validTab(view.Tab) {
		view.Tab = TabRecords
	}
	if view.Form.StudentType == "" {
		view.Form.StudentType = model.Standard.Label()
	}

	table, err := p.records.Table(sess)
	if err != nil {
		p.log.Error().Err(err).Str("session", sess.ID).Msg("Failed to load records")
		http.Error(w, "Failed to load records", http.StatusInternalServerError)
		return
	}

	data := pageData{
		View:         view,
		Tabs:         tabs,
		StudentTypes: studentTypes(),
		Table:        table,
		Stats:        p.analysis.Analyze(table).Map(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := p.tmpl.ExecuteTemplate(w, "index", data); err != nil {
		p.log.Error().Err(err).Msg("Error rendering page")
	}
}

func validTab(id string) bool {
	for _, t := range tabs {
		if t.ID == id {
			return true
		}
	}
	return false
}

func studentTypes() []string {
	var out []string
	for _, p := range model.Policies() {
		out = append(out, p.Label())
	}
	return out
}
