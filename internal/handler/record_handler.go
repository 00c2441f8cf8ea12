package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"gradebook/internal/service"
)

type RecordHandler struct {
	base
	page *Page
}

func NewRecordHandler(records RecordService, page *Page, log zerolog.Logger) *RecordHandler {
	return &RecordHandler{base: base{records: records, log: log}, page: page}
}

// Submit handles the add-record form.
func (h *RecordHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form submission", http.StatusBadRequest)
		return
	}

	form := service.RecordForm{
		Name:        r.PostFormValue("name"),
		Roll:        r.PostFormValue("roll"),
		Marks:       r.PostFormValue("marks"),
		StudentType: r.PostFormValue("studentType"),
	}

	_, err := h.records.Submit(sess, form)
	switch {
	case err == nil:
		msg := fmt.Sprintf("Added %s (%s) successfully!", form.Name, studentTypeLabel(form.StudentType))
		h.page.Render(w, sess, http.StatusOK, View{
			Tab:   TabRecords,
			Flash: &Flash{Kind: "success", Message: msg, Sidebar: true},
		})
	case service.IsValidation(err):
		h.page.Render(w, sess, http.StatusUnprocessableEntity, View{
			Tab:   TabRecords,
			Flash: &Flash{Kind: "error", Message: err.Error(), Sidebar: true},
			Form:  form,
		})
	default:
		h.log.Error().Err(err).Str("session", sess.ID).Msg("Failed to add record")
		http.Error(w, "Failed to add record", http.StatusInternalServerError)
	}
}

// List returns the session's table as JSON.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	table, ok := h.loadTable(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, table)
}

// Create adds a record from a JSON body.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var form service.RecordForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	row, err := h.records.Submit(sess, form)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":  verr.Error(),
				"fields": verr.Fields,
			})
			return
		}
		h.log.Error().Err(err).Str("session", sess.ID).Msg("Failed to add record")
		h.writeJSONError(w, http.StatusInternalServerError, "Failed to add record")
		return
	}
	h.writeJSON(w, http.StatusCreated, row)
}

func studentTypeLabel(s string) string {
	if s == "" {
		return "Normal"
	}
	return s
}
