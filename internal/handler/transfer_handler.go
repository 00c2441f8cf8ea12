package handler

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/rs/zerolog"

	"gradebook/internal/service"
	"gradebook/internal/session"
)

type TransferHandler struct {
	base
	transfer  TransferService
	page      *Page
	maxUpload int64
}

func NewTransferHandler(records RecordService, transfer TransferService, page *Page, maxUpload int64, log zerolog.Logger) *TransferHandler {
	return &TransferHandler{base: base{records: records, log: log}, transfer: transfer, page: page, maxUpload: maxUpload}
}

// Export downloads the table as student_records.csv. An empty store has
// nothing to download and answers 204.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	table, ok := h.loadTable(w, r)
	if !ok {
		return
	}
	if table.Empty() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var buf bytes.Buffer
	if err := h.transfer.Export(table, &buf); err != nil {
		h.log.Error().Err(err).Msg("Failed to export records")
		http.Error(w, "Failed to export records", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", service.ExportContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+service.ExportFileName+`"`)
	_, _ = buf.WriteTo(w)
}

// Import loads an uploaded CSV and shows the result on the Save/Load tab.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	report, status, err := h.importUpload(w, r, sess)
	view := View{Tab: TabSaveLoad, Import: report}
	switch {
	case err == nil:
		kind := "success"
		if report.Skipped > 0 {
			kind = "info"
		}
		view.Flash = &Flash{Kind: kind, Message: "CSV loaded successfully!"}
		if report.Skipped > 0 {
			view.Flash.Message = "CSV loaded with skipped rows."
		}
	case status == http.StatusInternalServerError:
		http.Error(w, "Failed to import records", status)
		return
	default:
		view.Flash = &Flash{Kind: "error", Message: err.Error()}
		view.Import = nil
	}
	h.page.Render(w, sess, status, view)
}

// ImportAPI loads an uploaded CSV and returns the import report as JSON.
func (h *TransferHandler) ImportAPI(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	report, status, err := h.importUpload(w, r, sess)
	if err != nil && report == nil {
		h.writeJSONError(w, status, err.Error())
		return
	}
	h.writeJSON(w, status, report)
}

// importUpload reads the multipart "file" field into the session. The returned
// status is the HTTP status the outcome maps to.
func (h *TransferHandler) importUpload(w http.ResponseWriter, r *http.Request, sess *session.Session) (*service.ImportReport, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return nil, http.StatusRequestEntityTooLarge, errors.New("File too large or bad request")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, http.StatusBadRequest, errors.New("No file uploaded")
	}
	defer file.Close()

	return h.importFile(sess, file, header)
}

func (h *TransferHandler) importFile(sess *session.Session, file multipart.File, header *multipart.FileHeader) (*service.ImportReport, int, error) {
	report, err := h.transfer.Import(sess, header.Filename, file)
	switch {
	case err == nil:
		return report, http.StatusOK, nil
	case errors.Is(err, service.ErrBadCSV), errors.Is(err, service.ErrMissingColumns):
		return report, http.StatusBadRequest, err
	default:
		h.log.Error().Err(err).Str("file", header.Filename).Msg("Error importing file")
		return report, http.StatusInternalServerError, err
	}
}
