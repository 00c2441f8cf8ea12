package service

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"gradebook/internal/model"
	"gradebook/internal/session"
)

const (
	ExportFileName    = "student_records.csv"
	ExportContentType = "text/csv"
)

var (
	ErrBadCSV         = errors.New("unreadable CSV")
	ErrMissingColumns = errors.New("CSV must have Name, Roll and Marks columns")
)

// RowError describes one skipped import row. Line is the 1-based line in the file.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportReport summarises one CSV import.
type ImportReport struct {
	FileName  string     `json:"fileName"`
	TotalRows int        `json:"totalRows"`
	Imported  int        `json:"imported"`
	Skipped   int        `json:"skipped"`
	Errors    []RowError `json:"errors,omitempty"`
	Status    string     `json:"status"` // "completed", "error"
	Error     string     `json:"error,omitempty"`
	StartTime time.Time  `json:"startTime"`
	EndTime   time.Time  `json:"endTime"`
}

// TransferService exports tables to CSV and imports CSV into a session.
type TransferService struct {
	log zerolog.Logger
}

func NewTransferService(log zerolog.Logger) *TransferService {
	return &TransferService{log: log.With().Str("component", "transfer").Logger()}
}

// Export writes the table with a Name,Roll,Marks,Grade header. Marks are
// written in their "[80, 90, 85]" form.
func (s *TransferService) Export(table model.Table, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(model.Columns); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, row := range table.Rows {
		if err := writer.Write([]string{row.Name, row.Roll, row.MarksText(), row.Grade}); err != nil {
			return errors.Wrap(err, "write row")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "flush csv")
}

// Import reads CSV rows into records graded by the standard policy and appends
// them to the session. Rows that fail to parse are skipped and listed in the
// report; the remaining rows are still imported. A missing header or required
// column rejects the whole file.
func (s *TransferService) Import(sess *session.Session, fileName string, r io.Reader) (*ImportReport, error) {
	report := &ImportReport{FileName: fileName, Status: "completed", StartTime: time.Now()}

	records, err := s.readRecords(r, report)
	if err != nil {
		return s.fail(report, err)
	}

	n, err := sess.AddAll(records)
	report.Imported = n
	if err != nil {
		return s.fail(report, errors.Wrap(err, "store imported records"))
	}

	report.EndTime = time.Now()
	s.log.Info().
		Str("session", sess.ID).
		Str("file", fileName).
		Int("imported", report.Imported).
		Int("skipped", report.Skipped).
		Dur("duration", report.EndTime.Sub(report.StartTime)).
		Msg("csv import completed")
	return report, nil
}

func (s *TransferService) fail(report *ImportReport, err error) (*ImportReport, error) {
	report.Status = "error"
	report.Error = err.Error()
	report.EndTime = time.Now()
	s.log.Warn().Err(err).Str("file", report.FileName).Msg("csv import failed")
	return report, err
}

func (s *TransferService) readRecords(r io.Reader, report *ImportReport) ([]model.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrapf(ErrBadCSV, "read header: %v", err)
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var records []model.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, errors.Wrap(err, "read csv")
			}
			report.TotalRows++
			report.skip(perr.Line, err.Error())
			continue
		}
		report.TotalRows++

		line, _ := reader.FieldPos(0)
		rec, reason := cols.record(row)
		if reason != "" {
			report.skip(line, reason)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (report *ImportReport) skip(line int, reason string) {
	report.Skipped++
	report.Errors = append(report.Errors, RowError{Line: line, Reason: reason})
}

type columns struct {
	name, roll, marks int
}

func locateColumns(header []string) (columns, error) {
	cols := columns{name: -1, roll: -1, marks: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "name":
			cols.name = i
		case "roll":
			cols.roll = i
		case "marks":
			cols.marks = i
		}
	}
	if cols.name < 0 || cols.roll < 0 || cols.marks < 0 {
		return cols, errors.Wrapf(ErrMissingColumns, "got %q", strings.Join(header, ","))
	}
	return cols, nil
}

// record builds the row's record or returns why it was rejected.
func (c columns) record(row []string) (model.Record, string) {
	field := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	marks, err := model.ParseMarksLiteral(field(c.marks))
	if err != nil {
		return model.Record{}, err.Error()
	}
	rec, err := model.NewRecord(field(c.name), field(c.roll), marks, model.Standard)
	if err != nil {
		return model.Record{}, err.Error()
	}
	return rec, ""
}
