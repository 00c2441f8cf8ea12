package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"gradebook/internal/model"
	"gradebook/internal/session"
)

// MarksHint is shown whenever submitted marks cannot be used.
const MarksHint = "Enter valid marks (e.g., 80,90,85)"

// RecordForm is the add-record form as submitted.
type RecordForm struct {
	Name        string `json:"name"`
	Roll        string `json:"roll"`
	Marks       string `json:"marks"`
	StudentType string `json:"studentType"`
}

const studentTypeTag = "student_type"

// recordInput is the part of the form checked by the validator. Marks are
// checked by the parser.
type recordInput struct {
	StudentType string `validate:"required,student_type"`
}

// studentTypeValidation accepts whatever model.ParsePolicy maps to a policy.
func studentTypeValidation(fl validator.FieldLevel) bool {
	_, err := model.ParsePolicy(fl.Field().String())
	return err == nil
}

type RecordService struct {
	validate *validator.Validate
	log      zerolog.Logger
}

func NewRecordService(log zerolog.Logger) *RecordService {
	validate := validator.New()
	_ = validate.RegisterValidation(studentTypeTag, studentTypeValidation)
	return &RecordService{
		validate: validate,
		log:      log.With().Str("component", "records").Logger(),
	}
}

// Submit parses and validates form, then appends the record to the session.
// Any parse or validation failure returns a *ValidationError and leaves the
// store untouched.
func (s *RecordService) Submit(sess *session.Session, form RecordForm) (model.Row, error) {
	form.StudentType = strings.TrimSpace(form.StudentType)
	if form.StudentType == "" {
		form.StudentType = model.Standard.Label()
	}

	marks, err := model.ParseMarksInput(form.Marks)
	if err != nil {
		return model.Row{}, NewValidationError(errors.New(MarksHint), FieldError{Field: "marks", Error: err.Error()})
	}

	if err := s.validate.Struct(recordInput{StudentType: form.StudentType}); err != nil {
		return model.Row{}, fieldErrors(err)
	}
	policy, err := model.ParsePolicy(form.StudentType)
	if err != nil {
		return model.Row{}, errors.Wrap(err, "map student type")
	}

	rec, err := model.NewRecord(form.Name, form.Roll, marks, policy)
	if err != nil {
		return model.Row{}, NewValidationError(errors.New(MarksHint), FieldError{Field: "marks", Error: err.Error()})
	}
	if err := sess.Add(rec); err != nil {
		return model.Row{}, errors.Wrap(err, "add record")
	}

	s.log.Info().Str("session", sess.ID).Str("roll", rec.Roll).Str("policy", policy.String()).Msg("record added")
	return model.Row{Name: rec.Name, Roll: rec.Roll, Marks: rec.Marks(), Grade: rec.Grade()}, nil
}

// Table projects the session's records.
func (s *RecordService) Table(sess *session.Session) (model.Table, error) {
	table, err := sess.Table()
	return table, errors.Wrap(err, "load table")
}

func fieldErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewValidationError(err)
	}

	fields := make([]FieldError, 0, len(verrs))
	msg := MarksHint
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Error: fe.Tag()})
		if fe.Field() == "StudentType" {
			msg = "Choose a student type (Normal or Graduate)"
		}
	}
	return NewValidationError(errors.New(msg), fields...)
}
