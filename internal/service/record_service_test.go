package service

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gradebook/internal/model"
	"gradebook/internal/session"
)

func TestSubmitAddsRecord(t *testing.T) {
	svc := NewRecordService(zerolog.Nop())
	sess := newSession()

	row, err := svc.Submit(sess, RecordForm{Name: "Alice", Roll: "R1", Marks: "80, 90,85", StudentType: "Normal"})
	require.NoError(t, err)
	assert.Equal(t, model.Row{Name: "Alice", Roll: "R1", Marks: []int{80, 90, 85}, Grade: "B"}, row)

	table, err := svc.Table(sess)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, row, table.Rows[0])
}

func TestSubmitGraduateUsesAlternatePolicy(t *testing.T) {
	svc := NewRecordService(zerolog.Nop())
	sess := newSession()

	row, err := svc.Submit(sess, RecordForm{Name: "Bob", Roll: "R2", Marks: "40", StudentType: "Graduate"})
	require.NoError(t, err)
	assert.Equal(t, "Pass", row.Grade)
}

func TestSubmitDefaultsToNormal(t *testing.T) {
	svc := NewRecordService(zerolog.Nop())
	row, err := svc.Submit(newSession(), RecordForm{Name: "Cy", Roll: "R3", Marks: "95"})
	require.NoError(t, err)
	assert.Equal(t, "A", row.Grade)
}

func TestSubmitAcceptsStudentTypeInAnyCase(t *testing.T) {
	svc := NewRecordService(zerolog.Nop())

	for studentType, grade := range map[string]string{"NORMAL": "C", "graduate": "Pass", "Alternate": "Pass"} {
		row, err := svc.Submit(newSession(), RecordForm{Name: "Gus", Roll: "R7", Marks: "60", StudentType: studentType})
		require.NoError(t, err, studentType)
		assert.Equal(t, grade, row.Grade, studentType)
	}
}

func TestSubmitRejectsBadMarks(t *testing.T) {
	svc := NewRecordService(zerolog.Nop())

	for _, marks := range []string{"80, 90, abc", "", " , ", "1.5"} {
		sess := newSession()
		_, err := svc.Submit(sess, RecordForm{Name: "Dee", Roll: "R4", Marks: marks, StudentType: "Normal"})
		require.Error(t, err, marks)
		assert.True(t, IsValidation(err), marks)
		assert.Equal(t, MarksHint, err.Error())

		n, err := sess.Len()
		require.NoError(t, err)
		assert.Equal(t, 0, n, "store must be unchanged for %q", marks)
	}
}

func TestSubmitRejectsUnknownStudentType(t *testing.T) {
	svc := NewRecordService(zerolog.Nop())
	sess := newSession()

	_, err := svc.Submit(sess, RecordForm{Name: "Eli", Roll: "R5", Marks: "50", StudentType: "Postdoc"})
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "StudentType", verr.Fields[0].Field)

	n, _ := sess.Len()
	assert.Equal(t, 0, n)
}

func TestSubmitSurfacesStoreFailure(t *testing.T) {
	st := new(MockStore)
	st.On("Add", mock.AnythingOfType("model.Record")).Return(errors.New("disk full"))
	sess := session.New("s", st, model.DefaultRegistry(), time.Now())

	svc := NewRecordService(zerolog.Nop())
	_, err := svc.Submit(sess, RecordForm{Name: "Fay", Roll: "R6", Marks: "60", StudentType: "Normal"})
	require.Error(t, err)
	assert.False(t, IsValidation(err))
	assert.Contains(t, err.Error(), "disk full")
	st.AssertExpectations(t)
}

func TestNRecordsProjectInOrder(t *testing.T) {
	svc := NewRecordService(zerolog.Nop())
	sess := newSession()

	names := []string{"n0", "n1", "n2", "n3", "n4"}
	for _, n := range names {
		_, err := svc.Submit(sess, RecordForm{Name: n, Roll: "dup", Marks: "70", StudentType: "Normal"})
		require.NoError(t, err)
	}

	table, err := svc.Table(sess)
	require.NoError(t, err)
	require.Len(t, table.Rows, len(names))
	for i, n := range names {
		assert.Equal(t, n, table.Rows[i].Name)
	}
}
