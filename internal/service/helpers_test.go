package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gradebook/internal/model"
	"gradebook/internal/session"
	"gradebook/internal/store"
)

func newSession() *session.Session {
	return session.New("test-session", store.NewMemoryStore(), model.DefaultRegistry(), time.Now())
}

func seed(t *testing.T, sess *session.Session, rows ...[]int) {
	t.Helper()
	for i, marks := range rows {
		rec, err := model.NewRecord("Student"+string(rune('A'+i)), string(rune('1'+i)), marks, model.Standard)
		require.NoError(t, err)
		require.NoError(t, sess.Add(rec))
	}
}

func tableOf(t *testing.T, rows ...[]int) model.Table {
	t.Helper()
	sess := newSession()
	seed(t, sess, rows...)
	table, err := sess.Table()
	require.NoError(t, err)
	return table
}

// MockStore lets tests make the backing store fail.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Add(rec model.Record) error {
	args := m.Called(rec)
	return args.Error(0)
}

func (m *MockStore) Records() ([]model.Record, error) {
	args := m.Called()
	recs, _ := args.Get(0).([]model.Record)
	return recs, args.Error(1)
}

func (m *MockStore) Len() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}
