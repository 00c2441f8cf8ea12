package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/stretchr/testify/mock"

	"gradebook/internal/model"
	"gradebook/internal/service"
	"gradebook/internal/session"
	"gradebook/internal/store"
)

type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) Submit(sess *session.Session, form service.RecordForm) (model.Row, error) {
	args := m.Called(sess, form)
	return args.Get(0).(model.Row), args.Error(1)
}

func (m *MockRecordService) Table(sess *session.Session) (model.Table, error) {
	args := m.Called(sess)
	return args.Get(0).(model.Table), args.Error(1)
}

type MockChartService struct {
	mock.Mock
}

func (m *MockChartService) Kinds() []string {
	return m.Called().Get(0).([]string)
}

func (m *MockChartService) Build(kind string, table model.Table) (*service.ChartConfig, error) {
	args := m.Called(kind, table)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChartConfig), args.Error(1)
}

func (m *MockChartService) RenderSVG(kind string, table model.Table, w io.Writer) error {
	args := m.Called(kind, table, w)
	return args.Error(0)
}

func testSession() *session.Session {
	return session.New("test", store.NewMemoryStore(), model.DefaultRegistry(), time.Now())
}

// withSession runs req through h with sess attached, the way the session
// middleware would.
func withSession(h http.HandlerFunc, sess *session.Session, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req.WithContext(session.WithSession(req.Context(), sess)))
	return w
}
