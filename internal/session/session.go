package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"gradebook/internal/model"
	"gradebook/internal/store"
)

// Session is one browser's record store and grading registry. Operations on a
// session are serialised.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	store    store.Store
	registry model.Registry
	lastSeen atomic.Int64 // unix nanoseconds
}

// New creates a session around st.
func New(id string, st store.Store, reg model.Registry, now time.Time) *Session {
	s := &Session{
		ID:        id,
		CreatedAt: now,
		store:     st,
		registry:  reg,
	}
	s.touch(now)
	return s
}

// Add appends one record.
func (s *Session) Add(rec model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Add(rec)
}

// AddAll appends records in order, stopping at the first store error. It
// returns how many were stored.
func (s *Session) AddAll(recs []model.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range recs {
		if err := s.store.Add(rec); err != nil {
			return i, err
		}
	}
	return len(recs), nil
}

// Table projects the current records.
func (s *Session) Table() (model.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.store.Records()
	if err != nil {
		return model.Table{}, err
	}
	return model.Project(recs, s.registry), nil
}

// Len is the number of stored records.
func (s *Session) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clear()
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by WithSession, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
