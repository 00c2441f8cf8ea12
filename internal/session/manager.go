package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"gradebook/internal/model"
	"gradebook/internal/store"
)

// CookieName identifies the session cookie.
const CookieName = "gradebook_session"

// Manager owns every live session and expires idle ones.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  store.Factory
	ttl      time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

func NewManager(factory store.Factory, ttl time.Duration, log zerolog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		factory:  factory,
		ttl:      ttl,
		log:      log.With().Str("component", "sessions").Logger(),
		now:      time.Now,
	}
}

// Create starts a new session with an empty store.
func (m *Manager) Create() *Session {
	id := uuid.NewString()
	now := m.now()
	s := New(id, m.factory(id), model.DefaultRegistry(), now)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.log.Debug().Str("session", id).Msg("session created")
	return s
}

// Get returns a live session and marks it as used. The lookup and the touch
// happen under one lock so Sweep cannot expire a session being handed out.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	s.touch(m.now())
	return s, true
}

// Resolve returns the session for id, creating one when id is unknown.
func (m *Manager) Resolve(id string) (s *Session, created bool) {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}
	return m.Create(), true
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep destroys sessions idle for longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		if err := s.destroy(); err != nil {
			m.log.Error().Err(err).Str("session", s.ID).Msg("failed to clear expired session")
		}
	}
	if len(expired) > 0 {
		m.log.Info().Int("expired", len(expired)).Int("live", m.Len()).Msg("swept idle sessions")
	}
	return len(expired)
}

// Close destroys every live session, clearing their stores.
func (m *Manager) Close() error {
	m.mu.Lock()
	live := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		live = append(live, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	var firstErr error
	for _, s := range live {
		if err := s.destroy(); err != nil {
			m.log.Error().Err(err).Str("session", s.ID).Msg("failed to clear session")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	m.log.Info().Int("closed", len(live)).Msg("sessions closed")
	return firstErr
}

// StartSweeper schedules Sweep on a cron spec such as "@every 5m".
func (m *Manager) StartSweeper(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { m.Sweep() }); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// Middleware attaches the caller's session to the request context, issuing a
// cookie when a new session is created.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(CookieName); err == nil {
			id = c.Value
		}

		s, created := m.Resolve(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    s.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}
