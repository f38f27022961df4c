// Package session owns the per-visitor analysis histories.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sentimentd/internal/domain"
	"github.com/kailas-cloud/sentimentd/internal/domain/history"
)

// Session is one interactive session and its history.
type Session struct {
	id       string
	history  *history.History
	lastSeen time.Time
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// History returns the session's history. Never nil.
func (s *Session) History() *history.History { return s.history }

// Store keeps live sessions in memory. Sessions idle longer than the
// configured timeout are discarded together with their history.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idle     time.Duration
	now      func() time.Time
	newID    func() string
	active   prometheus.Gauge
	logger   *zap.Logger
}

// New creates a Store. idle <= 0 disables expiry. active tracks the number of
// held sessions and may be nil.
func New(idle time.Duration, active prometheus.Gauge, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions: make(map[string]*Session),
		idle:     idle,
		now:      time.Now,
		newID:    uuid.NewString,
		active:   active,
		logger:   logger,
	}
}

// WithClock overrides the clock used for idle expiry.
func (st *Store) WithClock(now func() time.Time) *Store {
	st.now = now
	return st
}

// Create starts a new session with an empty history.
func (st *Store) Create() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.sweepLocked()

	s := &Session{id: st.newID(), history: history.New(), lastSeen: st.now()}
	st.sessions[s.id] = s
	st.reportLocked()

	st.logger.Debug("Session created", zap.String("session_id", s.id))
	return s
}

// Get returns a live session and refreshes its idle timer.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if st.expiredLocked(s) {
		st.removeLocked(id)
		return nil, domain.ErrSessionNotFound
	}
	s.lastSeen = st.now()
	return s, nil
}

// GetOrCreate returns the session for id, or a fresh one if id is unknown or
// expired. created reports whether a new session was started.
func (st *Store) GetOrCreate(id string) (s *Session, created bool) {
	if id != "" {
		if existing, err := st.Get(id); err == nil {
			return existing, false
		}
	}
	return st.Create(), true
}

// End discards a session and its history.
func (st *Store) End(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	st.removeLocked(id)
	st.logger.Debug("Session ended", zap.String("session_id", id))
	return nil
}

// Len returns the number of sessions currently held, including expired
// sessions not yet swept.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *Store) expiredLocked(s *Session) bool {
	return st.idle > 0 && st.now().Sub(s.lastSeen) > st.idle
}

func (st *Store) removeLocked(id string) {
	delete(st.sessions, id)
	st.reportLocked()
}

func (st *Store) reportLocked() {
	if st.active != nil {
		st.active.Set(float64(len(st.sessions)))
	}
}

func (st *Store) sweepLocked() {
	if st.idle <= 0 {
		return
	}
	for id, s := range st.sessions {
		if st.expiredLocked(s) {
			delete(st.sessions, id)
		}
	}
}
