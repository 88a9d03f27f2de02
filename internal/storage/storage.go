package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/catalog-browser/catalog/internal/carousel"
	"github.com/catalog-browser/catalog/internal/filter"
	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or expired session IDs
var ErrSessionNotFound = errors.New("session not found")

// Session is one viewer's browsing state: a facet selection and at most one open
// detail view with its carousel.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	filters    *filter.Engine
	carousel   *carousel.Controller
	openRecord string
	lastSeen   time.Time
}

// Do runs fn with exclusive access to the session's components
func (s *Session) Do(fn func(filters *filter.Engine, c *carousel.Controller, openRecord *string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	fn(s.filters, s.carousel, &s.openRecord)
}

// LastSeen returns when the session was last used
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionStore keeps viewer sessions in memory
type SessionStore struct {
	sessions map[string]*Session
	facets   []string
	mu       sync.RWMutex
}

// New creates a store whose sessions filter on facets
func New(facets ...string) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		facets:   facets,
	}
}

// Create starts a new session with an empty selection and a closed carousel
func (s *SessionStore) Create() *Session {
	now := time.Now()
	session := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		filters:   filter.New(s.facets...),
		carousel:  carousel.New(),
		lastSeen:  now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return session
}

// Get returns the session with the given ID
func (s *SessionStore) Get(sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Delete removes a session
func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Prune removes sessions idle for longer than ttl and returns how many were removed
func (s *SessionStore) Prune(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.LastSeen().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
