// Package session owns per-session conversation state.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/weblog-assistant/backend/internal/models"
)

// Store maps session identifiers to conversation state. Each session has its
// own lock, so concurrent turns on one session serialize while turns on
// different sessions proceed independently. Sessions are retained for the
// process lifetime unless CleanupOldSessions is wired up.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*managedSession
}

type managedSession struct {
	mu    sync.Mutex
	state models.ChatSession
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*managedSession)}
}

// NewSessionID returns a fresh identifier for callers that arrive without one.
func NewSessionID() string {
	return uuid.New().String()
}

// Turn runs fn with exclusive access to the session's state, creating the
// session on first use. fn sees the current state and mutates it in place on
// success; if fn returns an error the mutation is expected to have been
// skipped, leaving the turn idempotent for retries.
func (s *Store) Turn(id string, fn func(state *models.ChatSession) error) error {
	ms := s.getOrCreate(id)

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.state.LastAccessed = time.Now()
	return fn(&ms.state)
}

// Get returns a copy of the session's current state.
func (s *Store) Get(id string) (models.ChatSession, bool) {
	s.mu.RLock()
	ms, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return models.ChatSession{}, false
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.state, true
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CleanupOldSessions drops sessions idle for longer than maxAge and returns
// how many were removed.
func (s *Store) CleanupOldSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, ms := range s.sessions {
		ms.mu.Lock()
		idle := ms.state.LastAccessed.Before(cutoff)
		ms.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		slog.Info("cleaned up idle sessions", "removed", removed, "remaining", len(s.sessions))
	}
	return removed
}

func (s *Store) getOrCreate(id string) *managedSession {
	s.mu.RLock()
	ms, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return ms
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ms, ok = s.sessions[id]; ok {
		return ms
	}
	ms = &managedSession{state: models.ChatSession{
		ID:           id,
		Messages:     make([]models.ConversationTurn, 0),
		LastAccessed: time.Now(),
	}}
	s.sessions[id] = ms
	return ms
}
