// Package storage provides in-memory storage for active learning sessions.
package storage

import (
	"sync"

	"github.com/viktosha/grammar-tutor-bot/internal/domain/entities"
)

// SessionStorage holds the active session of each user. A session is
// navigation state only; everything durable lives in the progress store.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*entities.Session
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[int64]*entities.Session),
	}
}

// Store saves the session for a given user ID.
func (s *SessionStorage) Store(userID int64, session *entities.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session
}

// Get retrieves the session for a given user ID, or nil.
func (s *SessionStorage) Get(userID int64) *entities.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[userID]
}

// Delete removes the session for a given user ID.
func (s *SessionStorage) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
