package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/sahilverma/nursestation-go/pkg/models"
)

// ErrNotFound is returned when a session id is unknown.
var ErrNotFound = errors.New("session not found")

// Store keeps interview transcripts in memory, keyed by session id.
// Sessions do not survive a restart; the transcript always travels with
// the chat request as well, so a lost session only loses the server-side
// copy.
type Store struct {
	mu       sync.RWMutex
	sessions map[string][]models.ChatMessage
}

func NewStore() *Store {
	return &Store{sessions: make(map[string][]models.ChatMessage)}
}

// Create opens a new session seeded with the given messages and returns
// its id.
func (s *Store) Create(messages []models.ChatMessage) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = append([]models.ChatMessage(nil), messages...)
	return id
}

// Append adds messages to an existing session.
func (s *Store) Append(id string, messages ...models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	s.sessions[id] = append(s.sessions[id], messages...)
	return nil
}

// Transcript returns a copy of the session's messages so callers can
// read it without holding the store lock.
func (s *Store) Transcript(id string) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]models.ChatMessage(nil), msgs...), nil
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
