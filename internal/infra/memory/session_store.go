package memory

import (
	"context"
	"sync"

	"complexity-quiz-service/internal/domain"
	"complexity-quiz-service/internal/quiz"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// States are copied in and out so callers never share answer maps.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]quiz.State
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]quiz.State),
	}
}

func (s *SessionStore) Get(_ context.Context, sessionID string) (quiz.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		return quiz.State{}, domain.ErrSessionNotFound
	}
	state.Answers = state.Answers.Clone()
	return state, nil
}

func (s *SessionStore) Save(_ context.Context, state quiz.State) error {
	state.Answers = state.Answers.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.ID] = state
	return nil
}
