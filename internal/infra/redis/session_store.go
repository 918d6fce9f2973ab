package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"complexity-quiz-service/internal/domain"
	"complexity-quiz-service/internal/quiz"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis implementation of app.SessionRepository.
// Each session is a JSON document under quiz:session:{id}; every save refreshes the TTL,
// so abandoned sessions expire on their own.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (quiz.State, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return quiz.State{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return quiz.State{}, fmt.Errorf("get session: %w", err)
	}
	var state quiz.State
	if err := json.Unmarshal(data, &state); err != nil {
		return quiz.State{}, fmt.Errorf("unmarshal session: %w", err)
	}
	if state.Answers == nil {
		state.Answers = domain.AnswerSet{}
	}
	return state, nil
}

func (s *SessionStore) Save(ctx context.Context, state quiz.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(state.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
