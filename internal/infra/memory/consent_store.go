package memory

import (
	"context"
	"sync"

	"complexity-quiz-service/internal/domain"
)

// ConsentStore is an in-memory implementation of app.ConsentStore.
type ConsentStore struct {
	mu       sync.RWMutex
	consents map[string]domain.ConsentRecord
}

func NewConsentStore() *ConsentStore {
	return &ConsentStore{consents: make(map[string]domain.ConsentRecord)}
}

func (s *ConsentStore) GetConsent(_ context.Context, visitorID string) (domain.ConsentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.consents[visitorID]
	if !ok {
		return domain.ConsentRecord{}, domain.ErrConsentNotFound
	}
	return record, nil
}

func (s *ConsentStore) SaveConsent(_ context.Context, visitorID string, record domain.ConsentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consents[visitorID] = record
	return nil
}

func (s *ConsentStore) DeleteConsent(_ context.Context, visitorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.consents, visitorID)
	return nil
}
