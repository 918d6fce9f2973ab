package memory

import (
	"context"
	"sync"

	"complexity-quiz-service/internal/domain"
)

// LeadStore keeps lead backups in process memory.
type LeadStore struct {
	mu    sync.Mutex
	leads []domain.LeadRecord
}

func NewLeadStore() *LeadStore {
	return &LeadStore{}
}

func (s *LeadStore) SaveLead(_ context.Context, lead domain.LeadRecord) error {
	lead.Answers = lead.Answers.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(s.leads, lead)
	return nil
}

// Leads returns stored leads for email, newest first. An empty email matches every lead.
func (s *LeadStore) Leads(_ context.Context, email string) ([]domain.LeadRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.LeadRecord
	for i := len(s.leads) - 1; i >= 0; i-- {
		if email == "" || s.leads[i].Email == email {
			lead := s.leads[i]
			lead.Answers = lead.Answers.Clone()
			out = append(out, lead)
		}
	}
	return out, nil
}
