package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"complexity-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// LeadBackupKey is the list every captured lead is appended to.
const LeadBackupKey = "quiz:leads"

// LeadStore appends lead backups as JSON to a Redis list.
type LeadStore struct {
	client *redis.Client
}

func NewLeadStore(client *redis.Client) *LeadStore {
	return &LeadStore{client: client}
}

func (s *LeadStore) SaveLead(ctx context.Context, lead domain.LeadRecord) error {
	data, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("marshal lead: %w", err)
	}
	if err := s.client.RPush(ctx, LeadBackupKey, data).Err(); err != nil {
		return fmt.Errorf("push lead: %w", err)
	}
	return nil
}

// Leads scans the backup list for email, newest first. An empty email matches every lead.
func (s *LeadStore) Leads(ctx context.Context, email string) ([]domain.LeadRecord, error) {
	items, err := s.client.LRange(ctx, LeadBackupKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	var leads []domain.LeadRecord
	for i := len(items) - 1; i >= 0; i-- {
		var lead domain.LeadRecord
		if err := json.Unmarshal([]byte(items[i]), &lead); err != nil {
			return nil, fmt.Errorf("unmarshal lead: %w", err)
		}
		if email == "" || lead.Email == email {
			leads = append(leads, lead)
		}
	}
	return leads, nil
}
