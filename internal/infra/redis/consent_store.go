package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"complexity-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ConsentStore keeps cookie consent under consent:{visitorID}, expiring with the record.
type ConsentStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewConsentStore(client *redis.Client) *ConsentStore {
	return &ConsentStore{client: client, now: time.Now}
}

func (s *ConsentStore) GetConsent(ctx context.Context, visitorID string) (domain.ConsentRecord, error) {
	data, err := s.client.Get(ctx, s.key(visitorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ConsentRecord{}, domain.ErrConsentNotFound
	}
	if err != nil {
		return domain.ConsentRecord{}, fmt.Errorf("get consent: %w", err)
	}
	var record domain.ConsentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.ConsentRecord{}, fmt.Errorf("unmarshal consent: %w", err)
	}
	return record, nil
}

func (s *ConsentStore) SaveConsent(ctx context.Context, visitorID string, record domain.ConsentRecord) error {
	ttl := record.Expires.Sub(s.now())
	if ttl <= 0 {
		return s.DeleteConsent(ctx, visitorID)
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal consent: %w", err)
	}
	if err := s.client.Set(ctx, s.key(visitorID), data, ttl).Err(); err != nil {
		return fmt.Errorf("save consent: %w", err)
	}
	return nil
}

func (s *ConsentStore) DeleteConsent(ctx context.Context, visitorID string) error {
	if err := s.client.Del(ctx, s.key(visitorID)).Err(); err != nil {
		return fmt.Errorf("delete consent: %w", err)
	}
	return nil
}

func (s *ConsentStore) key(visitorID string) string {
	return "consent:" + visitorID
}
