package app

import (
	"context"
	"errors"
	"log"
	"time"

	"complexity-quiz-service/internal/domain"
	"complexity-quiz-service/internal/metrics"
)

const (
	DefaultConsentExpiry  = 365 * 24 * time.Hour
	DefaultConsentVersion = "1.0"
)

// ConsentStore persists cookie consent per visitor.
type ConsentStore interface {
	GetConsent(ctx context.Context, visitorID string) (domain.ConsentRecord, error)
	SaveConsent(ctx context.Context, visitorID string, record domain.ConsentRecord) error
	DeleteConsent(ctx context.Context, visitorID string) error
}

// ConsentService manages cookie consent choices.
type ConsentService struct {
	store   ConsentStore
	expiry  time.Duration
	version string
	now     func() time.Time
}

func NewConsentService(store ConsentStore, expiry time.Duration, version string) *ConsentService {
	if expiry <= 0 {
		expiry = DefaultConsentExpiry
	}
	if version == "" {
		version = DefaultConsentVersion
	}
	return &ConsentService{store: store, expiry: expiry, version: version, now: time.Now}
}

// WithClock replaces the time source; used for deterministic expiry in tests.
func (s *ConsentService) WithClock(now func() time.Time) *ConsentService {
	s.now = now
	return s
}

// Get returns the visitor's unexpired consent. Expired records are removed.
func (s *ConsentService) Get(ctx context.Context, visitorID string) (domain.ConsentRecord, error) {
	record, err := s.store.GetConsent(ctx, visitorID)
	if err != nil {
		return domain.ConsentRecord{}, err
	}
	if record.Expired(s.now()) {
		if err := s.store.DeleteConsent(ctx, visitorID); err != nil && !errors.Is(err, domain.ErrConsentNotFound) {
			log.Printf("delete expired consent for %s: %v", visitorID, err)
		}
		return domain.ConsentRecord{}, domain.ErrConsentNotFound
	}
	return record, nil
}

// AcceptAll enables analytics cookies.
func (s *ConsentService) AcceptAll(ctx context.Context, visitorID string) (domain.ConsentRecord, error) {
	return s.SavePreferences(ctx, visitorID, true)
}

// RejectAll keeps only essential cookies.
func (s *ConsentService) RejectAll(ctx context.Context, visitorID string) (domain.ConsentRecord, error) {
	return s.SavePreferences(ctx, visitorID, false)
}

// SavePreferences stores an explicit analytics choice.
func (s *ConsentService) SavePreferences(ctx context.Context, visitorID string, analytics bool) (domain.ConsentRecord, error) {
	now := s.now().UTC()
	record := domain.ConsentRecord{
		Analytics: analytics,
		Timestamp: now,
		Expires:   now.Add(s.expiry),
		Version:   s.version,
	}
	if err := s.store.SaveConsent(ctx, visitorID, record); err != nil {
		return domain.ConsentRecord{}, err
	}
	metrics.IncConsentDecision(analytics)
	return record, nil
}
