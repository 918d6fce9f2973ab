package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"complexity-quiz-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestConsentStoreExpiresWithRecord(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	store := NewConsentStore(newClient(mr))
	store.now = func() time.Time { return now }

	record := domain.ConsentRecord{Analytics: true, Timestamp: now, Expires: now.Add(48 * time.Hour), Version: "1.0"}
	if err := store.SaveConsent(ctx, "v1", record); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ttl := mr.TTL("consent:v1"); ttl != 48*time.Hour {
		t.Fatalf("expected ttl to match expiry, got %s", ttl)
	}

	got, err := store.GetConsent(ctx, "v1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Analytics || got.Version != "1.0" {
		t.Fatalf("unexpected record %+v", got)
	}

	mr.FastForward(49 * time.Hour)
	if _, err := store.GetConsent(ctx, "v1"); !errors.Is(err, domain.ErrConsentNotFound) {
		t.Fatalf("expected consent to expire, got %v", err)
	}
}

func TestConsentStoreSkipsExpiredRecord(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewConsentStore(newClient(mr))
	record := domain.ConsentRecord{Expires: time.Now().Add(-time.Hour)}
	if err := store.SaveConsent(ctx, "v1", record); err != nil {
		t.Fatalf("save: %v", err)
	}
	if mr.Exists("consent:v1") {
		t.Fatalf("expected expired consent not to be stored")
	}
}
