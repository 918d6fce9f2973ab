package domain

import (
	"testing"
	"time"
)

func TestCategoryAt(t *testing.T) {
	if c, ok := CategoryAt(1); !ok || c != CategoryProjectType {
		t.Fatalf("expected project-type at 1, got %q ok=%v", c, ok)
	}
	if c, ok := CategoryAt(QuestionCount); !ok || c != CategoryGoal {
		t.Fatalf("expected goal last, got %q ok=%v", c, ok)
	}
	for _, pos := range []int{0, QuestionCount + 1} {
		if _, ok := CategoryAt(pos); ok {
			t.Fatalf("expected no category at %d", pos)
		}
	}
}

func TestDefaultCatalogCoversEveryCategory(t *testing.T) {
	catalog := DefaultCatalog()
	for i, c := range Categories {
		q, ok := catalog.Question(c)
		if !ok {
			t.Fatalf("missing question %s", c)
		}
		if q.Position != i+1 || len(q.Options) == 0 {
			t.Fatalf("unexpected question %+v", q)
		}
	}
	if w, ok := catalog.OptionWeight(CategoryReadiness, "idea"); !ok || w != 10 {
		t.Fatalf("expected idea weight 10, got %d ok=%v", w, ok)
	}
	if _, ok := catalog.OptionWeight(CategoryReadiness, "nope"); ok {
		t.Fatalf("expected unknown option to be missing")
	}
}

func TestAnswerSetNilSafe(t *testing.T) {
	var s AnswerSet
	if s.Value(CategoryGoal) != "" {
		t.Fatalf("expected empty value from nil set")
	}
	clone := s.Clone()
	clone[CategoryGoal] = Answer{Value: "scale"}
	if len(s) != 0 {
		t.Fatalf("expected clone to be independent")
	}
}

func TestConsentExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	record := ConsentRecord{Expires: now}
	if !record.Expired(now) {
		t.Fatalf("expected consent to expire at its expiry instant")
	}
	if record.Expired(now.Add(-time.Second)) {
		t.Fatalf("expected consent valid before expiry")
	}
}
