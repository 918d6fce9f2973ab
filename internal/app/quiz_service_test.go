package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"complexity-quiz-service/internal/app"
	"complexity-quiz-service/internal/domain"
	"complexity-quiz-service/internal/event"
	"complexity-quiz-service/internal/infra/memory"
	"complexity-quiz-service/internal/quiz"
)

func TestStartOpensFirstQuestion(t *testing.T) {
	service, _ := newTestService()

	snap, err := service.Start(context.Background())
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if snap.Session.ID == "" || snap.Session.Phase != quiz.PhaseAnswering {
		t.Fatalf("unexpected session %+v", snap.Session)
	}
	if snap.Question == nil || snap.Question.ID != domain.CategoryProjectType {
		t.Fatalf("expected first question, got %+v", snap.Question)
	}
	if snap.Result != nil {
		t.Fatalf("expected no result before completion")
	}
}

func TestDispatchCompletesQuiz(t *testing.T) {
	ctx := context.Background()
	service, events := newTestService()
	snap := mustStart(t, service)
	id := snap.Session.ID

	for _, value := range []string{"webapp", "3-months", "requirements", "small-team", "launch-mvp"} {
		snap = mustDispatch(t, service, id, quiz.Intent{Type: quiz.IntentAnswer, Value: value})
		snap = mustDispatch(t, service, id, quiz.Intent{Type: quiz.IntentAdvance})
	}

	if snap.Result == nil {
		t.Fatalf("expected result after final advance")
	}
	// 35 + 35 + 25 + 35 + 30 = 160 -> round(91.43) = 91
	if snap.Result.Score != 91 {
		t.Fatalf("expected score 91, got %d", snap.Result.Score)
	}
	if snap.Result.Recommendation.Tier != domain.TierExcellentFit {
		t.Fatalf("expected excellent fit, got %s", snap.Result.Recommendation.Tier)
	}

	result, state, err := service.Results(ctx, id)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if result.Score != snap.Result.Score || !state.Complete() {
		t.Fatalf("expected stable results, got %+v", result)
	}

	published := events.Events()
	if len(published) != 1 || published[0].RoutingKey != app.RoutingQuizCompleted {
		t.Fatalf("expected one completion event, got %+v", published)
	}
	completed, ok := published[0].Payload.(app.QuizCompletedEvent)
	if !ok || completed.SessionID != id || completed.Score != 91 {
		t.Fatalf("unexpected completion payload %+v", published[0].Payload)
	}
}

func TestDispatchUsesCatalogWeight(t *testing.T) {
	service, _ := newTestService()
	id := mustStart(t, service).Session.ID

	snap := mustDispatch(t, service, id, quiz.Intent{Type: quiz.IntentAnswer, Value: "saas", Weight: 1000})
	if got := snap.Session.Answers[domain.CategoryProjectType]; got.Weight != 35 {
		t.Fatalf("expected catalog weight 35, got %+v", got)
	}

	snap = mustDispatch(t, service, id, quiz.Intent{Type: quiz.IntentAnswer, QuestionID: domain.CategoryGoal, Value: "custom", Weight: 12})
	if got := snap.Session.Answers[domain.CategoryGoal]; got.Weight != 12 || got.Value != "custom" {
		t.Fatalf("expected unknown option to keep its weight, got %+v", got)
	}
}

func TestDispatchRejectsAdvanceWithoutAnswer(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()
	id := mustStart(t, service).Session.ID

	snap, err := service.Dispatch(ctx, id, quiz.Intent{Type: quiz.IntentAdvance})
	if !errors.Is(err, domain.ErrQuestionUnanswered) {
		t.Fatalf("expected unanswered error, got %v", err)
	}
	if snap.Session.Index != 1 || snap.Question == nil {
		t.Fatalf("expected unchanged snapshot, got %+v", snap)
	}

	if _, _, err := service.Results(ctx, id); !errors.Is(err, domain.ErrResultsNotReady) {
		t.Fatalf("expected results not ready, got %v", err)
	}
}

func TestDispatchRetreatKeepsAnswers(t *testing.T) {
	service, _ := newTestService()
	id := mustStart(t, service).Session.ID

	mustDispatch(t, service, id, quiz.Intent{Type: quiz.IntentAnswer, Value: "website"})
	mustDispatch(t, service, id, quiz.Intent{Type: quiz.IntentAdvance})
	snap := mustDispatch(t, service, id, quiz.Intent{Type: quiz.IntentRetreat})

	if snap.Session.Index != 1 || snap.Question.ID != domain.CategoryProjectType {
		t.Fatalf("expected to be back on question 1, got %+v", snap.Session)
	}
	if snap.Session.Answers.Value(domain.CategoryProjectType) != "website" {
		t.Fatalf("expected answer to survive retreat")
	}
}

func TestDispatchUnknownSession(t *testing.T) {
	service, _ := newTestService()
	_, err := service.Dispatch(context.Background(), "missing", quiz.Intent{Type: quiz.IntentAdvance})
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session error, got %v", err)
	}
}

func TestConcurrentAnswersAreSerialized(t *testing.T) {
	service, _ := newTestService()
	id := mustStart(t, service).Session.ID

	categories := []domain.Category{domain.CategoryProjectType, domain.CategoryTimeline, domain.CategoryReadiness, domain.CategoryTeamType, domain.CategoryGoal}
	var wg sync.WaitGroup
	for _, c := range categories {
		wg.Add(1)
		go func(c domain.Category) {
			defer wg.Done()
			if _, err := service.Dispatch(context.Background(), id, quiz.Intent{Type: quiz.IntentAnswer, QuestionID: c, Value: "x"}); err != nil {
				t.Errorf("dispatch %s: %v", c, err)
			}
		}(c)
	}
	wg.Wait()

	snap, err := service.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(snap.Session.Answers) != len(categories) {
		t.Fatalf("expected no lost updates, got %d answers", len(snap.Session.Answers))
	}
}

func TestUnknownCatalog(t *testing.T) {
	catalogs := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(domain.DefaultCatalog()), time.Minute)
	service := app.NewQuizService(memory.NewSessionStore(), catalogs, nil, "other")
	if _, err := service.Start(context.Background()); !errors.Is(err, domain.ErrCatalogNotFound) {
		t.Fatalf("expected catalog error, got %v", err)
	}
}

func newTestService() (*app.QuizService, *event.Recorder) {
	events := event.NewRecorder()
	catalogs := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(domain.DefaultCatalog()), time.Minute)
	service := app.NewQuizService(memory.NewSessionStore(), catalogs, events, "")
	return service, events
}

func mustStart(t *testing.T, service *app.QuizService) app.Snapshot {
	t.Helper()
	snap, err := service.Start(context.Background())
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return snap
}

func mustDispatch(t *testing.T, service *app.QuizService, id string, intent quiz.Intent) app.Snapshot {
	t.Helper()
	snap, err := service.Dispatch(context.Background(), id, intent)
	if err != nil {
		t.Fatalf("dispatch %s failed: %v", intent.Type, err)
	}
	return snap
}
