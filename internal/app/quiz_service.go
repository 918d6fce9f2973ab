package app

import (
	"context"
	"log"
	"sync"
	"time"

	"complexity-quiz-service/internal/domain"
	"complexity-quiz-service/internal/metrics"
	"complexity-quiz-service/internal/quiz"
	"complexity-quiz-service/internal/scoring"
	"github.com/google/uuid"
)

// SessionRepository abstracts how quiz session state is stored (in-memory, Redis, etc).
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (quiz.State, error)
	Save(ctx context.Context, state quiz.State) error
}

// CatalogRepository loads question catalogs (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

// EventPublisher emits analytics events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

const (
	RoutingQuizCompleted = "quiz.completed"
	RoutingLeadCaptured  = "lead.captured"
)

// QuizCompletedEvent is published once per session when results are produced.
type QuizCompletedEvent struct {
	SessionID string           `json:"sessionId"`
	Score     int              `json:"score"`
	Tier      domain.Tier      `json:"tier"`
	Answers   domain.AnswerSet `json:"answers"`
	At        time.Time        `json:"at"`
}

// Snapshot is what clients render after every intent.
type Snapshot struct {
	Session  quiz.State       `json:"session"`
	Question *domain.Question `json:"question,omitempty"`
	Result   *domain.Result   `json:"result,omitempty"`
}

// QuizService owns quiz session state and dispatches visitor intents to it.
type QuizService struct {
	sessions  SessionRepository
	catalogs  CatalogRepository
	events    EventPublisher
	catalogID string
	now       func() time.Time
	newID     func() string
	locks     keyedMutex
}

func NewQuizService(store SessionRepository, catalogs CatalogRepository, events EventPublisher, catalogID string) *QuizService {
	if catalogID == "" {
		catalogID = domain.DefaultCatalogID
	}
	return &QuizService{
		sessions:  store,
		catalogs:  catalogs,
		events:    events,
		catalogID: catalogID,
		now:       time.Now,
		newID:     uuid.NewString,
		locks:     keyedMutex{locks: make(map[string]*refLock)},
	}
}

// WithClock replaces the time source; used for deterministic timestamps in tests.
func (s *QuizService) WithClock(now func() time.Time) *QuizService {
	s.now = now
	return s
}

// Catalog returns the active question catalog.
func (s *QuizService) Catalog(ctx context.Context) (domain.Catalog, error) {
	return s.catalogs.GetCatalog(ctx, s.catalogID)
}

// Start creates a new session answering the first question.
func (s *QuizService) Start(ctx context.Context) (Snapshot, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	state := quiz.NewState(s.newID(), s.now().UTC())
	if err := s.sessions.Save(ctx, state); err != nil {
		return Snapshot{}, err
	}
	return snapshot(state, catalog), nil
}

// Get returns the current snapshot of a session.
func (s *QuizService) Get(ctx context.Context, sessionID string) (Snapshot, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return snapshot(state, catalog), nil
}

// Dispatch applies one intent. On a rejected intent the unchanged snapshot is
// returned together with the error so clients can re-render.
func (s *QuizService) Dispatch(ctx context.Context, sessionID string, intent quiz.Intent) (Snapshot, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}

	if intent.Type == quiz.IntentAnswer {
		intent = resolveWeight(catalog, state, intent)
	}

	next, completed, err := quiz.Apply(state, intent, s.now().UTC())
	if err != nil {
		return snapshot(state, catalog), err
	}
	if err := s.sessions.Save(ctx, next); err != nil {
		return Snapshot{}, err
	}

	snap := snapshot(next, catalog)
	if completed && snap.Result != nil {
		s.recordCompletion(ctx, next, *snap.Result)
	}
	return snap, nil
}

// Results recomputes the score and recommendation of a completed session.
func (s *QuizService) Results(ctx context.Context, sessionID string) (domain.Result, quiz.State, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.Result{}, quiz.State{}, err
	}
	if !state.Complete() {
		return domain.Result{}, state, domain.ErrResultsNotReady
	}
	return scoring.Evaluate(state.Answers), state, nil
}

func (s *QuizService) recordCompletion(ctx context.Context, state quiz.State, result domain.Result) {
	metrics.ObserveCompletion(result.Recommendation.Tier, result.Score)
	if s.events == nil {
		return
	}
	event := QuizCompletedEvent{
		SessionID: state.ID,
		Score:     result.Score,
		Tier:      result.Recommendation.Tier,
		Answers:   state.Answers,
		At:        state.UpdatedAt,
	}
	if err := s.events.Publish(ctx, RoutingQuizCompleted, event); err != nil {
		log.Printf("publish %s for session %s: %v", RoutingQuizCompleted, state.ID, err)
	}
}

// resolveWeight replaces the client weight with the catalog weight for known options.
func resolveWeight(catalog domain.Catalog, state quiz.State, intent quiz.Intent) quiz.Intent {
	questionID := intent.QuestionID
	if questionID == "" {
		questionID = state.Current()
	}
	intent.QuestionID = questionID
	if weight, ok := catalog.OptionWeight(questionID, intent.Value); ok {
		intent.Weight = weight
	}
	return intent
}

func snapshot(state quiz.State, catalog domain.Catalog) Snapshot {
	snap := Snapshot{Session: state}
	if state.Complete() {
		result := scoring.Evaluate(state.Answers)
		snap.Result = &result
		return snap
	}
	if q, ok := catalog.Question(state.Current()); ok {
		snap.Question = &q
	}
	return snap
}

// keyedMutex serializes intents per session.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
