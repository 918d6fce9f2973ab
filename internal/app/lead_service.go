package app

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"complexity-quiz-service/internal/domain"
	"complexity-quiz-service/internal/metrics"
	"complexity-quiz-service/internal/quiz"
	"github.com/google/uuid"
)

// LeadSource tags leads captured by the complexity quiz.
const LeadSource = "complexity-quiz"

const (
	msgLeadSuccess  = "Thanks! Your project report is on its way and we'll be in touch within one business day."
	msgLeadFallback = "Your email app should open with your results filled in. Just press send and we'll get back to you."
	msgLeadFailure  = "Sorry, we couldn't send your details right now. Please try again in a moment or email us directly."
)

// LeadStore keeps a backup copy of every captured lead.
type LeadStore interface {
	SaveLead(ctx context.Context, lead domain.LeadRecord) error
}

// LeadReader lists archived leads for an email address, newest first.
// An empty email lists every lead.
type LeadReader interface {
	Leads(ctx context.Context, email string) ([]domain.LeadRecord, error)
}

// LeadSink hands the flattened lead to the external form relay.
type LeadSink interface {
	Submit(ctx context.Context, form domain.LeadForm) domain.SubmitResult
}

// LeadNotifier tells the site owner about a new lead.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, lead domain.LeadRecord, result domain.Result) error
}

// LeadCapturedEvent is published after each submission attempt that did not hard-fail.
type LeadCapturedEvent struct {
	LeadID    string               `json:"leadId"`
	SessionID string               `json:"sessionId"`
	Score     int                  `json:"score"`
	Outcome   domain.SubmitOutcome `json:"outcome"`
	At        time.Time            `json:"at"`
}

// LeadService turns a completed quiz plus contact details into a lead.
type LeadService struct {
	quizzes  *QuizService
	store    LeadStore
	sink     LeadSink
	events   EventPublisher
	notifier LeadNotifier
	now      func() time.Time
	newID    func() string
}

func NewLeadService(quizzes *QuizService, store LeadStore, sink LeadSink, events EventPublisher) *LeadService {
	return &LeadService{
		quizzes: quizzes,
		store:   store,
		sink:    sink,
		events:  events,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// WithNotifier sets an optional owner notifier.
func (s *LeadService) WithNotifier(n LeadNotifier) *LeadService {
	s.notifier = n
	return s
}

// SubmitLead validates the contact, stores a backup record and submits it once.
// Relay failures are reported through the receipt, never as an error.
func (s *LeadService) SubmitLead(ctx context.Context, sessionID string, contact domain.Contact) (domain.LeadReceipt, error) {
	contact, err := normalizeContact(contact)
	if err != nil {
		return domain.LeadReceipt{}, err
	}
	result, state, err := s.quizzes.Results(ctx, sessionID)
	if err != nil {
		return domain.LeadReceipt{}, err
	}

	record := domain.LeadRecord{
		ID:        s.newID(),
		SessionID: state.ID,
		Email:     contact.Email,
		Name:      contact.Name,
		Company:   contact.Company,
		Timestamp: s.now().UTC(),
		Source:    LeadSource,
		Answers:   state.Answers,
		Score:     result.Score,
	}
	if s.store != nil {
		if err := s.store.SaveLead(ctx, record); err != nil {
			log.Printf("save lead backup %s: %v", record.ID, err)
		}
	}

	submitted := s.sink.Submit(ctx, BuildLeadForm(contact, state, result))
	metrics.IncLeadSubmission(submitted.Outcome)

	receipt := domain.LeadReceipt{
		LeadID:    record.ID,
		Outcome:   submitted.Outcome,
		Message:   leadMessage(submitted.Outcome),
		MailtoURL: submitted.MailtoURL,
	}
	if submitted.Outcome == domain.OutcomeFailure {
		log.Printf("lead %s relay failure: %s", record.ID, submitted.Message)
		return receipt, nil
	}

	s.announce(ctx, record, result, submitted.Outcome)
	return receipt, nil
}

func (s *LeadService) announce(ctx context.Context, record domain.LeadRecord, result domain.Result, outcome domain.SubmitOutcome) {
	if s.events != nil {
		event := LeadCapturedEvent{
			LeadID:    record.ID,
			SessionID: record.SessionID,
			Score:     record.Score,
			Outcome:   outcome,
			At:        record.Timestamp,
		}
		if err := s.events.Publish(ctx, RoutingLeadCaptured, event); err != nil {
			log.Printf("publish %s for lead %s: %v", RoutingLeadCaptured, record.ID, err)
		}
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyLead(ctx, record, result); err != nil {
			log.Printf("notify lead %s: %v", record.ID, err)
		}
	}
}

// BuildLeadForm flattens a lead into the key/value record sent to the relay.
func BuildLeadForm(contact domain.Contact, state quiz.State, result domain.Result) domain.LeadForm {
	form := domain.LeadForm{
		"email":             contact.Email,
		"name":              contact.Name,
		"company":           contact.Company,
		"score":             strconv.Itoa(result.Score),
		"timeline_estimate": result.Recommendation.TimelineEstimate,
		"approach":          result.Recommendation.Approach,
		"source":            LeadSource,
	}
	for _, category := range domain.Categories {
		form[string(category)] = state.Answers.Value(category)
	}
	return form
}

// Leads returns the archived leads for email when the store can be read back.
func (s *LeadService) Leads(ctx context.Context, email string) ([]domain.LeadRecord, error) {
	contact, err := normalizeContact(domain.Contact{Email: email})
	if err != nil {
		return nil, err
	}
	reader, ok := s.store.(LeadReader)
	if !ok {
		return nil, domain.ErrLeadExportUnsupported
	}
	leads, err := reader.Leads(ctx, contact.Email)
	if err != nil {
		return nil, fmt.Errorf("read leads: %w", err)
	}
	if leads == nil {
		leads = []domain.LeadRecord{}
	}
	return leads, nil
}

func normalizeContact(c domain.Contact) (domain.Contact, error) {
	c.Email = strings.TrimSpace(c.Email)
	c.Name = strings.TrimSpace(c.Name)
	c.Company = strings.TrimSpace(c.Company)
	if c.Email == "" {
		return c, fmt.Errorf("%w: email is required", domain.ErrInvalidLead)
	}
	addr, err := mail.ParseAddress(c.Email)
	if err != nil {
		return c, fmt.Errorf("%w: %v", domain.ErrInvalidLead, err)
	}
	c.Email = addr.Address
	return c, nil
}

func leadMessage(outcome domain.SubmitOutcome) string {
	switch outcome {
	case domain.OutcomeSuccess:
		return msgLeadSuccess
	case domain.OutcomeFallback:
		return msgLeadFallback
	default:
		return msgLeadFailure
	}
}
