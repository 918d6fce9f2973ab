// Package quiz holds the quiz session state machine. Every function takes a
// State value and returns a new one; callers own persistence.
package quiz

import (
	"time"

	"complexity-quiz-service/internal/domain"
)

// Phase is the coarse state of a quiz session.
type Phase string

const (
	PhaseAnswering Phase = "answering"
	PhaseResults   Phase = "results"
)

// State is a snapshot of one visitor's quiz session.
type State struct {
	ID        string           `json:"id"`
	Phase     Phase            `json:"phase"`
	Index     int              `json:"index"`
	Answers   domain.AnswerSet `json:"answers"`
	StartedAt time.Time        `json:"startedAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// NewState returns a session answering question 1.
func NewState(id string, now time.Time) State {
	return State{
		ID:        id,
		Phase:     PhaseAnswering,
		Index:     1,
		Answers:   domain.AnswerSet{},
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Current returns the category of the question being answered.
func (s State) Current() domain.Category {
	c, _ := domain.CategoryAt(s.Index)
	return c
}

// Complete reports whether the session reached the results phase.
func (s State) Complete() bool {
	return s.Phase == PhaseResults
}

// RecordAnswer stores or overwrites the answer for questionID.
func RecordAnswer(s State, questionID domain.Category, value string, weight int) (State, error) {
	if s.Complete() {
		return s, domain.ErrQuizComplete
	}
	next := s
	next.Answers = s.Answers.Clone()
	next.Answers[questionID] = domain.Answer{Value: value, Weight: weight}
	return next, nil
}

// Advance moves to the next question. On an answered final question it moves
// to PhaseResults and reports true.
func Advance(s State) (State, bool, error) {
	if s.Complete() {
		return s, false, domain.ErrQuizComplete
	}
	if _, ok := s.Answers.Lookup(s.Current()); !ok {
		return s, false, domain.ErrQuestionUnanswered
	}
	next := s
	if s.Index >= domain.QuestionCount {
		next.Phase = PhaseResults
		return next, true, nil
	}
	next.Index++
	return next, false, nil
}

// Retreat moves back one question; it is a no-op on the first question.
func Retreat(s State) (State, error) {
	if s.Complete() {
		return s, domain.ErrQuizComplete
	}
	next := s
	if next.Index > 1 {
		next.Index--
	}
	return next, nil
}
