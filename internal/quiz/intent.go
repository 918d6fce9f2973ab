package quiz

import (
	"time"

	"complexity-quiz-service/internal/domain"
)

// IntentType names a visitor action.
type IntentType string

const (
	IntentAnswer  IntentType = "answer"
	IntentAdvance IntentType = "advance"
	IntentRetreat IntentType = "retreat"
)

// Intent is a single visitor action dispatched to a session.
// QuestionID defaults to the current question.
type Intent struct {
	Type       IntentType      `json:"type"`
	QuestionID domain.Category `json:"questionId,omitempty"`
	Value      string          `json:"value,omitempty"`
	// Weight is only kept for option tokens the catalog does not define;
	// catalog options always score with the catalog weight.
	Weight int `json:"weight,omitempty"`
}

// Apply runs an intent against s. The bool reports whether this intent
// completed the quiz.
func Apply(s State, in Intent, now time.Time) (State, bool, error) {
	var (
		next      State
		completed bool
		err       error
	)
	switch in.Type {
	case IntentAnswer:
		questionID := in.QuestionID
		if questionID == "" {
			questionID = s.Current()
		}
		next, err = RecordAnswer(s, questionID, in.Value, in.Weight)
	case IntentAdvance:
		next, completed, err = Advance(s)
	case IntentRetreat:
		next, err = Retreat(s)
	default:
		return s, false, domain.ErrUnknownIntent
	}
	if err != nil {
		return s, false, err
	}
	next.UpdatedAt = now
	return next, completed, nil
}
