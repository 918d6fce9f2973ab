package domain

import "time"

// Category is one of the fixed question topics of the complexity quiz.
type Category string

const (
	CategoryProjectType Category = "project-type"
	CategoryTimeline    Category = "timeline"
	CategoryReadiness   Category = "readiness"
	CategoryTeamType    Category = "team-type"
	CategoryGoal        Category = "goal"
)

// Categories lists the categories in question order (position 1..N).
var Categories = []Category{
	CategoryProjectType,
	CategoryTimeline,
	CategoryReadiness,
	CategoryTeamType,
	CategoryGoal,
}

// QuestionCount is N, the number of questions in a quiz session.
var QuestionCount = len(Categories)

// CategoryAt returns the category for a 1-based position.
func CategoryAt(position int) (Category, bool) {
	if position < 1 || position > len(Categories) {
		return "", false
	}
	return Categories[position-1], true
}

// Answer is the most recent selection for one question.
type Answer struct {
	Value  string `json:"value"`
	Weight int    `json:"weight"`
}

// AnswerSet maps a question identifier to its answer. It may be partial.
type AnswerSet map[Category]Answer

// Lookup returns the answer for a category, reporting whether one exists.
func (s AnswerSet) Lookup(c Category) (Answer, bool) {
	if s == nil {
		return Answer{}, false
	}
	a, ok := s[c]
	return a, ok
}

// Value returns the raw selected token or "" when unanswered.
func (s AnswerSet) Value(c Category) string {
	a, _ := s.Lookup(c)
	return a.Value
}

// Clone returns an independent copy.
func (s AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Option is an allowed answer with its pre-assigned weight.
type Option struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Weight int    `json:"weight"`
}

// Question is a static quiz question.
type Question struct {
	ID       Category `json:"id"`
	Position int      `json:"position"`
	Prompt   string   `json:"prompt"`
	Options  []Option `json:"options"`
}

// Catalog is a complete question set.
type Catalog struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// Question returns the question for a category.
func (c Catalog) Question(id Category) (Question, bool) {
	for _, q := range c.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// OptionWeight returns the catalog weight for a question option.
func (c Catalog) OptionWeight(id Category, value string) (int, bool) {
	q, ok := c.Question(id)
	if !ok {
		return 0, false
	}
	for _, opt := range q.Options {
		if opt.ID == value {
			return opt.Weight, true
		}
	}
	return 0, false
}

// Tier is a score bucket driving the next-steps ladder.
type Tier string

const (
	TierExcellentFit Tier = "excellent-fit"
	TierGoodFit      Tier = "good-fit"
	TierPotentialFit Tier = "potential-fit"
	TierConsultation Tier = "consultation-recommended"
)

// NextSteps is a titled, ordered plan.
type NextSteps struct {
	Title string   `json:"title"`
	Steps []string `json:"steps"`
}

// Recommendation is derived from an AnswerSet and its score.
type Recommendation struct {
	ProjectSummary   string    `json:"projectSummary"`
	TimelineEstimate string    `json:"timelineEstimate"`
	Approach         string    `json:"approach"`
	Tier             Tier      `json:"tier"`
	NextSteps        NextSteps `json:"nextSteps"`
}

// Result is what the presenter renders once the quiz is complete.
type Result struct {
	Score          int            `json:"score"`
	Recommendation Recommendation `json:"recommendation"`
}

// Contact is the visitor's lead-capture details.
type Contact struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

// LeadForm is the flattened key/value record handed to the form relay.
type LeadForm map[string]string

// LeadRecord is the backup copy of a captured lead.
type LeadRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Answers   AnswerSet `json:"answers"`
	Score     int       `json:"score"`
}

// SubmitOutcome distinguishes how the relay handled a lead.
type SubmitOutcome string

const (
	OutcomeSuccess  SubmitOutcome = "success"
	OutcomeFallback SubmitOutcome = "fallback"
	OutcomeFailure  SubmitOutcome = "failure"
)

// SubmitResult is the sink's answer for one submission attempt.
type SubmitResult struct {
	Outcome   SubmitOutcome `json:"outcome"`
	Message   string        `json:"message"`
	MailtoURL string        `json:"mailtoUrl,omitempty"`
}

// LeadReceipt is returned to the visitor after a lead submission attempt.
type LeadReceipt struct {
	LeadID    string        `json:"leadId"`
	Outcome   SubmitOutcome `json:"outcome"`
	Message   string        `json:"message"`
	MailtoURL string        `json:"mailtoUrl,omitempty"`
}

// ConsentRecord stores a visitor's cookie choice.
type ConsentRecord struct {
	Analytics bool      `json:"analytics"`
	Timestamp time.Time `json:"timestamp"`
	Expires   time.Time `json:"expires"`
	Version   string    `json:"version"`
}

// Expired reports whether the consent is no longer valid at now.
func (c ConsentRecord) Expired(now time.Time) bool {
	return !c.Expires.After(now)
}
