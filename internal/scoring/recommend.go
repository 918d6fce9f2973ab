package scoring

import (
	"fmt"
	"strings"

	"complexity-quiz-service/internal/domain"
)

// Generate derives the recommendation for an AnswerSet and its score.
// It never fails: missing or unknown answers produce the fallback texts.
func Generate(answers domain.AnswerSet, score int) domain.Recommendation {
	tier, steps := nextSteps(score)
	return domain.Recommendation{
		ProjectSummary:   projectSummary(answers),
		TimelineEstimate: timelineEstimate(answers),
		Approach:         approach(answers),
		Tier:             tier,
		NextSteps:        steps,
	}
}

// Evaluate computes the score and recommendation together.
func Evaluate(answers domain.AnswerSet) domain.Result {
	score := ComputeScore(answers)
	return domain.Result{
		Score:          score,
		Recommendation: Generate(answers, score),
	}
}

func projectSummary(answers domain.AnswerSet) string {
	label, ok := projectLabels[answers.Value(domain.CategoryProjectType)]
	if !ok {
		label = customProjectLabel
	}
	timeline := answers.Value(domain.CategoryTimeline)
	if timeline == "" {
		timeline = defaultTimeline
	}
	return fmt.Sprintf("%s with a %s timeline", label, strings.ReplaceAll(timeline, "-", " to "))
}

func timelineEstimate(answers domain.AnswerSet) string {
	r := estimateRange(answers)
	return fmt.Sprintf("%d-%d weeks", r.min, r.max)
}

func estimateRange(answers domain.AnswerSet) weekRange {
	r, ok := baseTimelines[answers.Value(domain.CategoryProjectType)]
	if !ok {
		r = defaultRange
	}
	switch answers.Value(domain.CategoryReadiness) {
	case ReadinessIdea:
		r.min += 2
		r.max += 4
	case ReadinessDesigned:
		r.min = max(r.min-2, 1)
		r.max = max(r.max-2, 2)
	}
	return r
}

func approach(answers domain.AnswerSet) string {
	if text, ok := approaches[answers.Value(domain.CategoryTeamType)]; ok {
		return text
	}
	return defaultApproach
}

func nextSteps(score int) (domain.Tier, domain.NextSteps) {
	for _, t := range tiers {
		if score >= t.minScore {
			return t.tier, copySteps(t.steps)
		}
	}
	last := tiers[len(tiers)-1]
	return last.tier, copySteps(last.steps)
}

// copySteps keeps callers from mutating the static tables.
func copySteps(s domain.NextSteps) domain.NextSteps {
	return domain.NextSteps{
		Title: s.Title,
		Steps: append([]string(nil), s.Steps...),
	}
}
