package scoring

import (
	"math"

	"complexity-quiz-service/internal/domain"
)

const (
	// maxTotal is the calibration sum that maps to 100%.
	maxTotal = 175
	// maxScore caps the normalized score so no result reads as a perfect match.
	maxScore = 99
)

// ComputeScore aggregates per-category contributions into a 0-99 score.
// Missing categories contribute zero, so any partial AnswerSet is valid.
func ComputeScore(answers domain.AnswerSet) int {
	total := 0
	for _, category := range domain.Categories {
		total += contribution(category, answers)
	}
	if total <= 0 {
		return 0
	}
	score := int(math.Round(float64(total) / maxTotal * 100))
	if score > maxScore {
		return maxScore
	}
	return score
}

func contribution(category domain.Category, answers domain.AnswerSet) int {
	answer, ok := answers.Lookup(category)
	if !ok {
		return 0
	}
	switch category {
	case domain.CategoryProjectType:
		return projectTypeContribution(answer)
	case domain.CategoryTimeline:
		return timelineContribution(answer)
	case domain.CategoryTeamType:
		return teamTypeContribution(answer)
	default:
		return answer.Weight
	}
}

func projectTypeContribution(answer domain.Answer) int {
	switch answer.Value {
	case ProjectWebApp, ProjectSaaS:
		return 35
	case ProjectEnterprise:
		return 25
	case ProjectWebsite:
		return 30
	default:
		return answer.Weight
	}
}

// Rushed timelines are penalized even when the option carries a higher weight.
func timelineContribution(answer domain.Answer) int {
	switch answer.Value {
	case TimelineASAP:
		return 15
	case TimelineThreeMonths, TimelineFlexible:
		return 35
	default:
		return answer.Weight
	}
}

func teamTypeContribution(answer domain.Answer) int {
	if answer.Value == TeamNotSure {
		return 25
	}
	return answer.Weight
}
