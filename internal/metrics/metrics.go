package metrics

import (
	"net/http"
	"strconv"

	"complexity-quiz-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	quizCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_completed_total",
			Help: "Total number of completed complexity quizzes",
		},
		[]string{"tier"},
	)

	quizScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_score",
			Help:    "Distribution of compatibility scores",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 85, 90, 99},
		},
	)

	leadSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_submissions_total",
			Help: "Total number of lead submissions by relay outcome",
		},
		[]string{"outcome"},
	)

	consentDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consent_decisions_total",
			Help: "Total number of cookie consent decisions",
		},
		[]string{"analytics"},
	)
)

// ObserveCompletion records a finished quiz.
func ObserveCompletion(tier domain.Tier, score int) {
	quizCompleted.WithLabelValues(string(tier)).Inc()
	quizScore.Observe(float64(score))
}

// IncLeadSubmission counts a lead submission attempt by outcome.
func IncLeadSubmission(outcome domain.SubmitOutcome) {
	leadSubmissions.WithLabelValues(string(outcome)).Inc()
}

// IncConsentDecision counts a saved consent choice.
func IncConsentDecision(analytics bool) {
	consentDecisions.WithLabelValues(strconv.FormatBool(analytics)).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
