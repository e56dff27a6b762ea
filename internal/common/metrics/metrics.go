package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks HTTP latency by route and status.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medika_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// AnswersGraded counts graded submissions by feature and verdict.
	AnswersGraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medika_answers_graded_total",
			Help: "Graded answer submissions by feature and verdict.",
		},
		[]string{"feature", "verdict"},
	)

	// CalculatorEvaluations counts calculator runs by outcome.
	CalculatorEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medika_calculator_evaluations_total",
			Help: "Calculator evaluations by outcome.",
		},
		[]string{"outcome"},
	)

	// SchedulerRuns counts review orderings served by mode.
	SchedulerRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medika_scheduler_runs_total",
			Help: "Review orderings served, by mode.",
		},
		[]string{"mode"},
	)
)

// RecordAnswer increments the graded-answer counter.
func RecordAnswer(feature string, correct bool) {
	verdict := "incorrect"
	if correct {
		verdict = "correct"
	}
	AnswersGraded.WithLabelValues(feature, verdict).Inc()
}

// Handler exposes the prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
