package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskboss_db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "table"},
	)

	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboss_errors_total",
			Help: "Total number of errors by component and type",
		},
		[]string{"component", "type"},
	)

	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboss_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status", "type"}, // success/failure, login/register/logout
	)

	TasksCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taskboss_tasks_completed_total",
			Help: "Tasks moved into the completed state",
		},
	)

	PointsAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taskboss_points_awarded_total",
			Help: "Points awarded for completed tasks",
		},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskboss_llm_request_duration_seconds",
			Help:    "Duration of upstream chat completion calls",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"model", "status"},
	)
)

// TrackDBOperation starts a timer; call ObserveDuration when the query is done.
func TrackDBOperation(operation, table string) *prometheus.Timer {
	return prometheus.NewTimer(DBOperationDuration.WithLabelValues(operation, table))
}

func TrackError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

func TrackAuthAttempt(status, authType string) {
	AuthAttempts.WithLabelValues(status, authType).Inc()
}

func TrackTaskCompletion(points int) {
	TasksCompleted.Inc()
	PointsAwarded.Add(float64(points))
}

func ObserveLLMRequest(model, status string, seconds float64) {
	LLMRequestDuration.WithLabelValues(model, status).Observe(seconds)
}
