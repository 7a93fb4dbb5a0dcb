package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "educlassroom",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "educlassroom",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	// EnrollmentOutcomes counts enroll calls by result: created, conflict,
	// not_found, invalid or error.
	EnrollmentOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "educlassroom",
			Name:      "enrollments_total",
			Help:      "Enrollment attempts by outcome",
		},
		[]string{"outcome"},
	)

	// ProgressUpdates counts committed progress updates by resulting status.
	ProgressUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "educlassroom",
			Name:      "progress_updates_total",
			Help:      "Committed progress updates by resulting status",
		},
		[]string{"status"},
	)

	TutorReplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "educlassroom",
			Name:      "tutor_replies_total",
			Help:      "AI tutor calls by result",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter, RequestDuration, EnrollmentOutcomes, ProgressUpdates, TutorReplies)
	})
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
