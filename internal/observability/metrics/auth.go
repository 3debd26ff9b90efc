package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authgate_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "authgate_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "authgate_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	UsersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authgate_users_registered_total",
			Help: "Total number of users registered",
		},
	)

	RegistrationConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authgate_registration_conflicts_total",
			Help: "Total number of registrations rejected for a taken username",
		},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authgate_login_attempts_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authgate_tokens_issued_total",
			Help: "Total number of session tokens issued",
		},
	)

	PasswordChanges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authgate_password_changes_total",
			Help: "Total number of successful password changes",
		},
	)
)
