package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the registry service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	MembersIssuedTotal     prometheus.Counter
	LoginAttemptsTotal     *prometheus.CounterVec
	RegistrationsTotal     *prometheus.CounterVec
	AttendanceMarkedTotal  *prometheus.CounterVec
	StockMovementsTotal    *prometheus.CounterVec
	LeaveReviewsTotal      *prometheus.CounterVec
	DashboardQueryDuration prometheus.Histogram
}

// NewMetricsRegistry registers every metric on reg. Pass prometheus.DefaultRegisterer
// in the server and a fresh prometheus.NewRegistry() in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bsg_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bsg_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bsg_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bsg_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bsg_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		MembersIssuedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bsg_members_issued_total",
				Help: "Total member identities issued",
			},
		),
		LoginAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bsg_login_attempts_total",
				Help: "Sign in attempts by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		RegistrationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bsg_activity_registrations_total",
				Help: "Activity registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		AttendanceMarkedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bsg_attendance_marked_total",
				Help: "Attendance records written by status",
			},
			[]string{"status"},
		),
		StockMovementsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bsg_stock_movements_total",
				Help: "Inventory units assigned or returned",
			},
			[]string{"direction"},
		),
		LeaveReviewsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bsg_leave_reviews_total",
				Help: "Leave request reviews by decision",
			},
			[]string{"decision"},
		),
		DashboardQueryDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bsg_dashboard_query_duration_seconds",
				Help:    "Time to compute dashboard statistics",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
	}
}

// Nop returns a registry bound to a throwaway prometheus registry.
func Nop() *MetricsRegistry {
	return NewMetricsRegistry(prometheus.NewRegistry())
}
