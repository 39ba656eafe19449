package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the application's own prometheus registry, exposed on /api/metrics
	Registry = prometheus.NewRegistry()

	// Custom histogram buckets covering fast cache hits up to slow multi-minute
	// browser automation runs
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144}

	// HTTP Metrics
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Browser session metrics
	BrowserSessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "browser_sessions_active",
			Help: "Number of currently open browser sessions",
		},
	)

	BrowserSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "browser_sessions_total",
			Help: "Total number of browser sessions acquired",
		},
		[]string{"status"},
	)

	// Portal operation metrics
	PortalLoginTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_login_total",
			Help: "Portal login attempts by result",
		},
		[]string{"result"},
	)

	BookingAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_booking_attempts_total",
			Help: "Per-date booking attempts by result",
		},
		[]string{"result"},
	)

	InvitationsAcceptedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_invitations_accepted_total",
			Help: "Invitation acceptance attempts by result",
		},
		[]string{"result"},
	)

	PortalScrapeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_scrape_duration_seconds",
			Help:    "Duration of browser-driven portal operations",
			Buckets: CustomAPIBuckets,
		},
		[]string{"portal", "operation"},
	)

	// Conversion cache metrics
	ConversionCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversion_cache_lookups_total",
			Help: "Conversion cache lookups by result (hit, inverse_hit, stale, miss)",
		},
		[]string{"result"},
	)

	// Connection tracking metrics
	ConnectionRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connection_records_total",
			Help: "Connection tracking records by result",
		},
		[]string{"status"},
	)

	// Screenshot archive metrics
	ScreenshotUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screenshot_uploads_total",
			Help: "Failure screenshot uploads by result",
		},
		[]string{"status"},
	)
)

// Init registers all metrics plus go runtime collectors on the registry
func Init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequestDuration,
		HTTPRequestTotal,
		ActiveRequests,
		BrowserSessionsActive,
		BrowserSessionsTotal,
		PortalLoginTotal,
		BookingAttemptsTotal,
		InvitationsAcceptedTotal,
		PortalScrapeDuration,
		ConversionCacheLookups,
		ConnectionRecordsTotal,
		ScreenshotUploadsTotal,
	)
}

// MeasureDuration returns elapsed seconds since start
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
