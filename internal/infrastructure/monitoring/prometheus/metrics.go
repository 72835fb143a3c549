package prometheus

import (
	"strconv"
	"time"

	"github.com/aushadhiai/screening-console/pkg/errors"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Screening backend
	BackendCallsTotal   CounterVec
	BackendCallDuration HistogramVec

	// View-models
	PageLoadsTotal      CounterVec
	PageResultCount     HistogramVec
	StaleResponsesTotal CounterVec

	// System health
	HealthCheckStatus GaugeVec
}

// Default buckets
var (
	DefaultHTTPDurationBuckets    = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultBackendDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}
	DefaultResultCountBuckets     = []float64{0, 1, 5, 10, 25, 50, 100, 250, 500}
)

// NewAppMetrics registers all metrics and returns AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.BackendCallsTotal = collector.RegisterCounter("backend_calls_total", "Screening backend calls by outcome", "endpoint", "outcome")
	m.BackendCallDuration = collector.RegisterHistogram("backend_call_duration_seconds", "Screening backend call duration", DefaultBackendDurationBuckets, "endpoint")

	m.PageLoadsTotal = collector.RegisterCounter("page_loads_total", "Committed page loads by final state", "screen", "state")
	m.PageResultCount = collector.RegisterHistogram("page_result_count", "Records in a loaded page", DefaultResultCountBuckets, "screen")
	m.StaleResponsesTotal = collector.RegisterCounter("stale_responses_total", "Responses discarded because a newer request was issued", "screen")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")

	return m
}

// Outcome labels for backend calls.
const (
	OutcomeOK        = "ok"
	OutcomeTransport = "transport"
	OutcomeStatus    = "status"
	OutcomeMalformed = "malformed"
	OutcomeOther     = "other"
)

// BackendOutcome maps a call error onto a low-cardinality label.
func BackendOutcome(err error) string {
	switch errors.GetCode(err) {
	case errors.CodeOK:
		return OutcomeOK
	case errors.CodeUpstreamTransport:
		return OutcomeTransport
	case errors.CodeUpstreamStatus:
		return OutcomeStatus
	case errors.CodeMalformedData:
		return OutcomeMalformed
	default:
		return OutcomeOther
	}
}

// Observe records one backend call.  It satisfies the screening client's
// Observer hook.
func (m *AppMetrics) Observe(endpoint string, _ int, duration time.Duration, err error) {
	m.BackendCallsTotal.WithLabelValues(endpoint, BackendOutcome(err)).Inc()
	m.BackendCallDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// ObserveLoad records a committed page load.
func (m *AppMetrics) ObserveLoad(screen, state string, records int) {
	m.PageLoadsTotal.WithLabelValues(screen, state).Inc()
	m.PageResultCount.WithLabelValues(screen).Observe(float64(records))
}

// ObserveStale records a discarded response.
func (m *AppMetrics) ObserveStale(screen string) {
	m.StaleResponsesTotal.WithLabelValues(screen).Inc()
}

// Helpers

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordHealthCheck(metrics *AppMetrics, component string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	metrics.HealthCheckStatus.WithLabelValues(component).Set(v)
}
