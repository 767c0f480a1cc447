package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "markview",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "view", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "markview",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "view", "status"},
	)
	backendFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "markview",
			Subsystem: "backend",
			Name:      "fetch_total",
			Help:      "Backend JSON fetches issued by page builders.",
		},
		[]string{"node", "endpoint", "status", "success"},
	)
	backendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "markview",
			Subsystem: "backend",
			Name:      "fetch_duration_seconds",
			Help:      "Backend fetch duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "endpoint", "status", "success"},
	)
	overlayHighlights = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "markview",
			Subsystem: "overlay",
			Name:      "highlights_total",
			Help:      "Highlights injected into rendered student responses.",
		},
		[]string{"outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, backendFetches, backendDuration, overlayHighlights)
	})
}

// RecordHTTPRequest labels by view kind rather than raw path to keep cardinality bounded.
func RecordHTTPRequest(node, method, view string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, view, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, view, statusLabel).Observe(duration.Seconds())
}

// RecordBackendFetch uses status 0 for transport failures.
func RecordBackendFetch(node, endpoint string, status int, duration time.Duration, success bool) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	successLabel := strconv.FormatBool(success)
	backendFetches.WithLabelValues(node, endpoint, statusLabel, successLabel).Inc()
	backendDuration.WithLabelValues(node, endpoint, statusLabel, successLabel).
		Observe(duration.Seconds())
}

// RecordOverlay counts applied highlights, or one "rejected" when annotations were invalid.
func RecordOverlay(applied int, rejected bool) {
	RegisterMetrics()
	if rejected {
		overlayHighlights.WithLabelValues("rejected").Inc()
		return
	}
	overlayHighlights.WithLabelValues("applied").Add(float64(applied))
}
