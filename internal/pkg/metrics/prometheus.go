package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aquawatch",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aquawatch",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "aquawatch",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Ingestion metrics
	readingsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aquawatch",
			Subsystem: "ingest",
			Name:      "readings_total",
			Help:      "Total number of readings ingested",
		},
		[]string{"station", "anomaly"},
	)

	// Classifier metrics
	classifierRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aquawatch",
			Subsystem: "classifier",
			Name:      "requests_total",
			Help:      "Total number of classifier calls by outcome",
		},
		[]string{"outcome"},
	)

	classifierDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "aquawatch",
			Subsystem: "classifier",
			Name:      "request_duration_seconds",
			Help:      "Duration of classifier calls in seconds",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2, 5},
		},
	)

	// Alert metrics
	alertsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aquawatch",
			Subsystem: "alerts",
			Name:      "created_total",
			Help:      "Total number of alerts created",
		},
		[]string{"severity", "type"},
	)

	// Notification metrics
	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aquawatch",
			Subsystem: "notify",
			Name:      "dispatched_total",
			Help:      "Total number of notification dispatch attempts by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	// Realtime metrics
	connectedObservers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "aquawatch",
			Subsystem: "realtime",
			Name:      "connected_observers",
			Help:      "Number of currently connected WebSocket observers",
		},
	)

	broadcastEventsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "aquawatch",
			Subsystem: "realtime",
			Name:      "broadcast_events_total",
			Help:      "Total number of broadcast events emitted",
		},
	)
)

// RecordReadingIngested records an ingested reading
func RecordReadingIngested(station string, anomaly bool) {
	readingsIngestedTotal.WithLabelValues(station, strconv.FormatBool(anomaly)).Inc()
}

// RecordClassifierCall records a classifier call outcome and duration
func RecordClassifierCall(outcome string, duration time.Duration) {
	classifierRequestsTotal.WithLabelValues(outcome).Inc()
	classifierDuration.Observe(duration.Seconds())
}

// RecordAlertCreated records a created alert
func RecordAlertCreated(severity, alertType string) {
	alertsCreatedTotal.WithLabelValues(severity, alertType).Inc()
}

// RecordNotification records a notification dispatch attempt
func RecordNotification(channel, outcome string) {
	notificationsTotal.WithLabelValues(channel, outcome).Inc()
}

// ObserverConnected increments the connected observer gauge
func ObserverConnected() {
	connectedObservers.Inc()
}

// ObserverDisconnected decrements the connected observer gauge
func ObserverDisconnected() {
	connectedObservers.Dec()
}

// RecordBroadcast records an emitted broadcast event
func RecordBroadcast() {
	broadcastEventsTotal.Inc()
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// statusRecorder captures the response status code for metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the wrapped writer
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

// Middleware instruments HTTP handlers with request metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// Use the route pattern so path cardinality stays bounded
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		status := strconv.Itoa(rec.status)
		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
	})
}
