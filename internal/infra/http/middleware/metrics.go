package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	campaignsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_campaigns_total",
			Help: "Campaigns created or launched, by type and resulting status",
		},
		[]string{"type", "status"},
	)

	deliveriesQueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_deliveries_queued_total",
			Help: "Delivery jobs handed to the queue",
		},
		[]string{"result"},
	)

	receiptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_delivery_receipts_total",
			Help: "Vendor receipts applied to communication logs",
		},
		[]string{"status"},
	)

	// StaleDeliveries is set by the stale delivery monitor.
	StaleDeliveries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crm_stale_deliveries",
			Help: "Communication logs still pending or sent past the receipt deadline",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern keeps ids out of the label set.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

func RecordCampaign(campaignType, status string) {
	campaignsTotal.WithLabelValues(campaignType, status).Inc()
}

func RecordDeliveriesQueued(queued, failed int) {
	deliveriesQueued.WithLabelValues("queued").Add(float64(queued))
	deliveriesQueued.WithLabelValues("failed").Add(float64(failed))
}

func RecordReceipt(status string) {
	receiptsTotal.WithLabelValues(status).Inc()
}
