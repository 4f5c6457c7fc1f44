package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors of the service. Each instance owns its registry so
// tests can build as many as they need.
type Metrics struct {
	Registry *prometheus.Registry

	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	stockAdjustments *prometheus.CounterVec
	historyFallbacks *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		stockAdjustments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_adjustments_total",
				Help: "Stock adjustments by reason and outcome",
			},
			[]string{"reason", "outcome"},
		),
		historyFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "movement_history_fallbacks_total",
				Help: "Movement history reads served by the fallback path",
			},
			[]string{"result"},
		),
	}
	m.Registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.stockAdjustments,
		m.historyFallbacks,
		prometheus.NewGoCollector(),
	)
	return m
}

// StockAdjusted records one AdjustStock call.
func (m *Metrics) StockAdjusted(reason string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.stockAdjustments.WithLabelValues(reasonLabel(reason), outcome).Inc()
}

// reasonLabel keeps the reason label to a fixed set; free text reasons count as "other".
func reasonLabel(reason string) string {
	switch reason {
	case "initial", "manual_adjust":
		return reason
	}
	return "other"
}

// HistoryFallback records a movement history read that hit the missing-index path.
// result is "nested" or "empty".
func (m *Metrics) HistoryFallback(result string) {
	if m == nil {
		return
	}
	m.historyFallbacks.WithLabelValues(result).Inc()
}

// Middleware records request count and latency labelled by the chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
