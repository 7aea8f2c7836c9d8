package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "factu_core"

// Metrics colectores de la aplicación sobre un registry propio.
type Metrics struct {
	registry     *prometheus.Registry
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	recomputes   *prometheus.CounterVec
	rateLimited  *prometheus.CounterVec
}

// New registra los colectores. Cada llamada crea un registry independiente.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total de requests HTTP atendidos.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de los requests HTTP.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms a ~5s
		}, []string{"method", "route"}),
		recomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "grand_total_recomputes_total",
			Help:      "Recálculos de grandTotal por resultado.",
		}, []string{"result"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "rate_limited_total",
			Help:      "Requests de auth rechazados por rate limit.",
		}, []string{"policy"}),
	}
	m.registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.recomputes,
		m.rateLimited,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler expone el registry en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP registra un request. route es el patrón (/bill/:id), no el path concreto.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordRecompute cuenta un recálculo de grandTotal.
func (m *Metrics) RecordRecompute(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.recomputes.WithLabelValues(result).Inc()
}

// RecordRateLimited cuenta un rechazo por rate limit.
func (m *Metrics) RecordRateLimited(policy string) {
	m.rateLimited.WithLabelValues(policy).Inc()
}
