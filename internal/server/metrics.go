package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	outcomeOK       = "ok"
	outcomeError    = "error"
	outcomeRejected = "rejected"
)

// Metrics holds the server's Prometheus collectors. Each Server gets its own
// registry so tests can build many servers.
type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	rateLimited *prometheus.CounterVec
	chats       *prometheus.CounterVec
	jobFits     *prometheus.CounterVec
	pdfs        *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		rateLimited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limited_requests_total",
				Help: "Requests rejected by the rate limiter.",
			},
			[]string{"tier"},
		),
		chats: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chat_streams_total",
				Help: "Chat streams by outcome.",
			},
			[]string{"outcome"},
		),
		jobFits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "job_fit_analyses_total",
				Help: "Job-fit analyses by outcome.",
			},
			[]string{"outcome"},
		),
		pdfs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pdf_generations_total",
				Help: "PDF generations by outcome.",
			},
			[]string{"outcome"},
		),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.rateLimited, m.chats, m.jobFits, m.pdfs,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// statusWriter wraps ResponseWriter to capture the status code. It forwards
// Flush and Unwrap so streaming handlers still see a flushable writer.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
