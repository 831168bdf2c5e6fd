package metrics

import (
	"net/http"
	"strconv"
	"time"

	"bay-scheduler/internal/usecase/shared"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private Prometheus registry for scheduling and HTTP metrics.
type Recorder struct {
	registry        *prometheus.Registry
	handler         http.Handler
	queryDuration   *prometheus.HistogramVec
	queryErrors     *prometheus.CounterVec
	proposals       *prometheus.HistogramVec
	commits         *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

var _ shared.MetricsRecorder = (*Recorder)(nil)

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	queryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bay_scheduler",
		Name:      "query_duration_seconds",
		Help:      "Duration of scheduling queries, including the snapshot load",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	queryErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bay_scheduler",
		Name:      "query_errors_total",
		Help:      "Scheduling queries that returned an error",
	}, []string{"operation"})

	proposals := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bay_scheduler",
		Name:      "proposals_returned",
		Help:      "Number of proposals returned per query",
		Buckets:   []float64{0, 1, 2, 3, 4, 6, 8, 12, 16},
	}, []string{"operation"})

	commits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bay_scheduler",
		Name:      "commits_total",
		Help:      "Booking commit attempts by outcome",
	}, []string{"operation", "outcome"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	registry.MustRegister(
		queryDuration, queryErrors, proposals, commits, requestDuration, requestTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Recorder{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		queryDuration:   queryDuration,
		queryErrors:     queryErrors,
		proposals:       proposals,
		commits:         commits,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return r.handler
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) RecordQuery(operation string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	r.queryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if err != nil {
		r.queryErrors.WithLabelValues(operation).Inc()
	}
}

func (r *Recorder) RecordProposals(operation string, count int) {
	if r == nil {
		return
	}
	r.proposals.WithLabelValues(operation).Observe(float64(count))
}

func (r *Recorder) RecordCommit(operation, outcome string) {
	if r == nil {
		return
	}
	r.commits.WithLabelValues(operation, outcome).Inc()
}

// ObserveHTTPRequest is called by the request logging middleware with the matched route path.
func (r *Recorder) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	r.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	r.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}
