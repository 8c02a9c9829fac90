package metrics

import (
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the Prometheus registry of the service.
type Metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	bestTimes       prometheus.Counter
	participants    prometheus.Histogram
	slotWarnings    prometheus.Counter
	degenerateGrids prometheus.Counter
	submissions     *prometheus.CounterVec
	rejected        *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		bestTimes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "best_times_computations_total",
			Help: "Number of best-time analyses computed",
		}),
		participants: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "best_times_participants",
			Help:    "Participants per best-time analysis",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		}),
		slotWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slot_normalization_warnings_total",
			Help: "Submitted slots that could not be confidently normalized",
		}),
		degenerateGrids: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "degenerate_grids_total",
			Help: "Analyses whose event grid had no slots",
		}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_submissions_total",
			Help: "Availability submissions by source",
		}, []string{"source"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_submissions_rejected_total",
			Help: "Availability submissions rejected for unparseable slots, by source",
		}, []string{"source"}),
	}

	registry.MustRegister(
		m.requestDuration,
		m.requestTotal,
		m.bestTimes,
		m.participants,
		m.slotWarnings,
		m.degenerateGrids,
		m.submissions,
		m.rejected,
		collectors.NewGoCollector(),
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency labelled by the matched route template.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snoop := httpsnoop.CaptureMetrics(next, w, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		status := strconv.Itoa(snoop.Code)
		m.requestDuration.WithLabelValues(r.Method, path, status).Observe(snoop.Duration.Seconds())
		m.requestTotal.WithLabelValues(r.Method, path, status).Inc()
	})
}

func (m *Metrics) ObserveBestTimes(participants int, degenerate bool) {
	m.bestTimes.Inc()
	m.participants.Observe(float64(participants))
	if degenerate {
		m.degenerateGrids.Inc()
	}
}

func (m *Metrics) ObserveSubmission(source string, warnings int) {
	m.submissions.WithLabelValues(source).Inc()
	m.slotWarnings.Add(float64(warnings))
}

// ObserveRejectedSubmission counts a submission refused because of its slots. Its warnings
// still reach slot_normalization_warnings_total.
func (m *Metrics) ObserveRejectedSubmission(source string, warnings int) {
	m.rejected.WithLabelValues(source).Inc()
	m.slotWarnings.Add(float64(warnings))
}
