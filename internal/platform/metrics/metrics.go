package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns the process collectors. Its methods satisfy the observer
// ports of the queue and approval modules without either importing this
// package.
type Registry struct {
	registry *prometheus.Registry

	recalculations prometheus.Counter
	positionsMoved prometheus.Counter
	queueSize      prometheus.Gauge
	transitions    *prometheus.CounterVec
	outboxDelivery *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDurations  *prometheus.HistogramVec
}

func New(namespace string) *Registry {
	if namespace == "" {
		namespace = "fundqueue"
	}
	r := &Registry{
		registry: prometheus.NewRegistry(),
		recalculations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_recalculations_total",
			Help:      "Completed queue position recalculations.",
		}),
		positionsMoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_positions_moved_total",
			Help:      "Members whose stored position changed during recalculation.",
		}),
		queueSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_members",
			Help:      "Members in the queue at the last recalculation.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payout_workflow_transitions_total",
			Help:      "Terminal payout workflow transitions by final status.",
		}, []string{"status"}),
		outboxDelivery: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "approval_outbox_deliveries_total",
			Help:      "Outbox delivery attempts by channel and outcome.",
		}, []string{"channel", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method"}),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.recalculations,
		r.positionsMoved,
		r.queueSize,
		r.transitions,
		r.outboxDelivery,
		r.httpRequests,
		r.httpDurations,
	)
	return r
}

func (r *Registry) QueueRecalculated(updated int, total int) {
	if r == nil {
		return
	}
	r.recalculations.Inc()
	r.positionsMoved.Add(float64(updated))
	r.queueSize.Set(float64(total))
}

func (r *Registry) WorkflowTransitioned(status string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(status).Inc()
}

func (r *Registry) OutboxDelivery(channel string, delivered bool) {
	if r == nil {
		return
	}
	outcome := "failed"
	if delivered {
		outcome = "delivered"
	}
	r.outboxDelivery.WithLabelValues(channel, outcome).Inc()
}

// Handler exposes the registry in the prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Middleware records request counts and latency for every wrapped request.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	if r == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()
		next.ServeHTTP(recorder, req)
		r.httpRequests.WithLabelValues(req.Method, strconv.Itoa(recorder.status)).Inc()
		r.httpDurations.WithLabelValues(req.Method).Observe(time.Since(started).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}
