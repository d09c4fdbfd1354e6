// Package metrics records statement loading and dashboard activity in
// prometheus collectors registered on a caller supplied registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "creditlens"

// Load roles and outcomes.
const (
	RolePrimary = "primary"
	RoleSibling = "sibling"

	StatusOK     = "ok"
	StatusEmpty  = "empty"
	StatusFailed = "failed"

	ResultFound   = "found"
	ResultMissing = "missing"
)

// Recorder groups every collector. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	statementLoads  *prometheus.CounterVec
	loadDuration    *prometheus.HistogramVec
	droppedRows     prometheus.Counter
	siblingsUsed    prometheus.Gauge
	detailLookups   *prometheus.CounterVec
	detailCacheHits *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry together with the Go and
// process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		statementLoads: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "statement_loads_total",
				Help:      "Statement loads by role and outcome",
			},
			[]string{"role", "status"},
		),
		loadDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "statement_load_duration_seconds",
				Help:      "Time to read and parse one statement",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"role"},
		),
		droppedRows: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "statement_dropped_rows_total",
				Help:      "Rows discarded because the amount was missing or not numeric",
			},
		),
		siblingsUsed: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "baseline_statements",
				Help:      "Sibling statements averaged into the current baseline",
			},
		),
		detailLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "detail_lookups_total",
				Help:      "Category drill-down requests by result",
			},
			[]string{"result"},
		),
		detailCacheHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "detail_cache_requests_total",
				Help:      "Detail cache lookups by outcome",
			},
			[]string{"outcome"},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) StatementLoaded(role, status string, d time.Duration, dropped int) {
	if r == nil {
		return
	}
	r.statementLoads.WithLabelValues(role, status).Inc()
	r.loadDuration.WithLabelValues(role).Observe(d.Seconds())
	if dropped > 0 {
		r.droppedRows.Add(float64(dropped))
	}
}

func (r *Recorder) BaselineStatements(n int) {
	if r == nil {
		return
	}
	r.siblingsUsed.Set(float64(n))
}

func (r *Recorder) DetailLookup(found bool) {
	if r == nil {
		return
	}
	result := ResultMissing
	if found {
		result = ResultFound
	}
	r.detailLookups.WithLabelValues(result).Inc()
}

func (r *Recorder) DetailCache(hit bool) {
	if r == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.detailCacheHits.WithLabelValues(outcome).Inc()
}

func (r *Recorder) HTTPRequest(route string, code int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	r.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}
