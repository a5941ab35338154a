// Package metrics exposes Prometheus instruments for the assignment workflow.
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

const namespace = "openlab"

// Run outcomes recorded by ObserveAutoAssign.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Collector owns a registry and the instruments registered on it.
type Collector struct {
	registry *prometheus.Registry

	autoAssignRuns     *prometheus.CounterVec
	autoAssignDuration prometheus.Histogram
	assignmentsMade    prometheus.Counter
	overbookedSlots    prometheus.Gauge
	httpRequests       *prometheus.CounterVec
}

// NewCollector creates a Collector on a fresh registry that also carries the
// Go runtime and process collectors.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		autoAssignRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auto_assign_runs_total",
				Help:      "Auto-assign runs by outcome",
			},
			[]string{"status"},
		),
		autoAssignDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "auto_assign_duration_seconds",
				Help:      "Wall time of an auto-assign run including persistence",
				Buckets:   prometheus.DefBuckets,
			},
		),
		assignmentsMade: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "assignments_created_total",
				Help:      "Assignments written by auto-assign runs",
			},
		),
		overbookedSlots: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "overbooked_slots",
				Help:      "Lab sessions over capacity after the last successful run",
			},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "code"},
		),
	}
}

// ObserveAutoAssign records one run. assigned and overbooked are only
// recorded when err is nil.
func (c *Collector) ObserveAutoAssign(elapsed time.Duration, assigned, overbooked int, err error) {
	c.autoAssignDuration.Observe(elapsed.Seconds())
	if err != nil {
		c.autoAssignRuns.WithLabelValues(StatusError).Inc()
		return
	}
	c.autoAssignRuns.WithLabelValues(StatusSuccess).Inc()
	c.assignmentsMade.Add(float64(assigned))
	c.overbookedSlots.Set(float64(overbooked))
}

// ObserveRequest counts one HTTP request
func (c *Collector) ObserveRequest(method, route string, code int) {
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

// Registry returns the registry the instruments live on
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
