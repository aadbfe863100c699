// Package metrics exposes Prometheus instrumentation for analysis runs and
// provider traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trends-explorer/pkg/analysis"
	"trends-explorer/pkg/trends"
)

const namespace = "trends_explorer"

// Outcome status label values.
const (
	StatusClassified = "classified"
	StatusFailed     = "failed"
)

var (
	_ analysis.Observer      = (*Collector)(nil)
	_ trends.RequestObserver = (*Collector)(nil)
)

// Collector owns a registry and the collectors registered on it.
type Collector struct {
	registry *prometheus.Registry

	runs            prometheus.Counter
	outcomes        *prometheus.CounterVec
	warnings        prometheus.Counter
	runDuration     prometheus.Histogram
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewCollector creates a collector on a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		runs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_runs_total",
			Help:      "Total number of analysis runs",
		}),
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keyword_outcomes_total",
			Help:      "Keyword outcomes by status and error kind",
		}, []string{"status", "error_kind"}),
		warnings: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keyword_warnings_total",
			Help:      "Warnings recorded for optional per-keyword steps",
		}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_run_duration_seconds",
			Help:      "Duration of analysis runs in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Requests sent to the trends provider by operation and status code",
		}, []string{"op", "code"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Duration of provider requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

// Registry returns the registry holding the collectors.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveOutcome records one finished keyword.
func (c *Collector) ObserveOutcome(o analysis.Outcome) {
	if o.OK() {
		c.outcomes.WithLabelValues(StatusClassified, "").Inc()
	} else {
		kind := ""
		if o.Err != nil {
			kind = string(o.Err.Kind)
		}
		c.outcomes.WithLabelValues(StatusFailed, kind).Inc()
	}
	c.warnings.Add(float64(len(o.Warnings)))
}

// ObserveRun records one finished run.
func (c *Collector) ObserveRun(r *analysis.Report) {
	c.runs.Inc()
	c.runDuration.Observe(r.Duration.Seconds())
}

// ObserveRequest records one provider exchange; code is "error" when no
// response was received.
func (c *Collector) ObserveRequest(op string, statusCode int, duration time.Duration) {
	code := "error"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	c.requests.WithLabelValues(op, code).Inc()
	c.requestDuration.WithLabelValues(op).Observe(duration.Seconds())
}
