// Package metrics exposes Prometheus instrumentation for the paging
// engine. Collection is optional: a nil Collector records nothing.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector holds the engine's Prometheus metrics.
type Collector struct {
	pages    *prometheus.CounterVec
	rows     prometheus.Counter
	dropped  prometheus.Counter
	errors   prometheus.Counter
	duration prometheus.Histogram
}

// New creates a Collector and registers its metrics. Pass
// prometheus.DefaultRegisterer to use the default registry.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loadgate",
			Name:      "pages_total",
			Help:      "Pages served, by view and paging strategy.",
		}, []string{"view", "strategy"}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "loadgate",
			Name:      "rows_total",
			Help:      "Rows returned to hosts.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "loadgate",
			Name:      "dropped_clauses_total",
			Help:      "Filter clauses dropped for naming an unknown property.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "loadgate",
			Name:      "errors_total",
			Help:      "Requests that ended in an error.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "loadgate",
			Name:      "page_duration_seconds",
			Help:      "Page request latency.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(c.pages, c.rows, c.dropped, c.errors, c.duration)
	return c
}

// ObservePage records a served page.
func (c *Collector) ObservePage(view, strategy string, rows, dropped int, seconds float64) {
	if c == nil {
		return
	}
	c.pages.WithLabelValues(view, strategy).Inc()
	c.rows.Add(float64(rows))
	c.dropped.Add(float64(dropped))
	c.duration.Observe(seconds)
}

// ObserveError records a failed request.
func (c *Collector) ObserveError() {
	if c == nil {
		return
	}
	c.errors.Inc()
}
