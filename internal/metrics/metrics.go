package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records pipeline stage timings and state counts. It satisfies
// fsm.StageObserver.
type Collector struct {
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	states   *prometheus.HistogramVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsm_stage_runs_total",
				Help: "Total number of completed pipeline stages",
			},
			[]string{"stage"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fsm_stage_duration_seconds",
				Help:    "Duration of pipeline stages",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"stage"},
		),
		states: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fsm_stage_states",
				Help:    "Number of states produced by a pipeline stage",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"stage"},
		),
	}
	c.registry.MustRegister(c.runs, c.duration, c.states)
	return c
}

func (c *Collector) ObserveStage(stage string, states int, elapsed time.Duration) {
	c.runs.WithLabelValues(stage).Inc()
	c.duration.WithLabelValues(stage).Observe(elapsed.Seconds())
	c.states.WithLabelValues(stage).Observe(float64(states))
}

// Registry exposes the underlying registry so tests and callers can gather.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collected metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
