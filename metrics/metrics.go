// Package metrics exposes Prometheus instrumentation for the dashboard.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "podium"

// Recorder owns the dashboard's collectors and the registry they live in.
type Recorder struct {
	registry *prometheus.Registry

	datasetRecords prometheus.Gauge
	loadDuration   prometheus.Histogram
	renders        *prometheus.CounterVec
}

// New builds a Recorder on a private registry that also carries the Go and
// process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		datasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "records",
			Help:      "Records kept after cleaning the source file.",
		}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "load_duration_seconds",
			Help:      "Time spent reading and cleaning the source file.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "renders_total",
			Help:      "Summaries rendered, by view and outcome.",
		}, []string{"view", "outcome"}),
	}
	reg.MustRegister(
		r.datasetRecords,
		r.loadDuration,
		r.renders,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveLoad records a completed dataset load.
func (r *Recorder) ObserveLoad(d time.Duration, records int) {
	r.loadDuration.Observe(d.Seconds())
	r.datasetRecords.Set(float64(records))
}

// ObserveRender counts one rendered summary. empty marks selections that
// matched no records.
func (r *Recorder) ObserveRender(view string, empty bool) {
	outcome := "ok"
	if empty {
		outcome = "empty"
	}
	r.renders.WithLabelValues(view, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
