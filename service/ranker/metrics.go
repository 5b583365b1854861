package ranker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	modeStatic  = "static"
	modeDynamic = "dynamic"
)

type metrics struct {
	runs       *prometheus.CounterVec
	iterations prometheus.Histogram
	recomputed prometheus.Gauge
	duration   prometheus.Histogram
	sinkErrors prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pagerank",
			Name:      "runs_total",
			Help:      "Ranking passes by mode",
		}, []string{"mode"}),
		iterations: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pagerank",
			Name:      "iterations",
			Help:      "Iterations performed per ranking pass",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		recomputed: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "pagerank",
			Name:      "recomputed_vertices",
			Help:      "Vertices recomputed by the last ranking pass",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pagerank",
			Name:      "run_duration_seconds",
			Help:      "Time spent iterating per ranking pass",
			Buckets:   prometheus.DefBuckets,
		}),
		sinkErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pagerank",
			Name:      "sink_errors_total",
			Help:      "Scores the sink failed to store",
		}),
	}
}

func (m *metrics) observe(mode string, iterations, recomputed int, seconds float64) {
	m.runs.WithLabelValues(mode).Inc()
	m.iterations.Observe(float64(iterations))
	m.recomputed.Set(float64(recomputed))
	m.duration.Observe(seconds)
}
