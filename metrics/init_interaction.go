package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initInteractionMetrics() {
	r.IntentsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "glowgraph_intents_total",
			Help: "Total number of applied input intents",
		},
		[]string{"kind", "result"}, // accepted, ignored
	)

	r.GrabsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "glowgraph_grabs_total",
			Help: "Total number of grab attempts",
		},
		[]string{"source", "result"}, // hit, miss
	)

	r.ActiveSessions = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "glowgraph_active_sessions",
			Help: "Number of input sources currently holding a node",
		},
	)

	r.HeldNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "glowgraph_held_nodes",
			Help: "Number of nodes currently held",
		},
	)

	r.GrabDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "glowgraph_grab_duration_seconds",
			Help:    "How long a node stayed grabbed",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)
}
