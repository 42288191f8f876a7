package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initNetworkMetrics() {
	r.NetworkNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "glowgraph_network_nodes",
			Help: "Number of nodes in the network",
		},
	)

	r.NetworkEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "glowgraph_network_edges",
			Help: "Number of edges in the network",
		},
	)

	r.ResetsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "glowgraph_resets_total",
			Help: "Total number of network rebuilds",
		},
	)

	r.XRSessionLive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "glowgraph_xr_session_active",
			Help: "Whether an immersive session is running (1=yes, 0=no)",
		},
	)
}
