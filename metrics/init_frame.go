package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initFrameMetrics() {
	r.FramesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "glowgraph_frames_total",
			Help: "Total number of simulated frames",
		},
	)

	r.StepDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "glowgraph_step_duration_seconds",
			Help:    "Wall time spent in one physics step",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
	)

	r.StepDT = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "glowgraph_step_dt_seconds",
			Help:    "Simulated time integrated per step after clamping",
			Buckets: []float64{0.004, 0.008, 0.0167, 0.025, 0.0334},
		},
	)

	r.VelocityClampTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "glowgraph_velocity_clamps_total",
			Help: "Total number of node velocities limited to the maximum speed",
		},
	)

	r.KineticEnergy = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "glowgraph_kinetic_energy",
			Help: "Kinetic energy of the network after the last step",
		},
	)

	r.Settled = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "glowgraph_settled",
			Help: "Whether the network is at rest (1=yes, 0=no)",
		},
	)
}
