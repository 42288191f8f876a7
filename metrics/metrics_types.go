package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for a running scene
type Registry struct {
	// Frame Metrics
	FramesTotal        prometheus.Counter
	StepDuration       prometheus.Histogram
	StepDT             prometheus.Histogram
	VelocityClampTotal prometheus.Counter
	KineticEnergy      prometheus.Gauge
	Settled            prometheus.Gauge

	// Interaction Metrics
	IntentsTotal   *prometheus.CounterVec
	GrabsTotal     *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
	HeldNodes      prometheus.Gauge
	GrabDuration   prometheus.Histogram

	// Network Metrics
	NetworkNodes  prometheus.Gauge
	NetworkEdges  prometheus.Gauge
	ResetsTotal   prometheus.Counter
	XRSessionLive prometheus.Gauge

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initFrameMetrics()
	r.initInteractionMetrics()
	r.initNetworkMetrics()

	return r
}

// Gatherer exposes the underlying registry for exposition
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
