package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/common/expfmt"
)

// RecordStep records one physics step
func (r *Registry) RecordStep(dt float64, clamped int, energy float64, settled bool, duration time.Duration) {
	r.FramesTotal.Inc()
	r.StepDuration.Observe(duration.Seconds())
	r.StepDT.Observe(dt)
	r.VelocityClampTotal.Add(float64(clamped))
	r.KineticEnergy.Set(energy)
	if settled {
		r.Settled.Set(1)
	} else {
		r.Settled.Set(0)
	}
}

// RecordIntent records an applied intent
func (r *Registry) RecordIntent(kind string, accepted bool) {
	result := "ignored"
	if accepted {
		result = "accepted"
	}
	r.IntentsTotal.WithLabelValues(kind, result).Inc()
}

// RecordGrab records a grab attempt by source
func (r *Registry) RecordGrab(source string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.GrabsTotal.WithLabelValues(source, result).Inc()
}

// RecordRelease records how long a released node was held
func (r *Registry) RecordRelease(held time.Duration) {
	r.GrabDuration.Observe(held.Seconds())
}

// UpdateSessions sets the session and held-node gauges
func (r *Registry) UpdateSessions(sessions, held int) {
	r.ActiveSessions.Set(float64(sessions))
	r.HeldNodes.Set(float64(held))
}

// UpdateNetwork sets the network size gauges
func (r *Registry) UpdateNetwork(nodes, edges int) {
	r.NetworkNodes.Set(float64(nodes))
	r.NetworkEdges.Set(float64(edges))
}

// SetXRSession records whether an immersive session is running
func (r *Registry) SetXRSession(active bool) {
	if active {
		r.XRSessionLive.Set(1)
	} else {
		r.XRSessionLive.Set(0)
	}
}

// WriteText writes every metric in the Prometheus text exposition format
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
