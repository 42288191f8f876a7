package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.FramesTotal == nil {
		t.Error("FramesTotal not initialized")
	}
	if r.GrabsTotal == nil {
		t.Error("GrabsTotal not initialized")
	}
	if r.NetworkNodes == nil {
		t.Error("NetworkNodes not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordStep(t *testing.T) {
	r := NewRegistry()
	r.RecordStep(1.0/60, 2, 0.5, false, time.Millisecond)
	r.RecordStep(1.0/60, 1, 0, true, time.Millisecond)

	if got := testutil.ToFloat64(r.FramesTotal); got != 2 {
		t.Errorf("FramesTotal = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.VelocityClampTotal); got != 3 {
		t.Errorf("VelocityClampTotal = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.Settled); got != 1 {
		t.Errorf("Settled = %v, want 1", got)
	}

	var metric dto.Metric
	if err := r.StepDuration.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("StepDuration count = %v, want 2", metric.Histogram.GetSampleCount())
	}
}

func TestRecordGrabAndIntent(t *testing.T) {
	r := NewRegistry()
	r.RecordGrab("mouse", true)
	r.RecordGrab("mouse", false)
	r.RecordGrab("mouse", false)
	r.RecordIntent("grab_start", true)

	if got := testutil.ToFloat64(r.GrabsTotal.WithLabelValues("mouse", "miss")); got != 2 {
		t.Errorf("miss counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.GrabsTotal.WithLabelValues("mouse", "hit")); got != 1 {
		t.Errorf("hit counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.IntentsTotal.WithLabelValues("grab_start", "accepted")); got != 1 {
		t.Errorf("intent counter = %v, want 1", got)
	}
}

func TestGauges(t *testing.T) {
	r := NewRegistry()
	r.UpdateSessions(2, 2)
	r.UpdateNetwork(24, 23)
	r.SetXRSession(true)

	if got := testutil.ToFloat64(r.ActiveSessions); got != 2 {
		t.Errorf("ActiveSessions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.NetworkEdges); got != 23 {
		t.Errorf("NetworkEdges = %v, want 23", got)
	}
	if got := testutil.ToFloat64(r.XRSessionLive); got != 1 {
		t.Errorf("XRSessionLive = %v, want 1", got)
	}
	r.SetXRSession(false)
	if got := testutil.ToFloat64(r.XRSessionLive); got != 0 {
		t.Errorf("XRSessionLive = %v, want 0", got)
	}
}

func TestWriteText(t *testing.T) {
	r := NewRegistry()
	r.UpdateNetwork(5, 4)
	r.ResetsTotal.Inc()

	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"glowgraph_network_nodes 5", "glowgraph_resets_total 1", "# HELP glowgraph_frames_total"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
