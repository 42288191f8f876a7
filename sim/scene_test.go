package sim

import (
	"bytes"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/TFMV/glowgraph/config"
	"github.com/TFMV/glowgraph/interact"
	"github.com/TFMV/glowgraph/metrics"
	"github.com/TFMV/glowgraph/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func stillConfig() config.Scene {
	cfg := *config.Default()
	cfg.Physics.Anchor = "still"
	return cfg
}

func newScene(t *testing.T, cfg config.Scene, reg *metrics.Registry) *Scene {
	t.Helper()
	s, err := New(cfg, reg)
	require.NoError(t, err)
	return s
}

// column adopts n nodes spaced one unit apart along y, chained in order
func column(t *testing.T, s *Scene, n int) *models.Network {
	t.Helper()
	net := models.NewNetwork("column")
	for i := 0; i < n; i++ {
		net.AddNode(models.Vec{Y: float64(i)}, "#3366cc", 0.1, 1)
	}
	for i := 0; i+1 < n; i++ {
		require.NoError(t, net.AddEdge(i, i+1, 1))
	}
	require.NoError(t, s.adopt(net))
	return net
}

func rayAt(x, y float64) interact.Pointer {
	return interact.RayPointer(models.NewRay(models.Vec{X: x, Y: y, Z: 5}, models.Vec{Z: -1}))
}

func TestNewBuildsFromConfig(t *testing.T) {
	cfg := stillConfig()
	cfg.Graph.Nodes = 10
	s := newScene(t, cfg, nil)

	net := s.Network()
	assert.Len(t, net.Nodes, 10)
	assert.Len(t, net.Edges, 9)
	assert.True(t, net.IsConnected())
	assert.Equal(t, "desktop", s.Variant().Name)
	assert.Equal(t, uint64(0), s.FrameCount())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := stillConfig()
	cfg.Graph.Nodes = 0
	_, err := New(cfg, nil)
	assert.Error(t, err)

	cfg = stillConfig()
	cfg.Variant = "cave"
	_, err = New(cfg, nil)
	assert.Error(t, err)
}

func TestCustomColorsOverridePalette(t *testing.T) {
	cfg := stillConfig()
	cfg.Graph.Colors = []string{"#123456"}
	s := newScene(t, cfg, nil)
	for _, n := range s.Network().Nodes {
		assert.Equal(t, "#123456", n.BaseColor)
	}
}

func TestNeighborsFollowDraggedNodeWithHopAttenuation(t *testing.T) {
	s := newScene(t, stillConfig(), nil)
	net := column(t, s, 5)
	before := make([]models.Vec, len(net.Nodes))
	for i, n := range net.Nodes {
		before[i] = n.Position
	}

	s.Enqueue(interact.Intent{Kind: interact.GrabStart, Source: "mouse", Pointer: rayAt(0, 2)})
	s.Enqueue(interact.Intent{Kind: interact.GrabMove, Source: "mouse", Pointer: rayAt(1, 2)})
	snap := s.Advance(1.0 / 60)

	held := snap.Nodes[2]
	require.True(t, held.Held)
	assert.InDelta(t, 1, held.Position.X, 1e-9)
	assert.InDelta(t, 2, held.Position.Y, 1e-9)

	moved := func(id int) float64 {
		return r3.Norm(r3.Sub(snap.Nodes[id].Position, before[id]))
	}
	for _, id := range []int{1, 3} {
		assert.Greater(t, moved(id), 0.0, "node %d", id)
		was := r3.Norm(r3.Sub(held.Position, before[id]))
		now := r3.Norm(r3.Sub(held.Position, snap.Nodes[id].Position))
		assert.Less(t, now, was, "node %d moves toward the held node", id)
	}
	assert.Less(t, moved(0), moved(1))
	assert.Less(t, moved(4), moved(3))
}

func TestFreeNodeAtAnchorStaysAtRest(t *testing.T) {
	cfg := stillConfig()
	cfg.Physics.Anchor = "breathing"
	cfg.Physics.Amplitude = 0
	s := newScene(t, cfg, nil)

	net := models.NewNetwork("single")
	net.AddNode(models.Vec{}, "#ffffff", 0.1, 1)
	require.NoError(t, s.adopt(net))

	start := time.Unix(0, 0)
	for i := 0; i < 500; i++ {
		s.Frame(start.Add(time.Duration(i) * 250 * time.Millisecond))
	}
	for i := 0; i < 500; i++ {
		s.Advance(1.0 / 30)
	}
	assert.Equal(t, models.Vec{}, net.Nodes[0].Position)
	assert.Equal(t, models.Vec{}, s.Stepper().Velocity(0))
}

func TestIntentsApplyBeforePhysicsInTheSameFrame(t *testing.T) {
	s := newScene(t, stillConfig(), nil)
	net := column(t, s, 3)

	s.Enqueue(interact.Intent{Kind: interact.GrabStart, Source: "mouse", Pointer: rayAt(0, 1)})
	assert.Equal(t, 1, s.Pending())
	assert.False(t, net.Nodes[1].Held, "nothing happens until the frame runs")

	snap := s.Advance(1.0 / 60)
	assert.Equal(t, 0, s.Pending())
	assert.True(t, snap.Nodes[1].Held)
	assert.Equal(t, uint64(1), snap.Frame)

	// A move and release in one frame: the node lands on the target and the
	// release bakes that shape before physics runs
	s.Enqueue(interact.Intent{Kind: interact.GrabMove, Source: "mouse", Pointer: rayAt(0.5, 1)})
	s.Enqueue(interact.Intent{Kind: interact.GrabEnd, Source: "mouse"})
	s.Advance(1.0 / 60)
	assert.False(t, net.Nodes[1].Held)
	assert.InDelta(t, 0.5, net.Nodes[1].Base.X, 1e-9)
	for _, e := range net.Edges {
		assert.InDelta(t, net.Distance(e.A, e.B), e.RestLength, 1e-2)
	}
}

func TestConcurrentEnqueue(t *testing.T) {
	s := newScene(t, stillConfig(), nil)
	column(t, s, 3)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Enqueue(interact.Intent{Kind: interact.GrabMove, Source: "ghost", Pointer: rayAt(0, 0)})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, s.Pending())
	s.Advance(1.0 / 60)
	assert.Equal(t, 0, s.Pending())
}

func TestSessionEndReleasesEveryGrab(t *testing.T) {
	cfg := stillConfig()
	cfg.Variant = "vr-hands"
	s := newScene(t, cfg, nil)
	net := column(t, s, 4)

	s.SetSessionActive(true)
	assert.True(t, s.SessionActive())
	s.Enqueue(interact.Intent{Kind: interact.GrabStart, Source: "left", Pointer: interact.GripPointer(models.Vec{})})
	s.Enqueue(interact.Intent{Kind: interact.GrabStart, Source: "right", Pointer: interact.GripPointer(models.Vec{Y: 3})})
	s.Advance(1.0 / 60)
	require.Len(t, s.Controller().Sessions(), 2)

	s.Enqueue(interact.Intent{Kind: interact.GrabMove, Source: "left", Pointer: interact.GripPointer(models.Vec{X: 1})})
	s.SetSessionActive(false)

	assert.False(t, s.SessionActive())
	assert.Empty(t, s.Controller().Sessions())
	assert.Empty(t, net.HeldNodes())
	assert.Equal(t, 0, s.Pending(), "input queued before the session ended is dropped")
	for _, n := range net.Nodes {
		assert.Equal(t, n.BaseColor, n.Color)
	}
}

func TestPlaceInFrontOncePerSession(t *testing.T) {
	cfg := stillConfig()
	cfg.Variant = "ar"
	s := newScene(t, cfg, nil)
	net := column(t, s, 3)

	view := models.NewRay(models.Vec{Y: 1.6}, models.Vec{Z: -1})
	s.SetSessionActive(true)
	require.True(t, s.PlaceInFront(view, 2))

	var centre models.Vec
	for _, n := range net.Nodes {
		centre = r3.Add(centre, n.Base)
		assert.Equal(t, n.Base, n.Position)
	}
	centre = r3.Scale(1.0/3, centre)
	assert.InDelta(t, 0, centre.X, 1e-9)
	assert.InDelta(t, 1.6, centre.Y, 1e-9)
	assert.InDelta(t, -2, centre.Z, 1e-9)

	assert.False(t, s.PlaceInFront(view, 4))
	s.SetSessionActive(false)
	s.SetSessionActive(true)
	assert.True(t, s.PlaceInFront(view, 4))
}

func TestResetRebuildsWithSameSeed(t *testing.T) {
	cfg := stillConfig()
	cfg.Graph.Nodes = 8
	s := newScene(t, cfg, nil)
	original := append([]models.Node(nil), s.Network().Nodes...)

	target := original[0].Position
	s.Enqueue(interact.Intent{Kind: interact.GrabStart, Source: "mouse", Pointer: rayAt(target.X, target.Y)})
	s.Advance(1.0 / 60)
	s.Enqueue(interact.Intent{Kind: interact.GrabMove, Source: "mouse", Pointer: rayAt(target.X+1, target.Y)})
	s.Advance(1.0 / 60)

	require.NoError(t, s.Reset())
	assert.Equal(t, uint64(0), s.FrameCount())
	assert.Empty(t, s.Controller().Sessions())
	for i, n := range s.Network().Nodes {
		assert.Equal(t, original[i].Position, n.Position)
		assert.False(t, n.Held)
	}
}

func TestMetricsAreRecorded(t *testing.T) {
	reg := metrics.NewRegistry()
	s := newScene(t, stillConfig(), reg)
	column(t, s, 3)

	s.Enqueue(interact.Intent{Kind: interact.GrabStart, Source: "mouse", Pointer: rayAt(0, 1)})
	s.Enqueue(interact.Intent{Kind: interact.GrabStart, Source: "pen", Pointer: rayAt(4, 4)})
	s.Advance(1.0 / 60)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.ActiveSessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.GrabsTotal.WithLabelValues("mouse", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.GrabsTotal.WithLabelValues("pen", "miss")))

	s.Enqueue(interact.Intent{Kind: interact.GrabEnd, Source: "mouse"})
	s.Advance(1.0 / 60)
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.FramesTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.ActiveSessions))
	assert.Equal(t, 3.0, testutil.ToFloat64(reg.NetworkNodes))
	var held dto.Metric
	require.NoError(t, reg.GrabDuration.Write(&held))
	assert.Equal(t, uint64(1), held.GetHistogram().GetSampleCount())

	require.NoError(t, s.Reset())
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.ResetsTotal))
}

func TestLoggerReportsGrabs(t *testing.T) {
	var buf bytes.Buffer
	s := newScene(t, stillConfig(), nil)
	s.SetLogger(log.New(&buf, "", 0))
	column(t, s, 2)

	s.Enqueue(interact.Intent{Kind: interact.GrabStart, Source: "mouse", Pointer: rayAt(0, 0)})
	s.Enqueue(interact.Intent{Kind: interact.SourceLost, Source: "mouse"})
	s.Advance(1.0 / 60)

	out := buf.String()
	assert.Contains(t, out, "grab: mouse holds node 0")
	assert.Contains(t, out, "release: mouse let go of node 0 (source_lost)")
}

func TestGetVariant(t *testing.T) {
	v, err := GetVariant("")
	require.NoError(t, err)
	assert.Equal(t, "desktop", v.Name)

	v, err = GetVariant("AR")
	require.NoError(t, err)
	assert.True(t, v.Transparent)
	assert.Equal(t, "xr", v.Strategy)

	_, err = GetVariant("cave")
	assert.Error(t, err)
	assert.Equal(t, []string{"ar", "desktop", "vr-hands"}, VariantNames())
}
