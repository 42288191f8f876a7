package models

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// line returns n nodes spaced one unit apart along x with no edges
func line(n int) *Network {
	net := NewNetwork("line")
	for i := 0; i < n; i++ {
		net.AddNode(Vec{X: float64(i)}, "#ffffff", 0.1, 1)
	}
	return net
}

func TestNewNetwork(t *testing.T) {
	net := line(3)
	assert.NotEmpty(t, net.ID)
	assert.NotEqual(t, net.ID, NewNetwork("other").ID)
	for i, n := range net.Nodes {
		assert.Equal(t, i, n.ID, "ids are dense and ordered")
		assert.Equal(t, n.Position, n.Base)
		assert.Equal(t, n.Color, n.BaseColor)
	}
}

func TestAddEdgeRejectsInvalidPairs(t *testing.T) {
	net := line(3)
	require.NoError(t, net.AddEdge(0, 1, 1))

	cases := []struct {
		name string
		a, b int
		want error
	}{
		{"negative id", -1, 1, ErrUnknownNode},
		{"id past the end", 0, 3, ErrUnknownNode},
		{"self loop", 2, 2, ErrSelfLoop},
		{"same pair", 0, 1, ErrDuplicateEdge},
		{"reversed pair", 1, 0, ErrDuplicateEdge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := net.AddEdge(tc.a, tc.b, 1)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
	assert.Len(t, net.Edges, 1, "rejected edges are not added")
	assert.Equal(t, []int{1}, net.Neighbors(0))
}

func TestEdgeBetweenIsUnordered(t *testing.T) {
	net := line(3)
	require.NoError(t, net.AddEdge(2, 1, 1.5))

	e, ok := net.EdgeBetween(1, 2)
	require.True(t, ok)
	assert.Equal(t, 1.5, e.RestLength)
	assert.Equal(t, 1, e.Other(2))
	assert.Equal(t, MakeEdgeKey(1, 2), e.Key())

	_, ok = net.EdgeBetween(0, 1)
	assert.False(t, ok)
}

func TestNodeLookup(t *testing.T) {
	net := line(2)
	n, err := net.Node(1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, n.Position.X)

	_, err = net.Node(2)
	assert.True(t, errors.Is(err, ErrUnknownNode))
	assert.True(t, errors.Is(net.SetPosition(-1, Vec{}), ErrUnknownNode))
}

func TestHopQueriesOnDisconnectedNetwork(t *testing.T) {
	// 0-1-2 and 3-4, with 5 isolated
	net := line(6)
	require.NoError(t, net.AddEdge(0, 1, 1))
	require.NoError(t, net.AddEdge(1, 2, 1))
	require.NoError(t, net.AddEdge(3, 4, 1))

	assert.Equal(t, map[int]int{0: 0, 1: 1, 2: 2}, net.HopDistances(0))
	assert.Equal(t, map[int]int{5: 0}, net.HopDistances(5))
	assert.Empty(t, net.HopDistances(9), "unknown ids reach nothing")

	assert.Equal(t, []int{2}, net.NodesAtHop(0, 2))
	assert.Equal(t, []int{4}, net.NodesAtHop(3, 1))
	assert.Empty(t, net.NodesAtHop(0, 3))
	assert.Empty(t, net.NodesAtHop(5, 1))

	assert.False(t, net.IsConnected())
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4}, {5}}, net.Components())

	require.NoError(t, net.AddEdge(2, 3, 1))
	require.NoError(t, net.AddEdge(4, 5, 1))
	assert.True(t, net.IsConnected())
	assert.Equal(t, []int{5}, net.NodesAtHop(0, 5))
}

func TestStructLiteralNetworkBuildsIndexes(t *testing.T) {
	net := &Network{
		Nodes: []Node{{ID: 0}, {ID: 1, Position: Vec{X: 2}}},
		Edges: []Edge{{A: 0, B: 1, RestLength: 2}},
	}
	assert.Equal(t, []int{1}, net.Neighbors(0))
	assert.True(t, net.IsConnected())
	assert.True(t, errors.Is(net.AddEdge(1, 0, 1), ErrDuplicateEdge))
}

func TestRebaseAndTranslate(t *testing.T) {
	net := line(3)
	require.NoError(t, net.AddEdge(0, 1, 1))
	require.NoError(t, net.AddEdge(1, 2, 1))

	require.NoError(t, net.SetPosition(2, Vec{X: 2, Y: 3}))
	net.RebaseRestLengths()
	e, _ := net.EdgeBetween(1, 2)
	assert.InDelta(t, math.Sqrt(10), e.RestLength, 1e-12)
	assert.Equal(t, Vec{X: 2}, net.Nodes[2].Base, "rest lengths do not move anchors")

	require.NoError(t, net.Rebase(2))
	assert.Equal(t, Vec{X: 2, Y: 3}, net.Nodes[2].Base)

	net.Translate(Vec{Z: 1})
	assert.Equal(t, Vec{Z: 1}, net.Nodes[0].Position)
	assert.Equal(t, Vec{Z: 1}, net.Nodes[0].Base)
	assert.InDelta(t, math.Sqrt(10), net.Distance(1, 2), 1e-12, "translation keeps distances")

	net.Nodes[0].Position = Vec{Y: 9}
	net.RebaseAll()
	assert.Equal(t, Vec{Y: 9}, net.Nodes[0].Base)
}

func TestSnapshotResolvesEdgeEndpoints(t *testing.T) {
	net := line(2)
	require.NoError(t, net.AddEdge(0, 1, 1))
	net.Nodes[1].Held = true

	snap := net.Snapshot(7, 1.5)
	assert.Equal(t, net.ID, snap.NetworkID)
	assert.Equal(t, uint64(7), snap.Frame)
	require.Len(t, snap.Edges, 1)
	assert.Equal(t, Vec{}, snap.Edges[0].From)
	assert.Equal(t, Vec{X: 1}, snap.Edges[0].To)
	assert.Equal(t, []int{1}, net.HeldNodes())

	net.Nodes[0].Position = Vec{Y: 5}
	assert.Equal(t, Vec{}, snap.Nodes[0].Position, "snapshots are copies")
}

func TestRayIntersectSphere(t *testing.T) {
	down := NewRay(Vec{Z: 5}, Vec{Z: -3})
	assert.Equal(t, Vec{Z: -1}, down.Dir, "directions are normalized")

	tt, ok := down.IntersectSphere(Vec{}, 1)
	require.True(t, ok)
	assert.InDelta(t, 4, tt, 1e-12, "enters at the near surface")

	inside := NewRay(Vec{}, Vec{X: 1})
	tt, ok = inside.IntersectSphere(Vec{}, 2)
	require.True(t, ok)
	assert.InDelta(t, 2, tt, 1e-12, "an origin inside hits the exit point")

	_, ok = down.IntersectSphere(Vec{Z: 8}, 1)
	assert.False(t, ok, "spheres behind the ray are missed")

	_, ok = down.IntersectSphere(Vec{X: 3}, 1)
	assert.False(t, ok)

	_, ok = Ray{Origin: Vec{}, Dir: Vec{}}.IntersectSphere(Vec{}, 1)
	assert.False(t, ok, "a zero direction hits nothing")
}

func TestRayIntersectPlane(t *testing.T) {
	floor := Plane{Point: Vec{Y: -1}, Normal: Vec{Y: 1}}

	tt, ok := NewRay(Vec{Y: 3}, Vec{Y: -1}).IntersectPlane(floor)
	require.True(t, ok)
	assert.InDelta(t, 4, tt, 1e-12)

	_, ok = NewRay(Vec{}, Vec{X: 1, Z: 1}).IntersectPlane(floor)
	assert.False(t, ok, "parallel rays never cross")

	_, ok = NewRay(Vec{}, Vec{Y: 1}).IntersectPlane(floor)
	assert.False(t, ok, "the plane is behind the ray")
}

func TestBoundsSamplesStayInside(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("sphere samples are contained", prop.ForAll(
		func(seed uint64, radius float64) bool {
			s := Sphere{Centre: Vec{X: 1, Y: -2, Z: 0.5}, Radius: radius}
			rng := rand.New(rand.NewPCG(seed, 7))
			for i := 0; i < 50; i++ {
				if !s.Contains(s.Sample(rng)) {
					return false
				}
			}
			return true
		},
		gen.UInt64(),
		gen.Float64Range(0.01, 10),
	))

	properties.Property("box samples are contained", prop.ForAll(
		func(seed uint64, size float64) bool {
			b := Box{Min: Vec{X: -size, Y: 0, Z: -1}, Max: Vec{X: size, Y: 2 * size, Z: 1}}
			rng := rand.New(rand.NewPCG(seed, 7))
			for i := 0; i < 50; i++ {
				if !b.Contains(b.Sample(rng)) {
					return false
				}
			}
			return true
		},
		gen.UInt64(),
		gen.Float64Range(0.01, 10),
	))

	properties.TestingRun(t)
}

func TestBoundsCenterAndExtent(t *testing.T) {
	b := Box{Min: Vec{X: -1, Y: -2, Z: -2}, Max: Vec{X: 1, Y: 2, Z: 2}}
	assert.Equal(t, Vec{}, b.Center())
	assert.InDelta(t, 3, b.Extent(), 1e-12)
	assert.False(t, b.Contains(Vec{X: 1.5}))

	s := Sphere{Centre: Vec{Y: 1}, Radius: 2}
	assert.Equal(t, Vec{Y: 1}, s.Center())
	assert.Equal(t, 2.0, s.Extent())
	assert.False(t, s.Contains(Vec{Y: 3.5}))
}

func TestCameraProjectAndRayAgree(t *testing.T) {
	cam := DefaultCamera(800, 600)
	require.NoError(t, cam.Validate())

	centre, depth, ok := cam.Project(Vec{})
	require.True(t, ok)
	assert.InDelta(t, 400, centre.X, 1e-9)
	assert.InDelta(t, 300, centre.Y, 1e-9)
	assert.InDelta(t, 5, depth, 1e-9)

	p := Vec{X: 0.7, Y: -0.4, Z: 1}
	s, _, ok := cam.Project(p)
	require.True(t, ok)
	ray := cam.Ray(s)
	tt, hit := ray.IntersectSphere(p, 1e-6)
	require.True(t, hit, "the ray through a projected point passes through it")
	assert.InDelta(t, 0, r3.Norm(r3.Sub(ray.At(tt), p)), 1e-5)

	_, _, ok = cam.Project(Vec{Z: 6})
	assert.False(t, ok, "points behind the eye do not project")
}

func TestCameraValidate(t *testing.T) {
	base := DefaultCamera(800, 600)
	cases := map[string]func(c *Camera){
		"eye on target": func(c *Camera) { c.Target = c.Eye },
		"up along view": func(c *Camera) { c.Up = Vec{Z: 2} },
		"zero up":       func(c *Camera) { c.Up = Vec{} },
		"zero fov":      func(c *Camera) { c.FOV = 0 },
		"flat fov":      func(c *Camera) { c.FOV = 180 },
		"zero width":    func(c *Camera) { c.Width = 0 },
		"negative size": func(c *Camera) { c.Height = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.True(t, errors.Is(c.Validate(), ErrDegenerateCamera))
		})
	}
}
