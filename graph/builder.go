// Package graph places the glowing nodes of a network and connects them.
package graph

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/TFMV/glowgraph/models"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrInvalidNodeCount is returned for a non-positive node count
	ErrInvalidNodeCount = errors.New("node count must be positive")
	// ErrEmptyPalette is returned when there is no color to sample from
	ErrEmptyPalette = errors.New("palette has no node colors")
	// ErrNoBounds is returned when no placement volume is given
	ErrNoBounds = errors.New("bounds are required")
)

// goldenAngle spaces fallback positions on a spiral so they never coincide
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// Options configures a build
type Options struct {
	Name          string
	NodeCount     int
	Bounds        models.Bounds
	Palette       *Palette
	Topology      Topology
	MinSeparation float64 // Minimum pairwise distance between placed nodes
	MaxAttempts   int     // Random samples tried per node before falling back
	Radius        float64 // Visual radius of each node
	Intensity     float64 // Glow intensity of each node
	Seed          uint64
}

// DefaultOptions returns the parameters of the desktop sphere scene
func DefaultOptions() Options {
	return Options{
		Name:          "Glowing Network",
		NodeCount:     24,
		Bounds:        models.Box{Min: models.Vec{X: -2, Y: -1.5, Z: -2}, Max: models.Vec{X: 2, Y: 1.5, Z: 2}},
		Palette:       GlowPalette(),
		Topology:      MST{},
		MinSeparation: 0.35,
		MaxAttempts:   30,
		Radius:        0.08,
		Intensity:     1.5,
		Seed:          1,
	}
}

// Build creates a network of opts.NodeCount placed, colored and connected nodes.
// Placement never fails: a node that cannot be placed at random falls back to a
// deterministic spiral offset around the bounds centre.
func Build(opts Options) (*models.Network, error) {
	if opts.NodeCount <= 0 {
		return nil, fmt.Errorf("build: %w: %d", ErrInvalidNodeCount, opts.NodeCount)
	}
	if opts.Palette == nil || len(opts.Palette.NodeColors) == 0 {
		return nil, fmt.Errorf("build: %w", ErrEmptyPalette)
	}
	if opts.Bounds == nil {
		return nil, fmt.Errorf("build: %w", ErrNoBounds)
	}
	if opts.Topology == nil {
		opts.Topology = MST{}
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	net := models.NewNetwork(opts.Name)

	placed := make([]models.Vec, 0, opts.NodeCount)
	for i := 0; i < opts.NodeCount; i++ {
		pos, ok := place(rng, opts, placed)
		if !ok {
			pos = fallback(opts, placed, i)
		}
		placed = append(placed, pos)

		color := opts.Palette.NodeColors[rng.IntN(len(opts.Palette.NodeColors))]
		net.AddNode(pos, color, opts.Radius, opts.Intensity)
	}

	if err := opts.Topology.Connect(net); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	// Each edge takes the color of one of its endpoints
	for i := range net.Edges {
		e := &net.Edges[i]
		if rng.IntN(2) == 0 {
			e.Color = net.Nodes[e.A].BaseColor
		} else {
			e.Color = net.Nodes[e.B].BaseColor
		}
		e.Opacity = opts.Palette.EdgeOpacity
	}

	return net, nil
}

// place samples the bounds until a position clears every placed node
func place(rng *rand.Rand, opts Options, placed []models.Vec) (models.Vec, bool) {
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		candidate := opts.Bounds.Sample(rng)
		if clears(candidate, placed, opts.MinSeparation) {
			return candidate, true
		}
	}
	return models.Vec{}, false
}

// fallback walks a golden-angle spiral outward from the centre until it finds
// a clear slot. The walk is deterministic and bounded; the last candidate is used
// if nothing clears.
func fallback(opts Options, placed []models.Vec, index int) models.Vec {
	step := opts.MinSeparation
	if step <= 0 {
		step = opts.Bounds.Extent() / 10
	}
	if step <= 0 {
		step = 1
	}

	center := opts.Bounds.Center()
	var candidate models.Vec
	limit := 4*len(placed) + 8
	for k := 0; k < limit; k++ {
		j := float64(index + k + 1)
		theta := j * goldenAngle
		r := step * math.Sqrt(j)
		y := (math.Mod(j*0.618, 2) - 1) * step
		candidate = r3.Add(center, models.Vec{X: r * math.Cos(theta), Y: y, Z: r * math.Sin(theta)})
		if clears(candidate, placed, opts.MinSeparation) {
			return candidate
		}
	}
	return candidate
}

func clears(p models.Vec, placed []models.Vec, minSep float64) bool {
	for _, q := range placed {
		if r3.Norm(r3.Sub(p, q)) < minSep {
			return false
		}
	}
	return true
}
