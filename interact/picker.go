package interact

import (
	"fmt"
	"math"
	"strings"

	"github.com/TFMV/glowgraph/models"
	"gonum.org/v1/gonum/spatial/r3"
)

// Hit is the result of a successful pick
type Hit struct {
	Node     int
	Point    models.Vec // Where the input touched the node
	Distance float64    // Ray parameter, screen depth or grip distance
}

// Picker selects the node an input is pointing at
type Picker interface {
	Pick(net *models.Network, p Pointer) (Hit, bool)
	Name() string
}

// RayPicker intersects the pointer ray with every node sphere
type RayPicker struct {
	Scale float64 // Multiplies the node radius, easing selection of small nodes
}

// Name returns the name of the picker
func (RayPicker) Name() string { return "ray" }

// Pick returns the nearest node hit by p.Ray
func (rp RayPicker) Pick(net *models.Network, p Pointer) (Hit, bool) {
	if p.Ray == nil {
		return Hit{}, false
	}
	scale := rp.Scale
	if scale <= 0 {
		scale = 1
	}
	best := Hit{Node: -1, Distance: math.Inf(1)}
	for _, node := range net.Nodes {
		t, ok := p.Ray.IntersectSphere(node.Position, node.Radius*scale)
		if ok && t < best.Distance {
			best = Hit{Node: node.ID, Point: p.Ray.At(t), Distance: t}
		}
	}
	return best, best.Node >= 0
}

// ScreenPicker compares the pointer with each node's projected disc
type ScreenPicker struct {
	Camera models.Camera
	Slop   float64 // Extra pixels of tolerance around the projected radius
}

// Name returns the name of the picker
func (ScreenPicker) Name() string { return "screen" }

// Pick returns the nearest-to-camera node whose disc contains p.Screen
func (sp ScreenPicker) Pick(net *models.Network, p Pointer) (Hit, bool) {
	if p.Screen == nil {
		return Hit{}, false
	}
	best := Hit{Node: -1, Distance: math.Inf(1)}
	for _, node := range net.Nodes {
		s, depth, ok := sp.Camera.Project(node.Position)
		if !ok {
			continue
		}
		reach := sp.Camera.ProjectedRadius(node.Radius, depth) + sp.Slop
		if math.Hypot(s.X-p.Screen.X, s.Y-p.Screen.Y) > reach {
			continue
		}
		if depth < best.Distance {
			ray := sp.Camera.Ray(*p.Screen)
			t := r3.Dot(r3.Sub(node.Position, ray.Origin), ray.Dir)
			best = Hit{Node: node.ID, Point: ray.At(t), Distance: depth}
		}
	}
	return best, best.Node >= 0
}

// ProximityPicker selects the node nearest to a controller grip position
type ProximityPicker struct {
	Reach float64 // Distance beyond the node surface that still counts as touching
}

// Name returns the name of the picker
func (ProximityPicker) Name() string { return "proximity" }

// Pick returns the closest node within reach of p.Position
func (pp ProximityPicker) Pick(net *models.Network, p Pointer) (Hit, bool) {
	if p.Position == nil {
		return Hit{}, false
	}
	best := Hit{Node: -1, Distance: math.Inf(1)}
	for _, node := range net.Nodes {
		d := r3.Norm(r3.Sub(node.Position, *p.Position))
		if d <= node.Radius+pp.Reach && d < best.Distance {
			best = Hit{Node: node.ID, Point: *p.Position, Distance: d}
		}
	}
	return best, best.Node >= 0
}

// MultiPicker tries each picker in order and returns the first hit
type MultiPicker []Picker

// Name returns the names of the wrapped pickers
func (mp MultiPicker) Name() string {
	names := make([]string, len(mp))
	for i, p := range mp {
		names[i] = p.Name()
	}
	return strings.Join(names, "+")
}

// Pick returns the first hit of the wrapped pickers
func (mp MultiPicker) Pick(net *models.Network, p Pointer) (Hit, bool) {
	for _, picker := range mp {
		if hit, ok := picker.Pick(net, p); ok {
			return hit, true
		}
	}
	return Hit{}, false
}

// GetPicker returns a picker by name; the camera is used by the screen picker
func GetPicker(name string, camera models.Camera) (Picker, error) {
	switch strings.ToLower(name) {
	case "ray", "":
		return RayPicker{Scale: 1.5}, nil
	case "screen":
		return ScreenPicker{Camera: camera, Slop: 6}, nil
	case "proximity", "grip":
		return ProximityPicker{Reach: 0.05}, nil
	case "xr":
		return MultiPicker{ProximityPicker{Reach: 0.05}, RayPicker{Scale: 1.5}}, nil
	default:
		return nil, fmt.Errorf("unsupported picker: %s", name)
	}
}
