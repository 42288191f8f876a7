package interact

import (
	"fmt"
	"strings"

	"github.com/TFMV/glowgraph/models"
	"gonum.org/v1/gonum/spatial/r3"
)

// Strategy turns input into the interaction anchor a held node follows
type Strategy interface {
	// Begin records the anchor and drag geometry of a new session
	Begin(s *Session, hit Hit, p Pointer)
	// Anchor returns the anchor for a move event, false if p carries nothing usable
	Anchor(s *Session, p Pointer) (models.Vec, bool)
	Name() string
}

// PointerDrag drags the node across a camera-facing plane through the grab point
type PointerDrag struct{}

// Name returns the name of the strategy
func (PointerDrag) Name() string { return "pointer" }

// Begin anchors at the hit point and faces the drag plane toward the pointer ray
func (PointerDrag) Begin(s *Session, hit Hit, p Pointer) {
	s.Anchor = hit.Point
	s.Depth = hit.Distance
	normal := models.Vec{Z: 1}
	if p.Ray != nil && r3.Norm(p.Ray.Dir) > 0 {
		normal = r3.Scale(-1, p.Ray.Dir)
	}
	s.Plane = models.Plane{Point: hit.Point, Normal: normal}
}

// Anchor intersects the move ray with the drag plane
func (PointerDrag) Anchor(s *Session, p Pointer) (models.Vec, bool) {
	if p.Ray != nil {
		if t, ok := p.Ray.IntersectPlane(s.Plane); ok {
			return p.Ray.At(t), true
		}
	}
	if p.Position != nil {
		return *p.Position, true
	}
	return models.Vec{}, false
}

// XRGrab attaches the node to the controller: the grip position when tracked,
// otherwise the point on the controller ray at the grab distance
type XRGrab struct{}

// Name returns the name of the strategy
func (XRGrab) Name() string { return "xr" }

// Begin anchors at the controller grip or the ray hit
func (XRGrab) Begin(s *Session, hit Hit, p Pointer) {
	if p.Position != nil {
		s.Anchor = *p.Position
	} else {
		s.Anchor = hit.Point
	}
	s.Depth = hit.Distance
	if p.Ray != nil {
		s.Plane = models.Plane{Point: hit.Point, Normal: r3.Scale(-1, p.Ray.Dir)}
	}
}

// Anchor follows the controller
func (XRGrab) Anchor(s *Session, p Pointer) (models.Vec, bool) {
	if p.Position != nil {
		return *p.Position, true
	}
	if p.Ray != nil {
		return p.Ray.At(s.Depth), true
	}
	return models.Vec{}, false
}

// GetStrategy returns an interaction strategy by name
func GetStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "pointer", "drag", "":
		return PointerDrag{}, nil
	case "xr", "grab":
		return XRGrab{}, nil
	default:
		return nil, fmt.Errorf("unsupported interaction strategy: %s", name)
	}
}
