package models

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ScreenPoint is a pointer position in pixels, origin at the top-left corner
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Camera is a perspective pinhole camera looking from Eye toward Target
type Camera struct {
	Eye    Vec     `json:"eye" yaml:"eye" toml:"eye"`
	Target Vec     `json:"target" yaml:"target" toml:"target"`
	Up     Vec     `json:"up" yaml:"up" toml:"up"`
	FOV    float64 `json:"fov" yaml:"fov" toml:"fov" validate:"gt=0,lt=180"` // Vertical field of view, degrees
	Width  float64 `json:"width" yaml:"width" toml:"width" validate:"gt=0"`
	Height float64 `json:"height" yaml:"height" toml:"height" validate:"gt=0"`
}

// ErrDegenerateCamera is returned for a camera that cannot form a view basis
var ErrDegenerateCamera = errors.New("degenerate camera")

// Validate reports cameras whose projection would produce NaN: an eye on its
// target, an up vector along the view axis, or an empty field of view or viewport
func (c Camera) Validate() error {
	view := r3.Sub(c.Target, c.Eye)
	switch {
	case r3.Norm(view) < 1e-9:
		return fmt.Errorf("%w: eye %v is on the target", ErrDegenerateCamera, c.Eye)
	case r3.Norm(r3.Cross(r3.Unit(view), c.Up)) < 1e-9:
		return fmt.Errorf("%w: up %v is parallel to the view direction", ErrDegenerateCamera, c.Up)
	case !(c.FOV > 0 && c.FOV < 180):
		return fmt.Errorf("%w: field of view %g must be within (0, 180)", ErrDegenerateCamera, c.FOV)
	case !(c.Width > 0 && c.Height > 0):
		return fmt.Errorf("%w: viewport %gx%g must be positive", ErrDegenerateCamera, c.Width, c.Height)
	}
	return nil
}

// DefaultCamera mirrors the desktop scene: 75° FOV, five units back on +z
func DefaultCamera(width, height float64) Camera {
	return Camera{
		Eye:    Vec{Z: 5},
		Target: Vec{},
		Up:     Vec{Y: 1},
		FOV:    75,
		Width:  width,
		Height: height,
	}
}

// basis returns the camera's right, up and forward unit vectors
func (c Camera) basis() (right, up, forward Vec) {
	forward = r3.Unit(r3.Sub(c.Target, c.Eye))
	right = r3.Unit(r3.Cross(forward, c.Up))
	up = r3.Cross(right, forward)
	return right, up, forward
}

func (c Camera) focal() float64 {
	return (c.Height / 2) / math.Tan(c.FOV*math.Pi/360)
}

// Project maps a world point to screen pixels and its depth along the view axis.
// ok is false for points at or behind the eye.
func (c Camera) Project(p Vec) (ScreenPoint, float64, bool) {
	right, up, forward := c.basis()
	rel := r3.Sub(p, c.Eye)
	depth := r3.Dot(rel, forward)
	if depth <= 1e-9 {
		return ScreenPoint{}, depth, false
	}
	f := c.focal()
	return ScreenPoint{
		X: c.Width/2 + f*r3.Dot(rel, right)/depth,
		Y: c.Height/2 - f*r3.Dot(rel, up)/depth,
	}, depth, true
}

// ProjectedRadius returns the on-screen radius of a sphere at the given depth
func (c Camera) ProjectedRadius(radius, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return c.focal() * radius / depth
}

// Ray returns the world-space ray through a screen point
func (c Camera) Ray(s ScreenPoint) Ray {
	right, up, forward := c.basis()
	f := c.focal()
	dx := (s.X - c.Width/2) / f
	dy := (c.Height/2 - s.Y) / f
	dir := r3.Add(forward, r3.Add(r3.Scale(dx, right), r3.Scale(dy, up)))
	return NewRay(c.Eye, dir)
}

// Forward returns the unit viewing direction
func (c Camera) Forward() Vec {
	_, _, forward := c.basis()
	return forward
}
