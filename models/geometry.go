package models

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// Ray is a half-line used for picking and dragging
type Ray struct {
	Origin Vec `json:"origin"`
	Dir    Vec `json:"dir"`
}

// NewRay creates a ray with a normalized direction
func NewRay(origin, dir Vec) Ray {
	if r3.Norm(dir) == 0 {
		return Ray{Origin: origin, Dir: dir}
	}
	return Ray{Origin: origin, Dir: r3.Unit(dir)}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Dir))
}

// IntersectSphere returns the nearest non-negative parameter where the ray
// enters (or, when starting inside, leaves) the sphere
func (r Ray) IntersectSphere(center Vec, radius float64) (float64, bool) {
	dd := r3.Dot(r.Dir, r.Dir)
	if dd == 0 {
		return 0, false
	}
	oc := r3.Sub(r.Origin, center)
	b := r3.Dot(oc, r.Dir)
	c := r3.Dot(oc, oc) - radius*radius
	disc := b*b - dd*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := (-b - sq) / dd
	if t < 0 {
		t = (-b + sq) / dd
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectPlane returns the parameter where the ray crosses the plane
func (r Ray) IntersectPlane(p Plane) (float64, bool) {
	denom := r3.Dot(p.Normal, r.Dir)
	if math.Abs(denom) < 1e-9 {
		return 0, false
	}
	t := r3.Dot(p.Normal, r3.Sub(p.Point, r.Origin)) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Plane is an infinite plane through Point with the given Normal
type Plane struct {
	Point  Vec `json:"point"`
	Normal Vec `json:"normal"`
}

// Bounds is a volume that nodes are randomly placed in
type Bounds interface {
	Sample(rng *rand.Rand) Vec
	Contains(p Vec) bool
	Center() Vec
	// Extent is a characteristic size used to scale fallback placement
	Extent() float64
}

// Box is an axis-aligned bounding box
type Box struct {
	Min Vec `json:"min" yaml:"min" toml:"min"`
	Max Vec `json:"max" yaml:"max" toml:"max"`
}

// Sample returns a uniformly distributed point inside the box
func (b Box) Sample(rng *rand.Rand) Vec {
	return Vec{
		X: b.Min.X + rng.Float64()*(b.Max.X-b.Min.X),
		Y: b.Min.Y + rng.Float64()*(b.Max.Y-b.Min.Y),
		Z: b.Min.Z + rng.Float64()*(b.Max.Z-b.Min.Z),
	}
}

// Contains reports whether p lies inside the box
func (b Box) Contains(p Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Center returns the midpoint of the box
func (b Box) Center() Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Extent returns half the box diagonal
func (b Box) Extent() float64 {
	return 0.5 * r3.Norm(r3.Sub(b.Max, b.Min))
}

// Sphere is a ball of the given radius
type Sphere struct {
	Centre Vec     `json:"center" yaml:"center" toml:"center"`
	Radius float64 `json:"radius" yaml:"radius" toml:"radius"`
}

// Sample returns a uniformly distributed point inside the ball
func (s Sphere) Sample(rng *rand.Rand) Vec {
	// Marsaglia: normal direction, cube-root radius
	dir := Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
	l := r3.Norm(dir)
	if l == 0 {
		return s.Centre
	}
	r := s.Radius * math.Cbrt(rng.Float64())
	return r3.Add(s.Centre, r3.Scale(r/l, dir))
}

// Contains reports whether p lies inside the ball
func (s Sphere) Contains(p Vec) bool {
	return r3.Norm(r3.Sub(p, s.Centre)) <= s.Radius
}

// Center returns the centre of the ball
func (s Sphere) Center() Vec {
	return s.Centre
}

// Extent returns the radius
func (s Sphere) Extent() float64 {
	return s.Radius
}
