// Package physics integrates the mass-spring-damper motion of a node network.
package physics

import (
	"math"
	"time"

	"github.com/TFMV/glowgraph/models"
	"gonum.org/v1/gonum/spatial/r3"
)

// minSpringLength is the edge length below which the spring direction is undefined
const minSpringLength = 1e-9

// Params holds the spring, damping and integration constants
type Params struct {
	SpringStiffness float64 `json:"spring_stiffness" yaml:"spring_stiffness" toml:"spring_stiffness" validate:"gt=0"` // Edge spring constant k
	SpringDamping   float64 `json:"spring_damping" yaml:"spring_damping" toml:"spring_damping" validate:"gte=0"`       // Damping along the edge direction
	AnchorStiffness float64 `json:"anchor_stiffness" yaml:"anchor_stiffness" toml:"anchor_stiffness" validate:"gte=0"` // Weak pull toward each node's anchor
	LinearDamping   float64 `json:"linear_damping" yaml:"linear_damping" toml:"linear_damping" validate:"gte=0"`       // Drag opposing each node's velocity
	MaxSpeed        float64 `json:"max_speed" yaml:"max_speed" toml:"max_speed" validate:"gt=0"`
	MaxDT           float64 `json:"max_dt" yaml:"max_dt" toml:"max_dt" validate:"gt=0"`                               // Longest frame integrated in one step, seconds
	EnergyThreshold float64 `json:"energy_threshold" yaml:"energy_threshold" toml:"energy_threshold" validate:"gte=0"` // Kinetic energy under which the network is settled
}

// DefaultParams returns constants tuned for networks a few units across
func DefaultParams() Params {
	return Params{
		SpringStiffness: 12.0,
		SpringDamping:   0.8,
		AnchorStiffness: 0.6,
		LinearDamping:   1.8,
		MaxSpeed:        6.0,
		MaxDT:           1.0 / 30.0,
		EnergyThreshold: 1e-4,
	}
}

// StepStats describes one integration step
type StepStats struct {
	DT            float64 // Integrated time after clamping
	Clamped       int     // Nodes whose speed hit MaxSpeed
	KineticEnergy float64
}

// Stepper advances node positions once per rendered frame.
// Held nodes are pinned: their position is owned by the interaction layer,
// but their neighbors still feel the edge springs pulling toward them.
type Stepper struct {
	net        *models.Network
	params     Params
	anchors    AnchorField
	velocities []models.Vec
	forces     []models.Vec
	elapsed    float64
	lastFrame  time.Time
	ticking    bool
	energy     float64
	settled    bool
}

// NewStepper creates a stepper for net. A nil anchor field holds nodes still.
func NewStepper(net *models.Network, params Params, anchors AnchorField) *Stepper {
	if anchors == nil {
		anchors = Still{}
	}
	s := &Stepper{
		net:     net,
		params:  params,
		anchors: anchors,
	}
	s.Reset()
	return s
}

// Reset zeroes every velocity and the simulation clock
func (s *Stepper) Reset() {
	s.velocities = make([]models.Vec, len(s.net.Nodes))
	s.forces = make([]models.Vec, len(s.net.Nodes))
	s.elapsed = 0
	s.lastFrame = time.Time{}
	s.ticking = false
	s.energy = 0
	s.settled = true
}

// Params returns the constants in use
func (s *Stepper) Params() Params {
	return s.params
}

// Elapsed returns the simulated seconds integrated so far
func (s *Stepper) Elapsed() float64 {
	return s.elapsed
}

// Velocity returns the current velocity of a node
func (s *Stepper) Velocity(id int) models.Vec {
	if id < 0 || id >= len(s.velocities) {
		return models.Vec{}
	}
	return s.velocities[id]
}

// ResetVelocity zeroes a node's velocity, used when input repositions it
func (s *Stepper) ResetVelocity(id int) {
	if id >= 0 && id < len(s.velocities) {
		s.velocities[id] = models.Vec{}
	}
}

// KineticEnergy returns the unit-mass kinetic energy after the last step
func (s *Stepper) KineticEnergy() float64 {
	return s.energy
}

// Settled reports whether the last step's kinetic energy was below the threshold
func (s *Stepper) Settled() bool {
	return s.settled
}

// Tick steps by the wall-clock time since the previous tick.
// The first tick after construction or Reset only records the time.
func (s *Stepper) Tick(now time.Time) StepStats {
	if !s.ticking {
		s.ticking = true
		s.lastFrame = now
		return s.Step(0)
	}
	dt := now.Sub(s.lastFrame).Seconds()
	s.lastFrame = now
	return s.Step(dt)
}

// Step integrates dt seconds, clamped to [0, MaxDT], with semi-implicit Euler
func (s *Stepper) Step(dt float64) StepStats {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	if s.params.MaxDT > 0 && dt > s.params.MaxDT {
		dt = s.params.MaxDT
	}
	stats := StepStats{DT: dt}
	if dt == 0 {
		stats.KineticEnergy = s.energy
		return stats
	}

	s.elapsed += dt
	nodes := s.net.Nodes

	for i := range s.forces {
		s.forces[i] = models.Vec{}
	}

	// Anchor and linear damping forces on free nodes
	for i := range nodes {
		node := &nodes[i]
		if node.Held {
			continue
		}
		anchor := r3.Add(node.Base, s.anchors.Offset(node.ID, s.elapsed))
		pull := r3.Scale(s.params.AnchorStiffness, r3.Sub(anchor, node.Position))
		drag := r3.Scale(-s.params.LinearDamping, s.velocities[i])
		s.forces[i] = r3.Add(s.forces[i], r3.Add(pull, drag))
	}

	// Spring-damper along every edge, equal and opposite on the endpoints
	for _, e := range s.net.Edges {
		d := r3.Sub(nodes[e.B].Position, nodes[e.A].Position)
		length := r3.Norm(d)
		if length < minSpringLength {
			continue
		}
		dir := r3.Scale(1/length, d)
		relVel := r3.Dot(r3.Sub(s.velocities[e.B], s.velocities[e.A]), dir)
		magnitude := s.params.SpringStiffness*(length-e.RestLength) + s.params.SpringDamping*relVel
		f := r3.Scale(magnitude, dir)
		s.forces[e.A] = r3.Add(s.forces[e.A], f)
		s.forces[e.B] = r3.Sub(s.forces[e.B], f)
	}

	energy := 0.0
	for i := range nodes {
		node := &nodes[i]
		if node.Held {
			s.velocities[i] = models.Vec{}
			continue
		}
		v := r3.Add(s.velocities[i], r3.Scale(dt, s.forces[i]))
		if speed := r3.Norm(v); s.params.MaxSpeed > 0 && speed > s.params.MaxSpeed {
			v = r3.Scale(s.params.MaxSpeed/speed, v)
			stats.Clamped++
		}
		s.velocities[i] = v
		node.Position = r3.Add(node.Position, r3.Scale(dt, v))
		energy += 0.5 * r3.Dot(v, v)
	}

	s.energy = energy
	s.settled = energy < s.params.EnergyThreshold
	stats.KineticEnergy = energy
	return stats
}
