package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/TFMV/glowgraph/models"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// AnchorField offsets each node's anchor over time, giving idle motion
type AnchorField interface {
	Offset(id int, t float64) models.Vec
	Name() string
}

// Still keeps every anchor at its base position
type Still struct{}

// Offset returns the zero vector
func (Still) Offset(int, float64) models.Vec { return models.Vec{} }

// Name returns the name of the anchor field
func (Still) Name() string { return "still" }

// Breathing moves anchors along per-axis sinusoids with a per-node phase.
// The axis ratios follow the floating drift of the desktop sphere scene.
type Breathing struct {
	Amplitude float64 // World units on the x axis; y and z are scaled down
	Frequency float64 // Hz on the x axis
}

// Offset returns the breathing offset of node id at time t
func (b Breathing) Offset(id int, t float64) models.Vec {
	if b.Amplitude == 0 {
		return models.Vec{}
	}
	w := 2 * math.Pi * b.Frequency
	phase := float64(id) * 0.7
	return models.Vec{
		X: b.Amplitude * math.Sin(w*t+phase),
		Y: b.Amplitude * 0.6 * math.Cos(w*1.2*t+phase),
		Z: b.Amplitude * 0.4 * math.Sin(w*0.8*t+phase),
	}
}

// Name returns the name of the anchor field
func (Breathing) Name() string { return "breathing" }

// NoiseDrift moves anchors through a simplex noise field
type NoiseDrift struct {
	noise     opensimplex.Noise
	Amplitude float64
	Speed     float64 // Noise-space units per second
	Seed      int64
}

// NewNoiseDrift creates a drift field seeded for reproducible motion
func NewNoiseDrift(seed int64, amplitude, speed float64) *NoiseDrift {
	return &NoiseDrift{
		noise:     opensimplex.New(seed),
		Amplitude: amplitude,
		Speed:     speed,
		Seed:      seed,
	}
}

// Offset samples three decorrelated noise channels for node id at time t
func (d *NoiseDrift) Offset(id int, t float64) models.Vec {
	if d.Amplitude == 0 {
		return models.Vec{}
	}
	u := float64(id) * 7.31
	v := t * d.Speed
	return models.Vec{
		X: d.Amplitude * d.noise.Eval3(u, v, 0),
		Y: d.Amplitude * d.noise.Eval3(u+100, v, 17),
		Z: d.Amplitude * d.noise.Eval3(u+200, v, 53),
	}
}

// Name returns the name of the anchor field
func (d *NoiseDrift) Name() string { return "noise" }

// GetAnchorField returns an anchor field by name
func GetAnchorField(name string, amplitude, frequency float64, seed int64) (AnchorField, error) {
	switch strings.ToLower(name) {
	case "still", "none", "":
		return Still{}, nil
	case "breathing", "sine":
		return Breathing{Amplitude: amplitude, Frequency: frequency}, nil
	case "noise", "drift":
		return NewNoiseDrift(seed, amplitude, frequency), nil
	default:
		return nil, fmt.Errorf("unsupported anchor field: %s", name)
	}
}
