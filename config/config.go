// Package config loads and validates scene configuration files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/TFMV/glowgraph/models"
	"github.com/TFMV/glowgraph/physics"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for config files with an unknown extension
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Scene holds everything needed to construct an interactive node network
type Scene struct {
	Name        string            `json:"name" yaml:"name" toml:"name"`
	Variant     string            `json:"variant" yaml:"variant" toml:"variant" validate:"omitempty,oneof=desktop ar vr-hands"`
	Seed        uint64            `json:"seed" yaml:"seed" toml:"seed"`
	Graph       GraphConfig       `json:"graph" yaml:"graph" toml:"graph"`
	Physics     PhysicsConfig     `json:"physics" yaml:"physics" toml:"physics"`
	Interaction InteractionConfig `json:"interaction" yaml:"interaction" toml:"interaction"`
	Camera      models.Camera     `json:"camera" yaml:"camera" toml:"camera"`
}

// GraphConfig controls node placement and topology
type GraphConfig struct {
	Nodes         int          `json:"nodes" yaml:"nodes" toml:"nodes" validate:"gt=0,lte=1000"`
	Topology      string       `json:"topology" yaml:"topology" toml:"topology" validate:"oneof=mst chain"`
	Palette       string       `json:"palette" yaml:"palette" toml:"palette" validate:"omitempty,oneof=default glow neon"`
	Colors        []string     `json:"colors,omitempty" yaml:"colors,omitempty" toml:"colors,omitempty" validate:"omitempty,dive,hexcolor"`
	Bounds        BoundsConfig `json:"bounds" yaml:"bounds" toml:"bounds"`
	MinSeparation float64      `json:"min_separation" yaml:"min_separation" toml:"min_separation" validate:"gte=0"`
	MaxAttempts   int          `json:"max_attempts" yaml:"max_attempts" toml:"max_attempts" validate:"gt=0"`
	Radius        float64      `json:"radius" yaml:"radius" toml:"radius" validate:"gt=0"`
	Intensity     float64      `json:"intensity" yaml:"intensity" toml:"intensity" validate:"gte=0"`
}

// BoundsConfig describes the placement volume
type BoundsConfig struct {
	Shape  string     `json:"shape" yaml:"shape" toml:"shape" validate:"oneof=box sphere"`
	Min    models.Vec `json:"min" yaml:"min" toml:"min"`
	Max    models.Vec `json:"max" yaml:"max" toml:"max"`
	Center models.Vec `json:"center" yaml:"center" toml:"center"`
	Radius float64    `json:"radius" yaml:"radius" toml:"radius" validate:"gte=0"`
}

// PhysicsConfig wraps the stepper constants and the idle anchor motion
type PhysicsConfig struct {
	physics.Params `yaml:",inline"`
	Anchor         string  `json:"anchor" yaml:"anchor" toml:"anchor" validate:"oneof=still breathing noise"`
	Amplitude      float64 `json:"amplitude" yaml:"amplitude" toml:"amplitude" validate:"gte=0"`
	Frequency      float64 `json:"frequency" yaml:"frequency" toml:"frequency" validate:"gte=0"`
}

// InteractionConfig selects the picking and dragging behavior
type InteractionConfig struct {
	Strategy     string  `json:"strategy" yaml:"strategy" toml:"strategy" validate:"omitempty,oneof=pointer xr"`
	Picker       string  `json:"picker" yaml:"picker" toml:"picker" validate:"omitempty,oneof=ray screen proximity xr"`
	Highlight    float64 `json:"highlight" yaml:"highlight" toml:"highlight" validate:"gte=0,lte=1"`
	PullHops     int     `json:"pull_hops" yaml:"pull_hops" toml:"pull_hops" validate:"gte=0"`
	PullStrength float64 `json:"pull_strength" yaml:"pull_strength" toml:"pull_strength" validate:"gte=0"`
	MaxBlend     float64 `json:"max_blend" yaml:"max_blend" toml:"max_blend" validate:"gt=0,lte=0.85"`
	RebaseAll    bool    `json:"rebase_all" yaml:"rebase_all" toml:"rebase_all"`
}

// Default returns the desktop scene configuration
func Default() *Scene {
	return &Scene{
		Name:    "Glowing Network",
		Variant: "desktop",
		Seed:    1,
		Graph: GraphConfig{
			Nodes:    24,
			Topology: "mst",
			Palette:  "glow",
			Bounds: BoundsConfig{
				Shape: "box",
				Min:   models.Vec{X: -2, Y: -1.5, Z: -2},
				Max:   models.Vec{X: 2, Y: 1.5, Z: 2},
			},
			MinSeparation: 0.35,
			MaxAttempts:   30,
			Radius:        0.08,
			Intensity:     1.5,
		},
		Physics: PhysicsConfig{
			Params:    physics.DefaultParams(),
			Anchor:    "breathing",
			Amplitude: 0.03,
			Frequency: 0.25,
		},
		Interaction: InteractionConfig{
			Highlight:    0.25,
			PullStrength: 0.6,
			MaxBlend:     0.85,
		},
		Camera: models.DefaultCamera(800, 600),
	}
}

// Bounds converts the bounds section into a placement volume
func (b BoundsConfig) Bounds() models.Bounds {
	if b.Shape == "sphere" {
		return models.Sphere{Centre: b.Center, Radius: b.Radius}
	}
	return models.Box{Min: b.Min, Max: b.Max}
}

var validate = validator.New()

// Validate checks field ranges and cross-field constraints
func (s *Scene) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid scene config: %w", err)
	}
	b := s.Graph.Bounds
	switch b.Shape {
	case "box":
		if b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z {
			return fmt.Errorf("invalid scene config: box min %v exceeds max %v", b.Min, b.Max)
		}
	case "sphere":
		if b.Radius <= 0 {
			return fmt.Errorf("invalid scene config: sphere radius must be positive")
		}
	}
	if err := s.Camera.Validate(); err != nil {
		return fmt.Errorf("invalid scene config: %w", err)
	}
	return nil
}

// Load reads a YAML, TOML or JSON scene file over the defaults and validates it
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes a scene in the format named by ext (".yaml", ".toml", ".json")
func Parse(data []byte, ext string) (*Scene, error) {
	cfg := Default()
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing YAML: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing TOML: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the scene as YAML
func (s *Scene) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
