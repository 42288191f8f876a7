// Package render draws network snapshots through a perspective camera.
package render

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/TFMV/glowgraph/models"
	"github.com/lucasb-eyer/go-colorful"
)

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Format     string         // Output format (svg, ascii, webgl, json, dot)
	Width      float64        // Width of the output
	Height     float64        // Height of the output
	Background string         // Background color
	Camera     *models.Camera // Projection; nil uses the default camera for Width x Height
	Glow       bool           // Radial glow around nodes (SVG)
	Stats      bool           // Frame, time and size caption
	ShowLabels bool           // Node ids next to nodes
	EdgeWidth  float64        // Stroke width of edges in pixels
	Animated   bool           // Idle rotation (WebGL mode)
	Quality    string         // Rendering quality (low, medium, high)
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render draws the snapshot using the provided options
	Render(snap models.Snapshot, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:     format,
		Width:      800,
		Height:     600,
		Background: "#000000",
		Glow:       true,
		Stats:      true,
		ShowLabels: false,
		EdgeWidth:  1.0,
		Animated:   true,
		Quality:    "medium",
	}
}

var renderers = map[string]func() Renderer{
	"svg":   func() Renderer { return &SVGRenderer{} },
	"ascii": func() Renderer { return &ASCIIRenderer{} },
	"webgl": func() Renderer { return &WebGLRenderer{} },
	"html":  func() Renderer { return &WebGLRenderer{} },
	"json":  func() Renderer { return &JSONRenderer{} },
	"dot":   func() Renderer { return &DOTRenderer{} },
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	ctor, ok := renderers[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	return ctor(), nil
}

// Formats lists the supported output formats in alphabetical order
func Formats() []string {
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate renders a snapshot with default options for format
func Generate(snap models.Snapshot, format string) ([]byte, error) {
	return GenerateWithOptions(snap, NewDefaultOptions(format))
}

// GenerateWithOptions renders a snapshot with specific output options
func GenerateWithOptions(snap models.Snapshot, options *OutputOptions) ([]byte, error) {
	if options == nil {
		return nil, fmt.Errorf("output options are required")
	}
	if options.Width <= 0 || options.Height <= 0 {
		return nil, fmt.Errorf("invalid output size %gx%g", options.Width, options.Height)
	}
	renderer, err := GetRenderer(options.Format)
	if err != nil {
		return nil, err
	}
	return renderer.Render(snap, options)
}

// camera returns the projection camera for the options
func (o *OutputOptions) camera() models.Camera {
	if o.Camera != nil {
		cam := *o.Camera
		cam.Width, cam.Height = o.Width, o.Height
		return cam
	}
	return models.DefaultCamera(o.Width, o.Height)
}

// projected is a node placed on the output plane
type projected struct {
	Node    models.NodeView
	X, Y    float64
	Radius  float64 // Projected radius in pixels
	Depth   float64
	Visible bool
}

// project places every node of the snapshot on screen, indexed by node id
func project(snap models.Snapshot, cam models.Camera) []projected {
	out := make([]projected, len(snap.Nodes))
	for i, n := range snap.Nodes {
		p := projected{Node: n}
		if s, depth, ok := cam.Project(n.Position); ok {
			p.X, p.Y, p.Depth, p.Visible = s.X, s.Y, depth, true
			p.Radius = math.Max(1, cam.ProjectedRadius(n.Radius, depth))
		}
		out[i] = p
	}
	return out
}

// backToFront returns visible nodes sorted farthest first
func backToFront(nodes []projected) []projected {
	visible := make([]projected, 0, len(nodes))
	for _, p := range nodes {
		if p.Visible {
			visible = append(visible, p)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Depth > visible[j].Depth })
	return visible
}

// normalizeColor returns hex as lowercase #rrggbb, or fallback when it does not parse
func normalizeColor(hex, fallback string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	return c.Hex()
}

// glowColor brightens hex by intensity for the halo around a node
func glowColor(hex string, intensity float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "#ffffff"
	}
	h, s, l := c.Hsl()
	boost := math.Min(0.35, 0.1*intensity)
	return colorful.Hsl(h, s, math.Min(1, l+boost)).Clamped().Hex()
}

// caption describes the snapshot for the stats overlay
func caption(snap models.Snapshot) string {
	return fmt.Sprintf("frame %d | t=%.2fs | nodes %d | edges %d", snap.Frame, snap.Time, len(snap.Nodes), len(snap.Edges))
}
