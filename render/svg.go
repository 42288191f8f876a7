package render

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/TFMV/glowgraph/models"
)

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders the projected network as Scalable Vector Graphics with glowing nodes"
}

// Render creates an SVG representation of the snapshot
func (r *SVGRenderer) Render(snap models.Snapshot, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	nodes := project(snap, options.camera())
	background := normalizeColor(options.Background, "#000000")

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, options.Width, options.Height, options.Width, options.Height, background)

	// One radial gradient per node color for the glow halo
	if options.Glow {
		buf.WriteString("<defs>\n")
		seen := make(map[string]bool)
		for _, p := range nodes {
			color := normalizeColor(p.Node.Color, "#ffffff")
			if seen[color] {
				continue
			}
			seen[color] = true
			fmt.Fprintf(&buf, `  <radialGradient id="glow-%s">
    <stop offset="0%%" stop-color="%s" stop-opacity="0.9"/>
    <stop offset="100%%" stop-color="%s" stop-opacity="0"/>
  </radialGradient>
`, color[1:], glowColor(color, p.Node.Intensity), color)
		}
		buf.WriteString("</defs>\n")
	}

	for _, e := range snap.Edges {
		if e.A >= len(nodes) || e.B >= len(nodes) {
			continue
		}
		a, b := nodes[e.A], nodes[e.B]
		if !a.Visible || !b.Visible {
			continue
		}
		width := options.EdgeWidth
		if width <= 0 {
			width = 1
		}
		fmt.Fprintf(&buf, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-opacity="%.2f" stroke-width="%g"/>
`, a.X, a.Y, b.X, b.Y, normalizeColor(e.Color, "#666666"), e.Opacity, width)
	}

	for _, p := range backToFront(nodes) {
		color := normalizeColor(p.Node.Color, "#ffffff")
		if options.Glow {
			halo := p.Radius * (2 + math.Min(2, p.Node.Intensity))
			fmt.Fprintf(&buf, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="url(#glow-%s)"/>
`, p.X, p.Y, halo, color[1:])
		}
		stroke := ""
		if p.Node.Held {
			stroke = ` stroke="#ffffff" stroke-width="1.5"`
		}
		fmt.Fprintf(&buf, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"%s/>
`, p.X, p.Y, p.Radius, color, stroke)

		if options.ShowLabels {
			fmt.Fprintf(&buf, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="10" fill="#cccccc">%d</text>
`, p.X+p.Radius+2, p.Y-p.Radius-2, p.Node.ID)
		}
	}

	if options.Stats {
		fmt.Fprintf(&buf, `<text x="5" y="%g" font-family="sans-serif" font-size="10" fill="#808080">%s</text>
`, options.Height-5, html.EscapeString(caption(snap)))
	}
	if options.Quality == "high" && snap.Name != "" {
		fmt.Fprintf(&buf, `<text x="5" y="15" font-family="sans-serif" font-size="12" fill="#a0a0a0">%s</text>
`, html.EscapeString(snap.Name))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}
