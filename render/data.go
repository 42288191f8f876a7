package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/TFMV/glowgraph/models"
)

// JSONRenderer outputs raw JSON format
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Description returns a description of the renderer
func (r *JSONRenderer) Description() string {
	return "Renders the snapshot and its screen projection as JSON for custom renderers"
}

type jsonNode struct {
	models.NodeView
	Screen  *models.ScreenPoint `json:"screen,omitempty"`
	ScreenR float64             `json:"screen_radius,omitempty"`
}

type jsonSnapshot struct {
	NetworkID string            `json:"network_id"`
	Name      string            `json:"name"`
	Frame     uint64            `json:"frame"`
	Time      float64           `json:"time"`
	Nodes     []jsonNode        `json:"nodes"`
	Edges     []models.EdgeView `json:"edges"`
	Metadata  map[string]any    `json:"metadata"`
}

// Render creates a JSON representation of the snapshot
func (r *JSONRenderer) Render(snap models.Snapshot, options *OutputOptions) ([]byte, error) {
	data := snapshotJSON(snap, options)
	return json.MarshalIndent(data, "", "  ")
}

// snapshotJSON attaches projected screen positions to the snapshot
func snapshotJSON(snap models.Snapshot, options *OutputOptions) jsonSnapshot {
	data := jsonSnapshot{
		NetworkID: snap.NetworkID,
		Name:      snap.Name,
		Frame:     snap.Frame,
		Time:      snap.Time,
		Nodes:     make([]jsonNode, 0, len(snap.Nodes)),
		Edges:     snap.Edges,
		Metadata: map[string]any{
			"width":      options.Width,
			"height":     options.Height,
			"background": options.Background,
			"nodeCount":  len(snap.Nodes),
			"edgeCount":  len(snap.Edges),
		},
	}
	if data.Edges == nil {
		data.Edges = []models.EdgeView{}
	}
	for _, p := range project(snap, options.camera()) {
		n := jsonNode{NodeView: p.Node}
		if p.Visible {
			n.Screen = &models.ScreenPoint{X: p.X, Y: p.Y}
			n.ScreenR = p.Radius
		}
		data.Nodes = append(data.Nodes, n)
	}
	return data
}

// DOTRenderer outputs Graphviz DOT format
type DOTRenderer struct{}

// Name returns the name of the renderer
func (r *DOTRenderer) Name() string {
	return "DOT Renderer"
}

// Description returns a description of the renderer
func (r *DOTRenderer) Description() string {
	return "Renders the network in Graphviz DOT format with pinned projected positions"
}

// Render creates a DOT representation of the snapshot
func (r *DOTRenderer) Render(snap models.Snapshot, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	nodes := project(snap, options.camera())

	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  graph [bgcolor=\"%s\", size=\"%g,%g\"];\n",
		normalizeColor(options.Background, "#000000"), options.Width/72.0, options.Height/72.0)
	buf.WriteString("  node [shape=circle, style=filled, label=\"\"];\n")

	for _, p := range nodes {
		color := normalizeColor(p.Node.Color, "#ffffff")
		attrs := fmt.Sprintf("fillcolor=\"%s\", color=\"%s\", width=%.3f", color, color, 2*p.Node.Radius)
		if p.Visible {
			// Graphviz y grows upward
			attrs += fmt.Sprintf(", pos=\"%.2f,%.2f!\"", p.X/72.0, (options.Height-p.Y)/72.0)
		}
		if p.Node.Held {
			attrs += ", penwidth=3"
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", p.Node.ID, attrs)
	}

	for _, e := range snap.Edges {
		color := normalizeColor(e.Color, "#666666")
		alpha := int(clampFloat(e.Opacity, 0, 1) * 255)
		fmt.Fprintf(&buf, "  n%d -- n%d [color=\"%s%02x\", len=%.3f];\n", e.A, e.B, color, alpha, e.RestLength)
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
