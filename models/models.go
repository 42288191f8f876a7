// Package models provides data structures for the glowgraph node network.
// It defines the nodes, spring edges and read-only snapshots shared by the
// builder, the physics stepper, the interaction controller and the renderers.
package models

import (
	"time"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a point or direction in world space
type Vec = r3.Vec

// Node represents a glowing point entity in the network
type Node struct {
	ID        int     `json:"id"`         // Stable for the lifetime of the network
	Position  Vec     `json:"position"`   // Current world-space position
	Base      Vec     `json:"base"`       // Anchor base position the node idles around
	Color     string  `json:"color"`      // Current display color (may be highlighted)
	BaseColor string  `json:"base_color"` // Color restored when a grab ends
	Radius    float64 `json:"radius"`
	Intensity float64 `json:"intensity"` // Glow/light intensity
	Held      bool    `json:"held"`
}

// Edge represents a spring between two nodes
type Edge struct {
	A          int     `json:"a"`
	B          int     `json:"b"`
	RestLength float64 `json:"rest_length"`
	Color      string  `json:"color"`
	Opacity    float64 `json:"opacity"`
}

// EdgeKey is the normalized unordered pair of an edge's endpoints
type EdgeKey struct {
	Lo, Hi int
}

// Key returns the unordered endpoint pair of the edge
func (e Edge) Key() EdgeKey {
	return MakeEdgeKey(e.A, e.B)
}

// Other returns the endpoint opposite to id
func (e Edge) Other(id int) int {
	if e.A == id {
		return e.B
	}
	return e.A
}

// MakeEdgeKey normalizes a pair so that (a, b) and (b, a) compare equal
func MakeEdgeKey(a, b int) EdgeKey {
	if a > b {
		a, b = b, a
	}
	return EdgeKey{Lo: a, Hi: b}
}

// Network is a fixed set of nodes joined by spring edges.
// Node count and edge membership never change after construction;
// only positions, colors, held flags and rest lengths mutate.
type Network struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nodes     []Node    `json:"nodes"`
	Edges     []Edge    `json:"edges"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	keys     map[EdgeKey]int
	topology *simple.UndirectedGraph
}

// NodeView is the renderer-facing copy of a node
type NodeView struct {
	ID        int     `json:"id"`
	Position  Vec     `json:"position"`
	Color     string  `json:"color"`
	Radius    float64 `json:"radius"`
	Intensity float64 `json:"intensity"`
	Held      bool    `json:"held"`
}

// EdgeView is the renderer-facing copy of an edge with resolved endpoints
type EdgeView struct {
	A          int     `json:"a"`
	B          int     `json:"b"`
	From       Vec     `json:"from"`
	To         Vec     `json:"to"`
	RestLength float64 `json:"rest_length"`
	Color      string  `json:"color"`
	Opacity    float64 `json:"opacity"`
}

// Snapshot is a read-only copy of the network for drawing spheres and line segments
type Snapshot struct {
	NetworkID string     `json:"network_id"`
	Name      string     `json:"name"`
	Frame     uint64     `json:"frame"`
	Time      float64    `json:"time"` // Simulated seconds since the network was built
	Nodes     []NodeView `json:"nodes"`
	Edges     []EdgeView `json:"edges"`
}
