package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrUnknownNode is returned when an id does not name a node of the network
	ErrUnknownNode = errors.New("unknown node")
	// ErrSelfLoop is returned when an edge would connect a node to itself
	ErrSelfLoop = errors.New("edge endpoints must differ")
	// ErrDuplicateEdge is returned when the unordered pair is already connected
	ErrDuplicateEdge = errors.New("edge already exists")
)

// NewNetwork creates an empty network with a unique ID and timestamps
func NewNetwork(name string) *Network {
	now := time.Now()
	return &Network{
		ID:        uuid.New().String(),
		Name:      name,
		Nodes:     []Node{},
		Edges:     []Edge{},
		CreatedAt: now,
		UpdatedAt: now,
		keys:      make(map[EdgeKey]int),
		topology:  simple.NewUndirectedGraph(),
	}
}

// AddNode appends a node at pos and returns its id.
// Ids are dense and assigned in insertion order.
func (n *Network) AddNode(pos Vec, color string, radius, intensity float64) int {
	n.init()
	id := len(n.Nodes)
	n.Nodes = append(n.Nodes, Node{
		ID:        id,
		Position:  pos,
		Base:      pos,
		Color:     color,
		BaseColor: color,
		Radius:    radius,
		Intensity: intensity,
	})
	n.topology.AddNode(simple.Node(id))
	n.UpdatedAt = time.Now()
	return id
}

// AddEdge connects a and b with a spring of the given rest length
func (n *Network) AddEdge(a, b int, rest float64) error {
	n.init()
	if !n.valid(a) {
		return fmt.Errorf("edge %d-%d: %w: %d", a, b, ErrUnknownNode, a)
	}
	if !n.valid(b) {
		return fmt.Errorf("edge %d-%d: %w: %d", a, b, ErrUnknownNode, b)
	}
	if a == b {
		return fmt.Errorf("edge %d-%d: %w", a, b, ErrSelfLoop)
	}
	key := MakeEdgeKey(a, b)
	if _, exists := n.keys[key]; exists {
		return fmt.Errorf("edge %d-%d: %w", a, b, ErrDuplicateEdge)
	}

	n.keys[key] = len(n.Edges)
	n.Edges = append(n.Edges, Edge{A: a, B: b, RestLength: rest, Opacity: 1})
	n.topology.SetEdge(simple.Edge{F: simple.Node(a), T: simple.Node(b)})
	n.UpdatedAt = time.Now()
	return nil
}

// SetPosition moves a node without touching its anchor base
func (n *Network) SetPosition(id int, pos Vec) error {
	node, err := n.Node(id)
	if err != nil {
		return err
	}
	node.Position = pos
	return nil
}

// Translate shifts every node and anchor by delta
func (n *Network) Translate(delta Vec) {
	for i := range n.Nodes {
		n.Nodes[i].Position = r3.Add(n.Nodes[i].Position, delta)
		n.Nodes[i].Base = r3.Add(n.Nodes[i].Base, delta)
	}
	n.UpdatedAt = time.Now()
}

// Rebase makes a node's current position its new anchor base
func (n *Network) Rebase(id int) error {
	node, err := n.Node(id)
	if err != nil {
		return err
	}
	node.Base = node.Position
	return nil
}

// RebaseAll makes every node's current position its anchor base
func (n *Network) RebaseAll() {
	for i := range n.Nodes {
		n.Nodes[i].Base = n.Nodes[i].Position
	}
}

// RebaseRestLengths sets every edge's rest length to the current endpoint distance
func (n *Network) RebaseRestLengths() {
	for i := range n.Edges {
		e := &n.Edges[i]
		e.RestLength = n.Distance(e.A, e.B)
	}
	n.UpdatedAt = time.Now()
}

// Snapshot copies the current state for a renderer.
// Edge endpoints are derived from node positions.
func (n *Network) Snapshot(frame uint64, t float64) Snapshot {
	snap := Snapshot{
		NetworkID: n.ID,
		Name:      n.Name,
		Frame:     frame,
		Time:      t,
		Nodes:     make([]NodeView, len(n.Nodes)),
		Edges:     make([]EdgeView, len(n.Edges)),
	}
	for i, node := range n.Nodes {
		snap.Nodes[i] = NodeView{
			ID:        node.ID,
			Position:  node.Position,
			Color:     node.Color,
			Radius:    node.Radius,
			Intensity: node.Intensity,
			Held:      node.Held,
		}
	}
	for i, e := range n.Edges {
		snap.Edges[i] = EdgeView{
			A:          e.A,
			B:          e.B,
			From:       n.Nodes[e.A].Position,
			To:         n.Nodes[e.B].Position,
			RestLength: e.RestLength,
			Color:      e.Color,
			Opacity:    e.Opacity,
		}
	}
	return snap
}

// init lazily prepares the indexes of a network built as a struct literal
func (n *Network) init() {
	if n.keys == nil {
		n.keys = make(map[EdgeKey]int, len(n.Edges))
		for i, e := range n.Edges {
			n.keys[e.Key()] = i
		}
	}
	if n.topology == nil {
		n.topology = simple.NewUndirectedGraph()
		for i := range n.Nodes {
			n.topology.AddNode(simple.Node(i))
		}
		for _, e := range n.Edges {
			n.topology.SetEdge(simple.Edge{F: simple.Node(e.A), T: simple.Node(e.B)})
		}
	}
}

func (n *Network) valid(id int) bool {
	return id >= 0 && id < len(n.Nodes)
}
