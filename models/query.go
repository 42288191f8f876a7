package models

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
	"gonum.org/v1/gonum/spatial/r3"
)

// NodeFilter is a function type used to filter nodes in queries
type NodeFilter func(node *Node) bool

// Node returns a pointer to the node with the given id
func (n *Network) Node(id int) (*Node, error) {
	if !n.valid(id) {
		return nil, fmt.Errorf("node %d: %w", id, ErrUnknownNode)
	}
	return &n.Nodes[id], nil
}

// Distance returns the Euclidean distance between two nodes
func (n *Network) Distance(a, b int) float64 {
	return r3.Norm(r3.Sub(n.Nodes[b].Position, n.Nodes[a].Position))
}

// EdgeBetween returns the edge joining a and b, if any
func (n *Network) EdgeBetween(a, b int) (*Edge, bool) {
	n.init()
	i, ok := n.keys[MakeEdgeKey(a, b)]
	if !ok {
		return nil, false
	}
	return &n.Edges[i], true
}

// EdgesTouching returns the indexes of all edges incident to id
func (n *Network) EdgesTouching(id int) []int {
	var result []int
	for i, e := range n.Edges {
		if e.A == id || e.B == id {
			result = append(result, i)
		}
	}
	return result
}

// Neighbors returns the ids directly connected to id, in ascending order
func (n *Network) Neighbors(id int) []int {
	n.init()
	if !n.valid(id) {
		return nil
	}
	var result []int
	for it := n.topology.From(int64(id)); it.Next(); {
		result = append(result, int(it.Node().ID()))
	}
	sort.Ints(result)
	return result
}

// HopDistances returns the number of edges on the shortest path from one node
// to every node reachable from it
func (n *Network) HopDistances(from int) map[int]int {
	n.init()
	hops := make(map[int]int)
	if !n.valid(from) {
		return hops
	}
	var bf traverse.BreadthFirst
	bf.Walk(n.topology, simple.Node(from), func(node graph.Node, depth int) bool {
		hops[int(node.ID())] = depth
		return false
	})
	return hops
}

// NodesAtHop returns the ids exactly hops edges away from id, in ascending order
func (n *Network) NodesAtHop(id, hops int) []int {
	var result []int
	for node, d := range n.HopDistances(id) {
		if d == hops {
			result = append(result, node)
		}
	}
	sort.Ints(result)
	return result
}

// Components returns the connected components as sorted id slices
func (n *Network) Components() [][]int {
	n.init()
	var result [][]int
	for _, comp := range topo.ConnectedComponents(n.topology) {
		ids := make([]int, 0, len(comp))
		for _, node := range comp {
			ids = append(ids, int(node.ID()))
		}
		sort.Ints(ids)
		result = append(result, ids)
	}
	sort.Slice(result, func(i, j int) bool { return result[i][0] < result[j][0] })
	return result
}

// IsConnected reports whether every node is reachable from every other node
func (n *Network) IsConnected() bool {
	if len(n.Nodes) <= 1 {
		return true
	}
	return len(n.Components()) == 1
}

// FilterNodes returns copies of the nodes that match the provided filter function
func (n *Network) FilterNodes(filter NodeFilter) []Node {
	var result []Node
	for i := range n.Nodes {
		if filter(&n.Nodes[i]) {
			result = append(result, n.Nodes[i])
		}
	}
	return result
}

// HeldNodes returns the ids of all nodes currently pinned by a grab
func (n *Network) HeldNodes() []int {
	var result []int
	for _, node := range n.Nodes {
		if node.Held {
			result = append(result, node.ID)
		}
	}
	return result
}
