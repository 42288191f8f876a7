package graph

import (
	"fmt"
	"math"
	"strings"

	"github.com/TFMV/glowgraph/models"
)

// Topology decides which node pairs are joined by springs
type Topology interface {
	// Connect adds edges to a network whose nodes are already placed
	Connect(net *models.Network) error
	Name() string
}

// MST attaches the nearest unconnected node to the connected set until every
// node is connected. O(N²) per attachment, O(N³) overall: suited to tens of nodes.
type MST struct{}

// Name returns the name of the topology
func (MST) Name() string { return "mst" }

// Connect builds a minimum spanning tree by Euclidean distance, rooted at node 0
func (MST) Connect(net *models.Network) error {
	n := len(net.Nodes)
	if n < 2 {
		return nil
	}

	connected := make([]bool, n)
	connected[0] = true
	members := []int{0}

	for len(members) < n {
		bestFrom, bestTo := -1, -1
		bestDist := math.Inf(1)
		for _, from := range members {
			for to := 0; to < n; to++ {
				if connected[to] {
					continue
				}
				if d := net.Distance(from, to); d < bestDist {
					bestFrom, bestTo, bestDist = from, to, d
				}
			}
		}
		if err := net.AddEdge(bestFrom, bestTo, bestDist); err != nil {
			return fmt.Errorf("mst: %w", err)
		}
		connected[bestTo] = true
		members = append(members, bestTo)
	}
	return nil
}

// Chain connects node i to node i+1
type Chain struct{}

// Name returns the name of the topology
func (Chain) Name() string { return "chain" }

// Connect builds the path 0-1-2-...-N-1
func (Chain) Connect(net *models.Network) error {
	for i := 0; i+1 < len(net.Nodes); i++ {
		if err := net.AddEdge(i, i+1, net.Distance(i, i+1)); err != nil {
			return fmt.Errorf("chain: %w", err)
		}
	}
	return nil
}

// GetTopology returns a topology by name
func GetTopology(name string) (Topology, error) {
	switch strings.ToLower(name) {
	case "mst", "tree", "":
		return MST{}, nil
	case "chain", "path":
		return Chain{}, nil
	default:
		return nil, fmt.Errorf("unsupported topology: %s", name)
	}
}
