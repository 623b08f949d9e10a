package bundlegraph

import (
	"testing"

	"github.com/LegacyCodeHQ/bundlegraph/internal/arena"
	"github.com/stretchr/testify/assert"
)

// chainGraph builds 0 -> 1 -> 2 and 0 -> 2, with node 0 as the root.
func chainGraph() *arena.Graph[AcyclicNode, Edge] {
	g := arena.New[AcyclicNode, Edge]()
	n0 := g.AddNode(AcyclicNode{Kind: AcyclicRoot})
	n1 := g.AddNode(AcyclicNode{Kind: AcyclicAsset})
	n2 := g.AddNode(AcyclicNode{Kind: AcyclicAsset})
	g.AddEdge(n0, n1, Edge{Kind: EdgeEntryAssetRoot})
	g.AddEdge(n1, n2, Edge{Kind: EdgeAssetDependency})
	g.AddEdge(n0, n2, Edge{Kind: EdgeEntryAssetRoot})
	return g
}

func TestStronglyConnectedComponents_IncludesNodeZero(t *testing.T) {
	components := stronglyConnectedComponents(chainGraph())

	assert.Equal(t, [][]arena.NodeIndex{{0}, {1}, {2}}, components)
}

func TestStronglyConnectedComponents_CycleNextToNodeZero(t *testing.T) {
	g := chainGraph()
	g.AddEdge(2, 1, Edge{Kind: EdgeAssetDependency})

	components := stronglyConnectedComponents(g)

	assert.Equal(t, [][]arena.NodeIndex{{0}, {1, 2}}, components)
}

func TestImmediateDominators_RootAtIndexZero(t *testing.T) {
	idom := immediateDominators(chainGraph(), 0)

	assert.Equal(t, map[arena.NodeIndex]arena.NodeIndex{1: 0, 2: 0}, idom)
}

func TestVertexKey_RoundTrips(t *testing.T) {
	for _, idx := range []arena.NodeIndex{0, 1, 41} {
		assert.NotZero(t, vertexKey(idx))
		assert.Equal(t, idx, nodeOf(vertexKey(idx)))
	}
}
