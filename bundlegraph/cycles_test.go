package bundlegraph_test

import (
	"testing"

	"github.com/LegacyCodeHQ/bundlegraph/assetgraph"
	"github.com/LegacyCodeHQ/bundlegraph/bundlegraph"
	"github.com/LegacyCodeHQ/bundlegraph/internal/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cycleNodes(g *bundlegraph.AcyclicGraph) []bundlegraph.AcyclicNode {
	var cycles []bundlegraph.AcyclicNode
	for _, idx := range g.Graph.NodeIndices() {
		if node := g.Graph.Node(idx); node.Kind == bundlegraph.AcyclicCycle {
			cycles = append(cycles, node)
		}
	}
	return cycles
}

func assetIDs(refs []bundlegraph.AssetRef) []string {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.Asset.ID)
	}
	return ids
}

func TestRemoveCycles_CollapsesMutualDependency(t *testing.T) {
	g := assetgraph.NewBuilder().
		Asset("c", "c.js").
		Asset("a", "a.js").
		Asset("b", "b.js").
		Entry("c").
		Import("c", "a", assetgraph.PrioritySync).
		Import("a", "b", assetgraph.PrioritySync).
		Import("b", "a", assetgraph.PrioritySync).
		MustBuild()

	acyclic := bundlegraph.RemoveCycles(bundlegraph.Simplify(g))

	cycles := cycleNodes(acyclic)
	require.Len(t, cycles, 1)
	assert.ElementsMatch(t, []string{"a", "b"}, assetIDs(cycles[0].Cycle))

	// root, c and the synthetic cycle node
	assert.Equal(t, 3, acyclic.Graph.NodeCount())
	for _, e := range acyclic.Graph.Edges() {
		assert.NotEqual(t, e.From, e.To, "self-loop left on node %d", e.From)
	}
	assert.Equal(t, bundlegraph.AcyclicRoot, acyclic.Graph.Node(acyclic.Root).Kind)
}

func TestRemoveCycles_RedirectsEdgesAcrossTheBoundary(t *testing.T) {
	g := assetgraph.NewBuilder().
		Asset("c", "c.js").
		Asset("a", "a.js").
		Asset("b", "b.js").
		Asset("d", "d.js").
		Entry("c").
		Import("c", "a", assetgraph.PrioritySync).
		Import("a", "b", assetgraph.PrioritySync).
		Import("b", "a", assetgraph.PrioritySync).
		Import("b", "d", assetgraph.PrioritySync).
		MustBuild()

	acyclic := bundlegraph.RemoveCycles(bundlegraph.Simplify(g))

	var cycle, c, d arena.NodeIndex
	for _, idx := range acyclic.Graph.NodeIndices() {
		node := acyclic.Graph.Node(idx)
		switch {
		case node.Kind == bundlegraph.AcyclicCycle:
			cycle = idx
		case node.Kind == bundlegraph.AcyclicAsset && node.Asset.Asset.ID == "c":
			c = idx
		case node.Kind == bundlegraph.AcyclicAsset && node.Asset.Asset.ID == "d":
			d = idx
		}
	}

	assert.True(t, acyclic.Graph.HasEdge(c, cycle, nil))
	assert.True(t, acyclic.Graph.HasEdge(cycle, d, nil))
	assert.Len(t, acyclic.Graph.OutEdges(cycle), 1)
}

func TestRemoveCycles_DropsSelfImport(t *testing.T) {
	g := assetgraph.NewBuilder().
		Asset("a", "a.js").
		Entry("a").
		Import("a", "a", assetgraph.PrioritySync).
		MustBuild()

	acyclic := bundlegraph.RemoveCycles(bundlegraph.Simplify(g))

	assert.Empty(t, cycleNodes(acyclic))
	assert.Equal(t, 1, acyclic.Graph.EdgeCount())
}

func TestRemoveCycles_SeparateComponentsStaySeparate(t *testing.T) {
	g := assetgraph.NewBuilder().
		Asset("e", "e.js").
		Asset("a1", "a1.js").
		Asset("a2", "a2.js").
		Asset("b1", "b1.js").
		Asset("b2", "b2.js").
		Entry("e").
		Import("e", "a1", assetgraph.PrioritySync).
		Import("a1", "a2", assetgraph.PrioritySync).
		Import("a2", "a1", assetgraph.PrioritySync).
		Import("e", "b1", assetgraph.PrioritySync).
		Import("b1", "b2", assetgraph.PrioritySync).
		Import("b2", "b1", assetgraph.PrioritySync).
		MustBuild()

	cycles := cycleNodes(bundlegraph.RemoveCycles(bundlegraph.Simplify(g)))

	require.Len(t, cycles, 2)
	assert.Equal(t, []string{"a1", "a2"}, assetIDs(cycles[0].Cycle))
	assert.Equal(t, []string{"b1", "b2"}, assetIDs(cycles[1].Cycle))
}

func TestRemoveCycles_PanicsWhenRootIsInACycle(t *testing.T) {
	g := arena.New[bundlegraph.SimplifiedNode, bundlegraph.Edge]()
	root := g.AddNode(bundlegraph.SimplifiedNode{Kind: bundlegraph.SimplifiedRoot})
	a := g.AddNode(bundlegraph.SimplifiedNode{
		Kind:  bundlegraph.SimplifiedAsset,
		Asset: bundlegraph.AssetRef{Asset: &assetgraph.Asset{ID: "a", FilePath: "a.js", FileType: "js"}},
	})
	g.AddEdge(root, a, bundlegraph.Edge{Kind: bundlegraph.EdgeEntryAssetRoot})
	g.AddEdge(a, root, bundlegraph.Edge{Kind: bundlegraph.EdgeAssetDependency})

	assert.PanicsWithValue(t, "bundlegraph: dependency cycle contains the root node", func() {
		bundlegraph.RemoveCycles(&bundlegraph.SimplifiedGraph{Root: root, Graph: g})
	})
}

func TestRemoveCycles_PanicsWithoutRoot(t *testing.T) {
	g := arena.New[bundlegraph.SimplifiedNode, bundlegraph.Edge]()
	g.AddNode(bundlegraph.SimplifiedNode{
		Kind:  bundlegraph.SimplifiedAsset,
		Asset: bundlegraph.AssetRef{Asset: &assetgraph.Asset{ID: "a", FilePath: "a.js", FileType: "js"}},
	})

	assert.PanicsWithValue(t, "bundlegraph: no strongly connected component contains the root node", func() {
		bundlegraph.RemoveCycles(&bundlegraph.SimplifiedGraph{Graph: g})
	})
}
