package bundlegraph

import (
	"fmt"

	"github.com/LegacyCodeHQ/bundlegraph/assetgraph"
	"github.com/LegacyCodeHQ/bundlegraph/internal/arena"
)

// SimplifiedNodeKind identifies the variant stored in a SimplifiedNode.
type SimplifiedNodeKind int

const (
	SimplifiedRoot SimplifiedNodeKind = iota
	SimplifiedAsset
	// SimplifiedNone marks a dependency placeholder. None survive Simplify.
	SimplifiedNone
)

// SimplifiedNode is a vertex of the simplified graph.
type SimplifiedNode struct {
	Kind  SimplifiedNodeKind
	Asset AssetRef
}

// SimplifiedGraph is the asset graph with dependency nodes folded into classified edges.
type SimplifiedGraph struct {
	Root  arena.NodeIndex
	Graph *arena.Graph[SimplifiedNode, Edge]
}

// Simplify rewrites every importer -> dependency -> asset path into a direct
// importer -> asset edge classified by its bundling semantics. Type changes
// take precedence over the dependency priority.
//
// Simplify panics if the root has no outgoing edges.
func Simplify(ag *assetgraph.AssetGraph) *SimplifiedGraph {
	root := ag.Root()
	if len(ag.Outgoing(root)) == 0 {
		panic("bundlegraph: asset graph root has no outgoing edges")
	}

	g := arena.New[SimplifiedNode, Edge]()
	mapping := make(map[arena.NodeIndex]arena.NodeIndex, ag.NodeCount())
	var placeholders []arena.NodeIndex

	for _, idx := range ag.NodeIndices() {
		node := ag.Node(idx)
		switch node.Kind {
		case assetgraph.NodeRoot:
			mapping[idx] = g.AddNode(SimplifiedNode{Kind: SimplifiedRoot})
		case assetgraph.NodeAsset:
			mapping[idx] = g.AddNode(SimplifiedNode{
				Kind:  SimplifiedAsset,
				Asset: AssetRef{Asset: node.Asset, Index: idx},
			})
		case assetgraph.NodeDependency:
			placeholder := g.AddNode(SimplifiedNode{Kind: SimplifiedNone})
			mapping[idx] = placeholder
			placeholders = append(placeholders, placeholder)
		default:
			panic(fmt.Sprintf("bundlegraph: unknown asset graph node kind %s", node.Kind))
		}
	}

	newRoot := mapping[root]

	for _, e := range ag.Edges() {
		depNode := ag.Node(e.From)
		if depNode.Kind != assetgraph.NodeDependency {
			continue
		}

		target := ag.Node(e.To)
		if target.Kind != assetgraph.NodeAsset {
			panic(fmt.Sprintf("bundlegraph: dependency %s resolves to a %s node", depNode.Dependency.ID, target.Kind))
		}

		dep := depNode.Dependency
		to := mapping[e.To]

		for _, incoming := range ag.Incoming(e.From) {
			importer := ag.Node(incoming.From)
			from := mapping[incoming.From]

			switch {
			case importer.Kind == assetgraph.NodeAsset && importer.Asset.FileType != target.Asset.FileType:
				g.AddEdge(newRoot, to, Edge{Kind: EdgeTypeChangeRoot, Dependency: dep})
				g.AddEdge(from, to, Edge{Kind: EdgeAssetTypeChangeDependency, Dependency: dep})
			case dep.Priority != assetgraph.PrioritySync:
				g.AddEdge(newRoot, to, Edge{Kind: EdgeAsyncRoot, Dependency: dep})
				g.AddEdge(from, to, Edge{Kind: EdgeAssetAsyncDependency, Dependency: dep})
			case importer.Kind == assetgraph.NodeRoot:
				g.AddEdge(newRoot, to, Edge{Kind: EdgeEntryAssetRoot, Dependency: dep})
			case importer.Kind == assetgraph.NodeAsset:
				g.AddEdge(from, to, Edge{Kind: EdgeAssetDependency, Dependency: dep})
			default:
				panic(fmt.Sprintf("bundlegraph: dependency %s is imported by a %s node", dep.ID, importer.Kind))
			}
		}
	}

	for _, placeholder := range placeholders {
		g.RemoveNode(placeholder)
	}

	return &SimplifiedGraph{Root: newRoot, Graph: g}
}
