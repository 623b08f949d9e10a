package bundlegraph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/LegacyCodeHQ/bundlegraph/internal/arena"
	graphlib "github.com/dominikbraun/graph"
)

// AcyclicNodeKind identifies the variant stored in an AcyclicNode.
type AcyclicNodeKind int

const (
	AcyclicRoot AcyclicNodeKind = iota
	AcyclicAsset
	// AcyclicCycle stands in for a strongly connected component of two or more assets.
	AcyclicCycle
)

// AcyclicNode is a vertex of the acyclic graph and of the dominator tree.
type AcyclicNode struct {
	Kind  AcyclicNodeKind
	Asset AssetRef
	Cycle []AssetRef
}

// Assets returns the assets the node stands for: one for an asset, every
// member for a cycle and none for the root.
func (n AcyclicNode) Assets() []AssetRef {
	switch n.Kind {
	case AcyclicRoot:
		return nil
	case AcyclicAsset:
		return []AssetRef{n.Asset}
	case AcyclicCycle:
		return n.Cycle
	default:
		panic(fmt.Sprintf("bundlegraph: unknown acyclic node kind %d", int(n.Kind)))
	}
}

// AcyclicGraph is the simplified graph with every non-trivial SCC collapsed.
type AcyclicGraph struct {
	Root  arena.NodeIndex
	Graph *arena.Graph[AcyclicNode, Edge]
}

// RemoveCycles collapses every strongly connected component of more than one
// node into a single AcyclicCycle node. Edges crossing a collapsed boundary are
// redirected to the synthetic node and edges that become self-loops are dropped.
//
// RemoveCycles panics if a component contains the root or if no component
// contains it.
func RemoveCycles(sg *SimplifiedGraph) *AcyclicGraph {
	components := stronglyConnectedComponents(sg.Graph)

	g := arena.New[AcyclicNode, Edge]()
	mapping := make(map[arena.NodeIndex]arena.NodeIndex, sg.Graph.NodeCount())
	root, rootFound := arena.NodeIndex(0), false

	for _, component := range components {
		if len(component) == 1 {
			original := component[0]
			node := sg.Graph.Node(original)
			switch node.Kind {
			case SimplifiedRoot:
				root = g.AddNode(AcyclicNode{Kind: AcyclicRoot})
				rootFound = true
				mapping[original] = root
			case SimplifiedAsset:
				mapping[original] = g.AddNode(AcyclicNode{Kind: AcyclicAsset, Asset: node.Asset})
			case SimplifiedNone:
				panic("bundlegraph: dependency placeholder survived simplification")
			default:
				panic(fmt.Sprintf("bundlegraph: unknown simplified node kind %d", int(node.Kind)))
			}
			continue
		}

		members := make([]AssetRef, 0, len(component))
		for _, original := range component {
			node := sg.Graph.Node(original)
			if node.Kind != SimplifiedAsset {
				panic("bundlegraph: dependency cycle contains the root node")
			}
			members = append(members, node.Asset)
		}

		cycle := g.AddNode(AcyclicNode{Kind: AcyclicCycle, Cycle: members})
		for _, original := range component {
			mapping[original] = cycle
		}
	}

	if !rootFound {
		panic("bundlegraph: no strongly connected component contains the root node")
	}

	for _, e := range sg.Graph.Edges() {
		from, to := mapping[e.From], mapping[e.To]
		if from == to {
			continue
		}
		g.AddEdge(from, to, e.Weight)
	}

	return &AcyclicGraph{Root: root, Graph: g}
}

// stronglyConnectedComponents returns the SCCs of g. Members are sorted by
// index and components by their smallest member so the output is stable.
func stronglyConnectedComponents[N any](g *arena.Graph[N, Edge]) [][]arena.NodeIndex {
	lib := toGraphlib(g)

	sccs, err := graphlib.StronglyConnectedComponents(lib)
	if err != nil {
		panic(fmt.Sprintf("bundlegraph: failed to compute strongly connected components: %v", err))
	}

	components := make([][]arena.NodeIndex, 0, len(sccs))
	for _, scc := range sccs {
		component := make([]arena.NodeIndex, 0, len(scc))
		for _, v := range scc {
			component = append(component, nodeOf(v))
		}
		sort.Slice(component, func(i, j int) bool { return component[i] < component[j] })
		components = append(components, component)
	}
	sort.Slice(components, func(i, j int) bool { return components[i][0] < components[j][0] })

	return components
}

// vertexKey maps a node index to its graphlib vertex. Keys start at 1: the
// SCC search treats the zero hash as "no vertex" and would drop node 0.
func vertexKey(idx arena.NodeIndex) int {
	return int(idx) + 1
}

func nodeOf(key int) arena.NodeIndex {
	return arena.NodeIndex(key - 1)
}

// toGraphlib mirrors the topology of g into a dominikbraun graph keyed by
// vertexKey. Parallel edges collapse into one.
func toGraphlib[N any](g *arena.Graph[N, Edge]) graphlib.Graph[int, int] {
	lib := graphlib.New(graphlib.IntHash, graphlib.Directed())
	for _, idx := range g.NodeIndices() {
		if err := lib.AddVertex(vertexKey(idx)); err != nil {
			panic(fmt.Sprintf("bundlegraph: failed to add vertex %d: %v", idx, err))
		}
	}
	for _, e := range g.Edges() {
		err := lib.AddEdge(vertexKey(e.From), vertexKey(e.To))
		if err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
			panic(fmt.Sprintf("bundlegraph: failed to add edge %d -> %d: %v", e.From, e.To, err))
		}
	}
	return lib
}
