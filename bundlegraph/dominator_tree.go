package bundlegraph

import (
	"fmt"

	"github.com/LegacyCodeHQ/bundlegraph/internal/arena"
	graphlib "github.com/dominikbraun/graph"
)

// DominatorTree overlays ImmediateDominator edges on the acyclic graph. The
// classified edges of the acyclic graph are carried over unchanged and a
// SharedBundleRoot edge is added for every node the root immediately
// dominates without an explicit root-level edge.
type DominatorTree struct {
	Root  arena.NodeIndex
	Graph *arena.Graph[AcyclicNode, Edge]

	idom map[arena.NodeIndex]arena.NodeIndex
}

// BuildDominatorTree computes the immediate dominator of every node reachable
// from the root of ag.
func BuildDominatorTree(ag *AcyclicGraph) *DominatorTree {
	g := arena.New[AcyclicNode, Edge]()
	mapping := make(map[arena.NodeIndex]arena.NodeIndex, ag.Graph.NodeCount())
	for _, idx := range ag.Graph.NodeIndices() {
		mapping[idx] = g.AddNode(ag.Graph.Node(idx))
	}
	for _, e := range ag.Graph.Edges() {
		g.AddEdge(mapping[e.From], mapping[e.To], e.Weight)
	}

	root := mapping[ag.Root]
	tree := &DominatorTree{
		Root:  root,
		Graph: g,
		idom:  make(map[arena.NodeIndex]arena.NodeIndex),
	}

	for node, dominator := range immediateDominators(ag.Graph, ag.Root) {
		tree.idom[mapping[node]] = mapping[dominator]
	}

	for _, node := range g.NodeIndices() {
		dominator, ok := tree.idom[node]
		if !ok {
			continue
		}
		g.AddEdge(dominator, node, Edge{Kind: EdgeImmediateDominator})
		if dominator == root && !g.HasEdge(root, node, isRootEdge) {
			g.AddEdge(root, node, Edge{Kind: EdgeSharedBundleRoot})
		}
	}

	return tree
}

// ImmediateDominator returns the immediate dominator of node. The root and
// unreachable nodes have none.
func (t *DominatorTree) ImmediateDominator(node arena.NodeIndex) (arena.NodeIndex, bool) {
	d, ok := t.idom[node]
	return d, ok
}

// Children returns the nodes node immediately dominates, in edge order.
func (t *DominatorTree) Children(node arena.NodeIndex) []arena.NodeIndex {
	var children []arena.NodeIndex
	for _, e := range t.Graph.OutEdges(node) {
		if e.Weight.Kind == EdgeImmediateDominator {
			children = append(children, e.To)
		}
	}
	return children
}

// Subtree returns node and every node it dominates in depth-first pre-order.
func (t *DominatorTree) Subtree(node arena.NodeIndex) []arena.NodeIndex {
	var order []arena.NodeIndex
	stack := []arena.NodeIndex{node}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, current)

		children := t.Children(current)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return order
}

// Chain returns the dominators of node from the root down to node itself.
// It returns nil for nodes unreachable from the root.
func (t *DominatorTree) Chain(node arena.NodeIndex) []arena.NodeIndex {
	if node != t.Root {
		if _, ok := t.idom[node]; !ok {
			return nil
		}
	}

	chain := []arena.NodeIndex{node}
	for current := node; current != t.Root; {
		current = t.idom[current]
		chain = append(chain, current)
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// NodeForAsset returns the tree node holding the asset id, directly or as a cycle member.
func (t *DominatorTree) NodeForAsset(assetID string) (arena.NodeIndex, bool) {
	for _, idx := range t.Graph.NodeIndices() {
		for _, ref := range t.Graph.Node(idx).Assets() {
			if ref.Asset.ID == assetID {
				return idx, true
			}
		}
	}
	return 0, false
}

// immediateDominators implements the Cooper-Harvey-Kennedy iteration. On an
// acyclic graph a single pass in topological order reaches the fixed point,
// because every predecessor of a node is final before the node is visited.
func immediateDominators(g *arena.Graph[AcyclicNode, Edge], root arena.NodeIndex) map[arena.NodeIndex]arena.NodeIndex {
	lib := toGraphlib(g)

	reachable := make(map[arena.NodeIndex]bool, g.NodeCount())
	err := graphlib.DFS(lib, vertexKey(root), func(v int) bool {
		reachable[nodeOf(v)] = true
		return false
	})
	if err != nil {
		panic(fmt.Sprintf("bundlegraph: failed to walk acyclic graph: %v", err))
	}

	order, err := graphlib.StableTopologicalSort(lib, func(a, b int) bool { return a < b })
	if err != nil {
		panic(fmt.Sprintf("bundlegraph: dominator tree requires an acyclic graph: %v", err))
	}

	rank := make(map[arena.NodeIndex]int, len(order))
	for i, v := range order {
		rank[nodeOf(v)] = i
	}

	idom := map[arena.NodeIndex]arena.NodeIndex{root: root}
	for _, v := range order {
		node := nodeOf(v)
		if node == root || !reachable[node] {
			continue
		}

		var candidate arena.NodeIndex
		found := false
		for _, e := range g.InEdges(node) {
			pred := e.From
			if _, processed := idom[pred]; !processed {
				continue
			}
			if !found {
				candidate, found = pred, true
				continue
			}
			candidate = intersect(pred, candidate, idom, rank)
		}

		if !found {
			panic(fmt.Sprintf("bundlegraph: reachable node %d has no processed predecessor", node))
		}
		idom[node] = candidate
	}

	delete(idom, root)
	return idom
}

// intersect walks both fingers up the partial dominator tree until they meet.
// Dominators always precede the nodes they dominate in topological order.
func intersect(a, b arena.NodeIndex, idom map[arena.NodeIndex]arena.NodeIndex, rank map[arena.NodeIndex]int) arena.NodeIndex {
	for a != b {
		for rank[a] > rank[b] {
			a = idom[a]
		}
		for rank[b] > rank[a] {
			b = idom[b]
		}
	}
	return a
}
