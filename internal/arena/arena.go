// Package arena provides an index-addressed directed multigraph.
//
// Nodes live in a slice and are referred to by NodeIndex; edges live in a
// separate list and reference nodes by index. Removing a node leaves a
// tombstone so indices handed out earlier stay valid.
package arena

import "fmt"

// NodeIndex addresses a node in a Graph.
type NodeIndex int

// EdgeIndex addresses an edge in a Graph.
type EdgeIndex int

// Edge is a directed edge carrying a weight.
type Edge[E any] struct {
	Index  EdgeIndex
	From   NodeIndex
	To     NodeIndex
	Weight E
}

type nodeSlot[N any] struct {
	value   N
	removed bool
	out     []EdgeIndex
	in      []EdgeIndex
}

type edgeSlot[E any] struct {
	edge    Edge[E]
	removed bool
}

// Graph is a directed multigraph. Parallel edges and self-loops are allowed.
type Graph[N any, E any] struct {
	nodes     []nodeSlot[N]
	edges     []edgeSlot[E]
	nodeCount int
	edgeCount int
}

// New returns an empty graph.
func New[N any, E any]() *Graph[N, E] {
	return &Graph[N, E]{}
}

// AddNode appends a node and returns its index.
func (g *Graph[N, E]) AddNode(value N) NodeIndex {
	g.nodes = append(g.nodes, nodeSlot[N]{value: value})
	g.nodeCount++
	return NodeIndex(len(g.nodes) - 1)
}

// AddEdge adds a directed edge between two live nodes.
func (g *Graph[N, E]) AddEdge(from, to NodeIndex, weight E) EdgeIndex {
	g.mustContain(from)
	g.mustContain(to)

	idx := EdgeIndex(len(g.edges))
	g.edges = append(g.edges, edgeSlot[E]{edge: Edge[E]{Index: idx, From: from, To: to, Weight: weight}})
	g.nodes[from].out = append(g.nodes[from].out, idx)
	g.nodes[to].in = append(g.nodes[to].in, idx)
	g.edgeCount++
	return idx
}

// RemoveNode removes a node together with every edge touching it.
func (g *Graph[N, E]) RemoveNode(idx NodeIndex) {
	g.mustContain(idx)

	slot := &g.nodes[idx]
	for _, e := range slot.out {
		g.removeEdge(e)
	}
	for _, e := range slot.in {
		g.removeEdge(e)
	}
	slot.removed = true
	slot.out = nil
	slot.in = nil
	g.nodeCount--
}

func (g *Graph[N, E]) removeEdge(idx EdgeIndex) {
	if g.edges[idx].removed {
		return
	}
	g.edges[idx].removed = true
	g.edgeCount--
}

// Contains reports whether idx addresses a live node.
func (g *Graph[N, E]) Contains(idx NodeIndex) bool {
	return idx >= 0 && int(idx) < len(g.nodes) && !g.nodes[idx].removed
}

// Node returns the value stored at idx. It panics if the node does not exist.
func (g *Graph[N, E]) Node(idx NodeIndex) N {
	g.mustContain(idx)
	return g.nodes[idx].value
}

// SetNode replaces the value stored at idx.
func (g *Graph[N, E]) SetNode(idx NodeIndex, value N) {
	g.mustContain(idx)
	g.nodes[idx].value = value
}

// NodeCount returns the number of live nodes.
func (g *Graph[N, E]) NodeCount() int {
	return g.nodeCount
}

// EdgeCount returns the number of live edges.
func (g *Graph[N, E]) EdgeCount() int {
	return g.edgeCount
}

// NodeIndices returns the indices of all live nodes in ascending order.
func (g *Graph[N, E]) NodeIndices() []NodeIndex {
	indices := make([]NodeIndex, 0, g.nodeCount)
	for i := range g.nodes {
		if !g.nodes[i].removed {
			indices = append(indices, NodeIndex(i))
		}
	}
	return indices
}

// Edges returns all live edges in insertion order.
func (g *Graph[N, E]) Edges() []Edge[E] {
	edges := make([]Edge[E], 0, g.edgeCount)
	for _, slot := range g.edges {
		if !slot.removed {
			edges = append(edges, slot.edge)
		}
	}
	return edges
}

// OutEdges returns the live edges leaving idx in insertion order.
func (g *Graph[N, E]) OutEdges(idx NodeIndex) []Edge[E] {
	g.mustContain(idx)
	return g.collect(g.nodes[idx].out)
}

// InEdges returns the live edges entering idx in insertion order.
func (g *Graph[N, E]) InEdges(idx NodeIndex) []Edge[E] {
	g.mustContain(idx)
	return g.collect(g.nodes[idx].in)
}

// HasEdge reports whether an edge from -> to exists whose weight satisfies match.
// A nil match accepts any weight.
func (g *Graph[N, E]) HasEdge(from, to NodeIndex, match func(E) bool) bool {
	if !g.Contains(from) || !g.Contains(to) {
		return false
	}
	for _, e := range g.nodes[from].out {
		slot := g.edges[e]
		if slot.removed || slot.edge.To != to {
			continue
		}
		if match == nil || match(slot.edge.Weight) {
			return true
		}
	}
	return false
}

func (g *Graph[N, E]) collect(indices []EdgeIndex) []Edge[E] {
	edges := make([]Edge[E], 0, len(indices))
	for _, e := range indices {
		if !g.edges[e].removed {
			edges = append(edges, g.edges[e].edge)
		}
	}
	return edges
}

func (g *Graph[N, E]) mustContain(idx NodeIndex) {
	if !g.Contains(idx) {
		panic(fmt.Sprintf("arena: node %d does not exist", idx))
	}
}
