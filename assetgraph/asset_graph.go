package assetgraph

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/bundlegraph/internal/arena"
)

var (
	ErrNoRoot          = errors.New("asset graph has no root node")
	ErrRootHasNoEdges  = errors.New("asset graph root has no outgoing edges")
	ErrUnreachableNode = errors.New("asset graph node is not reachable from the root")
	ErrInvalidEdge     = errors.New("invalid asset graph edge")
	ErrDuplicateAsset  = errors.New("duplicate asset id")
)

// NodeKind identifies the variant stored in a Node.
type NodeKind int

const (
	NodeRoot NodeKind = iota
	NodeAsset
	NodeDependency
)

func (k NodeKind) String() string {
	switch k {
	case NodeRoot:
		return "root"
	case NodeAsset:
		return "asset"
	case NodeDependency:
		return "dependency"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Asset is a single source file after transformation.
type Asset struct {
	ID       string
	FilePath string
	// FileType is the file extension without the leading dot, e.g. "js" or "html".
	FileType string
	IsSource bool
}

// Stem returns the file name without its extension.
func (a *Asset) Stem() string {
	base := filepath.Base(a.FilePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Dependency describes an import edge between an importer and the asset it resolves to.
type Dependency struct {
	ID        string
	Specifier string
	Priority  Priority
	Meta      map[string]string
}

// Node is one vertex of the asset graph. Exactly one of Asset and Dependency
// is set for asset and dependency nodes; both are nil for the root.
type Node struct {
	Kind       NodeKind
	Asset      *Asset
	Dependency *Dependency
}

// AssetGraph is the resolved module graph produced upstream of bundling.
// Edges run Root -> Dependency, Asset -> Dependency and Dependency -> Asset.
type AssetGraph struct {
	graph *arena.Graph[Node, struct{}]
	root  arena.NodeIndex
}

// New returns an asset graph containing only its root node.
func New() *AssetGraph {
	g := arena.New[Node, struct{}]()
	root := g.AddNode(Node{Kind: NodeRoot})
	return &AssetGraph{graph: g, root: root}
}

// Root returns the index of the root node.
func (g *AssetGraph) Root() arena.NodeIndex {
	return g.root
}

// AddAsset adds an asset node.
func (g *AssetGraph) AddAsset(asset *Asset) arena.NodeIndex {
	return g.graph.AddNode(Node{Kind: NodeAsset, Asset: asset})
}

// AddDependency adds a dependency node.
func (g *AssetGraph) AddDependency(dep *Dependency) arena.NodeIndex {
	return g.graph.AddNode(Node{Kind: NodeDependency, Dependency: dep})
}

// AddEdge connects two nodes, rejecting any combination other than
// Root -> Dependency, Asset -> Dependency and Dependency -> Asset.
func (g *AssetGraph) AddEdge(from, to arena.NodeIndex) error {
	if !g.graph.Contains(from) || !g.graph.Contains(to) {
		return fmt.Errorf("%w: %d -> %d references a missing node", ErrInvalidEdge, from, to)
	}

	fromKind := g.graph.Node(from).Kind
	toKind := g.graph.Node(to).Kind
	switch {
	case fromKind == NodeRoot && toKind == NodeDependency:
	case fromKind == NodeAsset && toKind == NodeDependency:
	case fromKind == NodeDependency && toKind == NodeAsset:
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidEdge, fromKind, toKind)
	}

	g.graph.AddEdge(from, to, struct{}{})
	return nil
}

// Connect adds the dependency dep between importer and target, creating the
// dependency node and both of its edges. importer may be the root.
func (g *AssetGraph) Connect(importer, target arena.NodeIndex, dep *Dependency) (arena.NodeIndex, error) {
	depNode := g.AddDependency(dep)
	if err := g.AddEdge(importer, depNode); err != nil {
		return 0, err
	}
	if err := g.AddEdge(depNode, target); err != nil {
		return 0, err
	}
	return depNode, nil
}

// Node returns the node stored at idx.
func (g *AssetGraph) Node(idx arena.NodeIndex) Node {
	return g.graph.Node(idx)
}

// NodeIndices returns every node index in ascending order.
func (g *AssetGraph) NodeIndices() []arena.NodeIndex {
	return g.graph.NodeIndices()
}

// NodeCount returns the number of nodes, the root included.
func (g *AssetGraph) NodeCount() int {
	return g.graph.NodeCount()
}

// Edges returns every edge in insertion order.
func (g *AssetGraph) Edges() []arena.Edge[struct{}] {
	return g.graph.Edges()
}

// Incoming returns the edges entering idx.
func (g *AssetGraph) Incoming(idx arena.NodeIndex) []arena.Edge[struct{}] {
	return g.graph.InEdges(idx)
}

// Outgoing returns the edges leaving idx.
func (g *AssetGraph) Outgoing(idx arena.NodeIndex) []arena.Edge[struct{}] {
	return g.graph.OutEdges(idx)
}

// Assets returns every asset in node order.
func (g *AssetGraph) Assets() []*Asset {
	var assets []*Asset
	for _, idx := range g.graph.NodeIndices() {
		if node := g.graph.Node(idx); node.Kind == NodeAsset {
			assets = append(assets, node.Asset)
		}
	}
	return assets
}

// ReachableAssets returns the assets reachable from the root, in node order.
func (g *AssetGraph) ReachableAssets() []*Asset {
	reachable := g.reachable()
	var assets []*Asset
	for _, idx := range g.graph.NodeIndices() {
		if node := g.graph.Node(idx); node.Kind == NodeAsset && reachable[idx] {
			assets = append(assets, node.Asset)
		}
	}
	return assets
}

// Validate checks the structural invariants the bundler relies on: the root
// has at least one outgoing edge, asset ids are unique and every node is
// reachable from the root.
func (g *AssetGraph) Validate() error {
	if !g.graph.Contains(g.root) || g.graph.Node(g.root).Kind != NodeRoot {
		return ErrNoRoot
	}
	if len(g.graph.OutEdges(g.root)) == 0 {
		return ErrRootHasNoEdges
	}

	paths := make(map[string]string)
	for _, idx := range g.graph.NodeIndices() {
		node := g.graph.Node(idx)
		if node.Kind != NodeAsset {
			continue
		}
		if first, seen := paths[node.Asset.ID]; seen {
			return fmt.Errorf("%w: %s (%s and %s)", ErrDuplicateAsset, node.Asset.ID, first, node.Asset.FilePath)
		}
		paths[node.Asset.ID] = node.Asset.FilePath
	}

	reachable := g.reachable()
	for _, idx := range g.graph.NodeIndices() {
		if reachable[idx] {
			continue
		}
		node := g.graph.Node(idx)
		switch node.Kind {
		case NodeAsset:
			return fmt.Errorf("%w: asset %s (%s)", ErrUnreachableNode, node.Asset.ID, node.Asset.FilePath)
		case NodeDependency:
			return fmt.Errorf("%w: dependency %s", ErrUnreachableNode, node.Dependency.ID)
		default:
			return fmt.Errorf("%w: node %d", ErrUnreachableNode, idx)
		}
	}
	return nil
}

func (g *AssetGraph) reachable() map[arena.NodeIndex]bool {
	seen := map[arena.NodeIndex]bool{g.root: true}
	stack := []arena.NodeIndex{g.root}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range g.graph.OutEdges(current) {
			if !seen[e.To] {
				seen[e.To] = true
				stack = append(stack, e.To)
			}
		}
	}
	return seen
}
