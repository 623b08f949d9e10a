package bundlegraph

import (
	"fmt"

	"github.com/LegacyCodeHQ/bundlegraph/assetgraph"
	"github.com/LegacyCodeHQ/bundlegraph/internal/arena"
	"github.com/google/uuid"
)

// bundleNamespace seeds the name-based UUIDs used as bundle ids.
var bundleNamespace = uuid.MustParse("3b241101-e2bb-4255-8caf-4136c566a962")

// BundleBehavior controls how a bundle may be loaded.
type BundleBehavior int

const (
	BundleBehaviorIsolated BundleBehavior = iota
	BundleBehaviorInline
)

func (b BundleBehavior) String() string {
	switch b {
	case BundleBehaviorIsolated:
		return "isolated"
	case BundleBehaviorInline:
		return "inline"
	default:
		return fmt.Sprintf("BundleBehavior(%d)", int(b))
	}
}

// Bundle is a deployable group of assets.
type Bundle struct {
	ID            string
	Name          string
	Type          string
	EntryAssetIDs []string
	MainEntryID   string
	IsSplittable  bool
	Behavior      BundleBehavior

	assets        *arena.Graph[*assetgraph.Asset, struct{}]
	assetByID     map[string]arena.NodeIndex
	entryFilePath string
}

func newBundle(entry *assetgraph.Asset) *Bundle {
	id := uuid.NewSHA1(bundleNamespace, []byte(entry.ID)).String()

	name := "bundle-" + id
	if stem := entry.Stem(); stem != "" {
		name = stem + "." + entry.FileType
	}

	return &Bundle{
		ID:            id,
		Name:          name,
		Type:          entry.FileType,
		EntryAssetIDs: []string{entry.ID},
		MainEntryID:   entry.ID,
		IsSplittable:  true,
		Behavior:      BundleBehaviorIsolated,
		assets:        arena.New[*assetgraph.Asset, struct{}](),
		assetByID:     make(map[string]arena.NodeIndex),
		entryFilePath: entry.FilePath,
	}
}

func (b *Bundle) addAsset(asset *assetgraph.Asset) {
	b.assetByID[asset.ID] = b.assets.AddNode(asset)
}

// Assets returns the member assets in the order they were placed.
func (b *Bundle) Assets() []*assetgraph.Asset {
	indices := b.assets.NodeIndices()
	assets := make([]*assetgraph.Asset, 0, len(indices))
	for _, idx := range indices {
		assets = append(assets, b.assets.Node(idx))
	}
	return assets
}

// AssetIDs returns the ids of the member assets in placement order.
func (b *Bundle) AssetIDs() []string {
	assets := b.Assets()
	ids := make([]string, 0, len(assets))
	for _, a := range assets {
		ids = append(ids, a.ID)
	}
	return ids
}

// AssetCount returns the number of member assets.
func (b *Bundle) AssetCount() int {
	return b.assets.NodeCount()
}

// Contains reports whether the asset id is a member of the bundle.
func (b *Bundle) Contains(assetID string) bool {
	_, ok := b.assetByID[assetID]
	return ok
}

// EntryFilePath returns the file path of the main entry asset.
func (b *Bundle) EntryFilePath() string {
	return b.entryFilePath
}

// BundleNodeKind identifies the variant stored in a BundleNode.
type BundleNodeKind int

const (
	BundleNodeRoot BundleNodeKind = iota
	BundleNodeBundle
)

// BundleNode is a vertex of the bundle graph.
type BundleNode struct {
	Kind   BundleNodeKind
	Bundle *Bundle
}

// BundleEdgeKind classifies an edge of the bundle graph.
type BundleEdgeKind int

const (
	RootEntryOf BundleEdgeKind = iota
	RootAsyncBundleOf
	RootTypeChangeBundleOf
	RootSharedBundleOf
	// BundleSyncLoads means the target must be loaded before or with the source.
	BundleSyncLoads
	// BundleAsyncLoads means the target may be loaded lazily after the source.
	BundleAsyncLoads
)

var bundleEdgeKindNames = map[BundleEdgeKind]string{
	RootEntryOf:            "RootEntryOf",
	RootAsyncBundleOf:      "RootAsyncBundleOf",
	RootTypeChangeBundleOf: "RootTypeChangeBundleOf",
	RootSharedBundleOf:     "RootSharedBundleOf",
	BundleSyncLoads:        "BundleSyncLoads",
	BundleAsyncLoads:       "BundleAsyncLoads",
}

func (k BundleEdgeKind) String() string {
	if name, ok := bundleEdgeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("BundleEdgeKind(%d)", int(k))
}

// IsRootKind reports whether k links the root to a bundle.
func (k BundleEdgeKind) IsRootKind() bool {
	switch k {
	case RootEntryOf, RootAsyncBundleOf, RootTypeChangeBundleOf, RootSharedBundleOf:
		return true
	case BundleSyncLoads, BundleAsyncLoads:
		return false
	default:
		panic(fmt.Sprintf("bundlegraph: unknown bundle edge kind %d", int(k)))
	}
}

// BundleEdge is an edge of the bundle graph. From is nil for edges leaving the root.
type BundleEdge struct {
	From *Bundle
	To   *Bundle
	Kind BundleEdgeKind
}

// BundleGraph is the immutable result of bundling.
type BundleGraph struct {
	root         arena.NodeIndex
	graph        *arena.Graph[BundleNode, BundleEdgeKind]
	bundleNodes  map[string]arena.NodeIndex
	assetBundles map[string]*Bundle
}

func newBundleGraph() *BundleGraph {
	g := arena.New[BundleNode, BundleEdgeKind]()
	root := g.AddNode(BundleNode{Kind: BundleNodeRoot})
	return &BundleGraph{
		root:         root,
		graph:        g,
		bundleNodes:  make(map[string]arena.NodeIndex),
		assetBundles: make(map[string]*Bundle),
	}
}

func (bg *BundleGraph) addRootBundle(b *Bundle, kind BundleEdgeKind) {
	if !kind.IsRootKind() {
		panic(fmt.Sprintf("bundlegraph: %s cannot link the root to a bundle", kind))
	}
	if _, exists := bg.bundleNodes[b.ID]; exists {
		panic(fmt.Sprintf("bundlegraph: bundle %s (%s) created twice", b.ID, b.EntryFilePath()))
	}
	node := bg.graph.AddNode(BundleNode{Kind: BundleNodeBundle, Bundle: b})
	bg.bundleNodes[b.ID] = node
	bg.graph.AddEdge(bg.root, node, kind)
}

// claim records asset as a member of b. A second claim is a logic error.
func (bg *BundleGraph) claim(b *Bundle, asset *assetgraph.Asset) {
	if owner, claimed := bg.assetBundles[asset.ID]; claimed {
		panic(fmt.Sprintf("bundlegraph: asset %s (%s) claimed by bundle %s and %s",
			asset.ID, asset.FilePath, owner.Name, b.Name))
	}
	b.addAsset(asset)
	bg.assetBundles[asset.ID] = b
}

// link adds a bundle-to-bundle edge. Self-links and duplicates are skipped.
func (bg *BundleGraph) link(from, to *Bundle, kind BundleEdgeKind) {
	if kind.IsRootKind() {
		panic(fmt.Sprintf("bundlegraph: %s cannot link two bundles", kind))
	}
	if from == to {
		return
	}
	fromNode, toNode := bg.bundleNodes[from.ID], bg.bundleNodes[to.ID]
	if bg.graph.HasEdge(fromNode, toNode, func(k BundleEdgeKind) bool { return k == kind }) {
		return
	}
	bg.graph.AddEdge(fromNode, toNode, kind)
}

// Bundles returns every bundle in creation order.
func (bg *BundleGraph) Bundles() []*Bundle {
	var bundles []*Bundle
	for _, idx := range bg.graph.NodeIndices() {
		if node := bg.graph.Node(idx); node.Kind == BundleNodeBundle {
			bundles = append(bundles, node.Bundle)
		}
	}
	return bundles
}

// BundleCount returns the number of bundles.
func (bg *BundleGraph) BundleCount() int {
	return len(bg.bundleNodes)
}

// Bundle returns the bundle with the given id.
func (bg *BundleGraph) Bundle(id string) (*Bundle, bool) {
	idx, ok := bg.bundleNodes[id]
	if !ok {
		return nil, false
	}
	return bg.graph.Node(idx).Bundle, true
}

// BundleForAsset returns the bundle the asset id was placed in.
func (bg *BundleGraph) BundleForAsset(assetID string) (*Bundle, bool) {
	b, ok := bg.assetBundles[assetID]
	return b, ok
}

// Edges returns every edge in creation order.
func (bg *BundleGraph) Edges() []BundleEdge {
	edges := bg.graph.Edges()
	out := make([]BundleEdge, 0, len(edges))
	for _, e := range edges {
		out = append(out, bg.toBundleEdge(e))
	}
	return out
}

// RootEdges returns the edges linking the root to bundles.
func (bg *BundleGraph) RootEdges() []BundleEdge {
	edges := bg.graph.OutEdges(bg.root)
	out := make([]BundleEdge, 0, len(edges))
	for _, e := range edges {
		out = append(out, bg.toBundleEdge(e))
	}
	return out
}

// BundleEdges returns the edges between two bundles.
func (bg *BundleGraph) BundleEdges() []BundleEdge {
	var out []BundleEdge
	for _, e := range bg.graph.Edges() {
		if e.From != bg.root {
			out = append(out, bg.toBundleEdge(e))
		}
	}
	return out
}

// RootEdgeKind returns the kind of the edge linking the root to b.
func (bg *BundleGraph) RootEdgeKind(b *Bundle) (BundleEdgeKind, bool) {
	idx, ok := bg.bundleNodes[b.ID]
	if !ok {
		return 0, false
	}
	for _, e := range bg.graph.InEdges(idx) {
		if e.From == bg.root {
			return e.Weight, true
		}
	}
	return 0, false
}

// ReferencedBundles returns the bundles b loads, sync or async, in edge order.
func (bg *BundleGraph) ReferencedBundles(b *Bundle) []*Bundle {
	idx, ok := bg.bundleNodes[b.ID]
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	var referenced []*Bundle
	for _, e := range bg.graph.OutEdges(idx) {
		target := bg.graph.Node(e.To).Bundle
		if seen[target.ID] {
			continue
		}
		seen[target.ID] = true
		referenced = append(referenced, target)
	}
	return referenced
}

func (bg *BundleGraph) toBundleEdge(e arena.Edge[BundleEdgeKind]) BundleEdge {
	return BundleEdge{
		From: bg.graph.Node(e.From).Bundle,
		To:   bg.graph.Node(e.To).Bundle,
		Kind: e.Weight,
	}
}
