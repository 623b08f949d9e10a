package bundlegraph

import (
	"fmt"

	"github.com/LegacyCodeHQ/bundlegraph/assetgraph"
	"github.com/LegacyCodeHQ/bundlegraph/internal/arena"
	"github.com/rs/zerolog"
)

// bundleRoot is a node directly under the tree root that starts a bundle.
type bundleRoot struct {
	node arena.NodeIndex
	kind EdgeKind
}

// rootKindPrecedence orders root edge kinds when several target the same node.
var rootKindPrecedence = map[EdgeKind]int{
	EdgeEntryAssetRoot:   4,
	EdgeTypeChangeRoot:   3,
	EdgeAsyncRoot:        2,
	EdgeSharedBundleRoot: 1,
}

// MakeBundleGraph groups the assets of the dominator tree into bundles, one
// per bundle root directly under root, and links the bundles by the
// dependencies crossing between them. Assets left outside every bundle are
// logged at error level and do not fail the build.
//
// MakeBundleGraph panics if a root-level edge leaves a non-root node or an
// asset is claimed by two bundles.
func MakeBundleGraph(root arena.NodeIndex, tree *DominatorTree, logger zerolog.Logger) *BundleGraph {
	bg := newBundleGraph()
	roots := collectBundleRoots(root, tree)

	nodeBundles := make(map[arena.NodeIndex]*Bundle, tree.Graph.NodeCount())
	for _, br := range roots {
		node := tree.Graph.Node(br.node)
		b := newBundle(entryAsset(node))
		bg.addRootBundle(b, rootBundleEdgeKind(br.kind))

		for _, member := range tree.Subtree(br.node) {
			nodeBundles[member] = b
			for _, ref := range tree.Graph.Node(member).Assets() {
				bg.claim(b, ref.Asset)
			}
		}

		logger.Debug().
			Str("bundle", b.Name).
			Str("kind", br.kind.String()).
			Int("assets", b.AssetCount()).
			Msg("materialized bundle")
	}

	for _, br := range roots {
		rootBundle := nodeBundles[br.node]
		for _, member := range tree.Subtree(br.node) {
			for _, e := range tree.Graph.OutEdges(member) {
				linkEdge(bg, tree, e, rootBundle, nodeBundles)
			}
		}
	}

	for _, ref := range MissingAssets(tree, bg) {
		logger.Error().
			Str("asset_id", ref.Asset.ID).
			Str("file_path", ref.Asset.FilePath).
			Msg("asset was not placed in any bundle")
	}

	return bg
}

func linkEdge(
	bg *BundleGraph,
	tree *DominatorTree,
	e arena.Edge[Edge],
	rootBundle *Bundle,
	nodeBundles map[arena.NodeIndex]*Bundle,
) {
	switch e.Weight.Kind {
	case EdgeImmediateDominator:
		return
	case EdgeAssetDependency:
		if target, ok := nodeBundles[e.To]; ok {
			bg.link(rootBundle, target, BundleSyncLoads)
		}
	case EdgeAssetTypeChangeDependency:
		if target, ok := nodeBundles[e.To]; ok {
			bg.link(nodeBundles[e.From], target, BundleSyncLoads)
		}
	case EdgeAssetAsyncDependency:
		if target, ok := nodeBundles[e.To]; ok {
			bg.link(nodeBundles[e.From], target, BundleAsyncLoads)
		}
	case EdgeEntryAssetRoot, EdgeAsyncRoot, EdgeTypeChangeRoot, EdgeSharedBundleRoot:
		panic(fmt.Sprintf("bundlegraph: %s edge leaves non-root node %s", e.Weight.Kind, describeNode(tree.Graph.Node(e.From))))
	default:
		panic(fmt.Sprintf("bundlegraph: unknown edge kind %d", int(e.Weight.Kind)))
	}
}

// collectBundleRoots returns one bundle root per node targeted by a
// root-level edge, in first-edge order, keeping the highest-precedence kind.
func collectBundleRoots(root arena.NodeIndex, tree *DominatorTree) []bundleRoot {
	var roots []bundleRoot
	position := make(map[arena.NodeIndex]int)

	for _, e := range tree.Graph.OutEdges(root) {
		if !e.Weight.Kind.IsRootKind() {
			continue
		}
		if i, seen := position[e.To]; seen {
			if rootKindPrecedence[e.Weight.Kind] > rootKindPrecedence[roots[i].kind] {
				roots[i].kind = e.Weight.Kind
			}
			continue
		}
		position[e.To] = len(roots)
		roots = append(roots, bundleRoot{node: e.To, kind: e.Weight.Kind})
	}

	return roots
}

func rootBundleEdgeKind(kind EdgeKind) BundleEdgeKind {
	switch kind {
	case EdgeEntryAssetRoot:
		return RootEntryOf
	case EdgeAsyncRoot:
		return RootAsyncBundleOf
	case EdgeTypeChangeRoot:
		return RootTypeChangeBundleOf
	case EdgeSharedBundleRoot:
		return RootSharedBundleOf
	case EdgeAssetDependency, EdgeAssetAsyncDependency, EdgeAssetTypeChangeDependency, EdgeImmediateDominator:
		panic(fmt.Sprintf("bundlegraph: %s is not a bundle root edge", kind))
	default:
		panic(fmt.Sprintf("bundlegraph: unknown edge kind %d", int(kind)))
	}
}

// entryAsset picks the asset a bundle is named after. A cycle is entered
// through its first member in input order.
func entryAsset(node AcyclicNode) *assetgraph.Asset {
	switch node.Kind {
	case AcyclicAsset:
		return node.Asset.Asset
	case AcyclicCycle:
		return node.Cycle[0].Asset
	case AcyclicRoot:
		panic("bundlegraph: the root cannot start a bundle")
	default:
		panic(fmt.Sprintf("bundlegraph: unknown acyclic node kind %d", int(node.Kind)))
	}
}

func describeNode(node AcyclicNode) string {
	switch node.Kind {
	case AcyclicRoot:
		return "root"
	case AcyclicAsset:
		return node.Asset.Asset.FilePath
	case AcyclicCycle:
		return fmt.Sprintf("cycle containing %s", node.Cycle[0].Asset.FilePath)
	default:
		return fmt.Sprintf("AcyclicNodeKind(%d)", int(node.Kind))
	}
}
