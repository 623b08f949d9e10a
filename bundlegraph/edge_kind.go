// Package bundlegraph partitions a resolved asset graph into bundles.
//
// The pipeline runs in four stages, each consuming only the previous stage's
// output: Simplify, RemoveCycles, BuildDominatorTree and MakeBundleGraph.
// Run wires them together behind an assetgraph.Request.
package bundlegraph

import (
	"fmt"

	"github.com/LegacyCodeHQ/bundlegraph/assetgraph"
	"github.com/LegacyCodeHQ/bundlegraph/internal/arena"
)

// EdgeKind classifies an edge of the simplified, acyclic and dominator graphs.
type EdgeKind int

const (
	// EdgeEntryAssetRoot links the root to an explicit build entry.
	EdgeEntryAssetRoot EdgeKind = iota
	// EdgeAsyncRoot links the root to an asset imported with a non-sync priority.
	EdgeAsyncRoot
	// EdgeTypeChangeRoot links the root to an asset whose importer has a different file type.
	EdgeTypeChangeRoot
	// EdgeSharedBundleRoot links the root to an asset whose immediate dominator is the root.
	EdgeSharedBundleRoot
	// EdgeAssetDependency is a sync import between two assets.
	EdgeAssetDependency
	// EdgeAssetAsyncDependency is the importer side of an EdgeAsyncRoot.
	EdgeAssetAsyncDependency
	// EdgeAssetTypeChangeDependency is the importer side of an EdgeTypeChangeRoot.
	EdgeAssetTypeChangeDependency
	// EdgeImmediateDominator links a node's immediate dominator to the node.
	EdgeImmediateDominator
)

var edgeKindNames = map[EdgeKind]string{
	EdgeEntryAssetRoot:            "EntryAssetRoot",
	EdgeAsyncRoot:                 "AsyncRoot",
	EdgeTypeChangeRoot:            "TypeChangeRoot",
	EdgeSharedBundleRoot:          "SharedBundleRoot",
	EdgeAssetDependency:           "AssetDependency",
	EdgeAssetAsyncDependency:      "AssetAsyncDependency",
	EdgeAssetTypeChangeDependency: "AssetTypeChangeDependency",
	EdgeImmediateDominator:        "ImmediateDominator",
}

func (k EdgeKind) String() string {
	if name, ok := edgeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EdgeKind(%d)", int(k))
}

// IsRootKind reports whether k may only appear on edges leaving the root.
func (k EdgeKind) IsRootKind() bool {
	switch k {
	case EdgeEntryAssetRoot, EdgeAsyncRoot, EdgeTypeChangeRoot, EdgeSharedBundleRoot:
		return true
	case EdgeAssetDependency, EdgeAssetAsyncDependency, EdgeAssetTypeChangeDependency, EdgeImmediateDominator:
		return false
	default:
		panic(fmt.Sprintf("bundlegraph: unknown edge kind %d", int(k)))
	}
}

// Edge is a classified edge. Dependency is the asset graph dependency the
// edge was derived from; it is nil for edges added by the dominator stage.
type Edge struct {
	Kind       EdgeKind
	Dependency *assetgraph.Dependency
}

// AssetRef is a handle to an asset of the input graph. The asset record is shared and read-only.
type AssetRef struct {
	Asset *assetgraph.Asset
	// Index is the asset's node index in the input asset graph.
	Index arena.NodeIndex
}

func isRootEdge(e Edge) bool {
	return e.Kind.IsRootKind()
}
