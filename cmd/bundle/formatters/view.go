package formatters

import (
	"fmt"
	"sort"

	"github.com/LegacyCodeHQ/bundlegraph/assetgraph"
	"github.com/LegacyCodeHQ/bundlegraph/bundlegraph"
)

// View is a render-ready projection of a bundle graph. Bundles are ordered
// by name then id, member assets by file path, so output does not depend on
// materialization order.
type View struct {
	Bundles []BundleView
	// Edges link two bundles; From and To index into Bundles.
	Edges []EdgeView
}

// BundleView is one bundle with its root edge kind and sorted members.
type BundleView struct {
	Bundle   *bundlegraph.Bundle
	RootKind bundlegraph.BundleEdgeKind
	Assets   []*assetgraph.Asset
}

// MainEntry returns the member asset the bundle is named after.
func (b BundleView) MainEntry() *assetgraph.Asset {
	for _, a := range b.Assets {
		if a.ID == b.Bundle.MainEntryID {
			return a
		}
	}
	return b.Assets[0]
}

// EdgeView is a bundle-to-bundle edge.
type EdgeView struct {
	From, To int
	Kind     bundlegraph.BundleEdgeKind
}

// NewView projects bg.
func NewView(bg *bundlegraph.BundleGraph) View {
	bundles := bg.Bundles()
	sort.SliceStable(bundles, func(i, j int) bool {
		if bundles[i].Name != bundles[j].Name {
			return bundles[i].Name < bundles[j].Name
		}
		return bundles[i].ID < bundles[j].ID
	})

	view := View{Bundles: make([]BundleView, 0, len(bundles))}
	position := make(map[string]int, len(bundles))
	for i, b := range bundles {
		kind, _ := bg.RootEdgeKind(b)
		assets := b.Assets()
		sort.SliceStable(assets, func(i, j int) bool {
			if assets[i].FilePath != assets[j].FilePath {
				return assets[i].FilePath < assets[j].FilePath
			}
			return assets[i].ID < assets[j].ID
		})
		view.Bundles = append(view.Bundles, BundleView{Bundle: b, RootKind: kind, Assets: assets})
		position[b.ID] = i
	}

	for _, e := range bg.BundleEdges() {
		view.Edges = append(view.Edges, EdgeView{From: position[e.From.ID], To: position[e.To.ID], Kind: e.Kind})
	}
	sort.Slice(view.Edges, func(i, j int) bool {
		a, b := view.Edges[i], view.Edges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Kind < b.Kind
	})

	return view
}

// FilePaths returns the file path of every asset in the view.
func (v View) FilePaths() []string {
	var paths []string
	for _, b := range v.Bundles {
		for _, a := range b.Assets {
			paths = append(paths, a.FilePath)
		}
	}
	return paths
}

// KindLabel returns the short label used for an edge kind in rendered output.
func KindLabel(kind bundlegraph.BundleEdgeKind) string {
	switch kind {
	case bundlegraph.RootEntryOf:
		return "entry"
	case bundlegraph.RootAsyncBundleOf:
		return "async"
	case bundlegraph.RootTypeChangeBundleOf:
		return "type-change"
	case bundlegraph.RootSharedBundleOf:
		return "shared"
	case bundlegraph.BundleSyncLoads:
		return "sync"
	case bundlegraph.BundleAsyncLoads:
		return "async"
	default:
		panic(fmt.Sprintf("formatters: unknown bundle edge kind %d", int(kind)))
	}
}
