package bundlegraph_test

import (
	"sort"
	"testing"

	"github.com/LegacyCodeHQ/bundlegraph/assetgraph"
	"github.com/LegacyCodeHQ/bundlegraph/bundlegraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simplifiedEdges renders the edges of g as "from -> to : Kind" using asset ids.
func simplifiedEdges(g *bundlegraph.SimplifiedGraph) []string {
	name := func(n bundlegraph.SimplifiedNode) string {
		if n.Kind == bundlegraph.SimplifiedRoot {
			return "root"
		}
		return n.Asset.Asset.ID
	}

	var edges []string
	for _, e := range g.Graph.Edges() {
		edges = append(edges, name(g.Graph.Node(e.From))+" -> "+name(g.Graph.Node(e.To))+" : "+e.Weight.Kind.String())
	}
	sort.Strings(edges)
	return edges
}

func TestSimplify_EntryAndSyncDependency(t *testing.T) {
	g := assetgraph.NewBuilder().
		Asset("a", "src/a.js").
		Asset("b", "src/b.js").
		Entry("a").
		Import("a", "b", assetgraph.PrioritySync).
		MustBuild()

	sg := bundlegraph.Simplify(g)

	assert.Equal(t, []string{
		"a -> b : AssetDependency",
		"root -> a : EntryAssetRoot",
	}, simplifiedEdges(sg))
	assert.Equal(t, 3, sg.Graph.NodeCount())
}

func TestSimplify_AsyncDependencyEmitsRootAndAssetEdges(t *testing.T) {
	for _, priority := range []assetgraph.Priority{assetgraph.PriorityLazy, assetgraph.PriorityConditional, assetgraph.PriorityParallel} {
		t.Run(priority.String(), func(t *testing.T) {
			g := assetgraph.NewBuilder().
				Asset("a", "a.js").
				Asset("b", "b.js").
				Entry("a").
				Import("a", "b", priority).
				MustBuild()

			assert.Equal(t, []string{
				"a -> b : AssetAsyncDependency",
				"root -> a : EntryAssetRoot",
				"root -> b : AsyncRoot",
			}, simplifiedEdges(bundlegraph.Simplify(g)))
		})
	}
}

func TestSimplify_TypeChangeTakesPrecedenceOverPriority(t *testing.T) {
	g := assetgraph.NewBuilder().
		Asset("page", "index.html").
		Asset("app", "app.js").
		Asset("style", "style.css").
		Entry("page").
		Import("page", "app", assetgraph.PrioritySync).
		Import("app", "style", assetgraph.PriorityLazy).
		MustBuild()

	assert.Equal(t, []string{
		"app -> style : AssetTypeChangeDependency",
		"page -> app : AssetTypeChangeDependency",
		"root -> app : TypeChangeRoot",
		"root -> page : EntryAssetRoot",
		"root -> style : TypeChangeRoot",
	}, simplifiedEdges(bundlegraph.Simplify(g)))
}

func TestSimplify_LazyEntryIsAsyncRoot(t *testing.T) {
	g := assetgraph.NewBuilder().
		Asset("a", "a.js").
		AddDependency("", "a", &assetgraph.Dependency{Specifier: "./a.js", Priority: assetgraph.PriorityLazy}).
		MustBuild()

	assert.Equal(t, []string{
		"root -> a : AssetAsyncDependency",
		"root -> a : AsyncRoot",
	}, simplifiedEdges(bundlegraph.Simplify(g)))
}

func TestSimplify_SharedDependencyNodeFansOutToEveryImporter(t *testing.T) {
	g := assetgraph.New()
	a := g.AddAsset(&assetgraph.Asset{ID: "a", FilePath: "a.js", FileType: "js"})
	b := g.AddAsset(&assetgraph.Asset{ID: "b", FilePath: "b.js", FileType: "js"})
	c := g.AddAsset(&assetgraph.Asset{ID: "c", FilePath: "c.js", FileType: "js"})
	_, err := g.Connect(g.Root(), a, &assetgraph.Dependency{ID: "entry"})
	require.NoError(t, err)
	_, err = g.Connect(a, b, &assetgraph.Dependency{ID: "ab"})
	require.NoError(t, err)

	shared := g.AddDependency(&assetgraph.Dependency{ID: "shared"})
	require.NoError(t, g.AddEdge(a, shared))
	require.NoError(t, g.AddEdge(b, shared))
	require.NoError(t, g.AddEdge(shared, c))
	require.NoError(t, g.Validate())

	assert.Equal(t, []string{
		"a -> b : AssetDependency",
		"a -> c : AssetDependency",
		"b -> c : AssetDependency",
		"root -> a : EntryAssetRoot",
	}, simplifiedEdges(bundlegraph.Simplify(g)))
}

func TestSimplify_KeepsDependencyRecordAndRemovesPlaceholders(t *testing.T) {
	dep := &assetgraph.Dependency{ID: "d1", Specifier: "./b.js", Priority: assetgraph.PrioritySync}
	g := assetgraph.NewBuilder().
		Asset("a", "a.js").
		Asset("b", "b.js").
		Entry("a").
		AddDependency("a", "b", dep).
		MustBuild()

	sg := bundlegraph.Simplify(g)

	for _, idx := range sg.Graph.NodeIndices() {
		assert.NotEqual(t, bundlegraph.SimplifiedNone, sg.Graph.Node(idx).Kind)
	}
	for _, e := range sg.Graph.Edges() {
		if e.Weight.Kind == bundlegraph.EdgeAssetDependency {
			assert.Same(t, dep, e.Weight.Dependency)
		}
	}
}

func TestSimplify_PanicsWhenRootHasNoEdges(t *testing.T) {
	g := assetgraph.New()

	assert.PanicsWithValue(t, "bundlegraph: asset graph root has no outgoing edges", func() {
		bundlegraph.Simplify(g)
	})
}
