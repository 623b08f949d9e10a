package assetgraph_test

import (
	"context"
	"testing"

	"github.com/LegacyCodeHQ/bundlegraph/assetgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_BuildsRootDependencyAssetChain(t *testing.T) {
	g, err := assetgraph.NewBuilder().
		Asset("a", "src/a.js").
		Asset("b", "src/b.js").
		Entry("a").
		Import("a", "b", assetgraph.PriorityLazy).
		Build()
	require.NoError(t, err)

	// root + 2 assets + 2 dependency nodes
	assert.Equal(t, 5, g.NodeCount())
	assert.Len(t, g.Edges(), 4)

	rootEdges := g.Outgoing(g.Root())
	require.Len(t, rootEdges, 1)
	depNode := g.Node(rootEdges[0].To)
	assert.Equal(t, assetgraph.NodeDependency, depNode.Kind)
	assert.Equal(t, assetgraph.PrioritySync, depNode.Dependency.Priority)

	target := g.Outgoing(rootEdges[0].To)
	require.Len(t, target, 1)
	assert.Equal(t, "a", g.Node(target[0].To).Asset.ID)
	assert.Equal(t, "js", g.Node(target[0].To).Asset.FileType)
}

func TestBuilder_RejectsUnknownAndDuplicateAssets(t *testing.T) {
	_, err := assetgraph.NewBuilder().Asset("a", "a.js").Import("a", "missing", assetgraph.PrioritySync).Build()
	assert.ErrorContains(t, err, "unknown asset: missing")

	_, err = assetgraph.NewBuilder().Asset("a", "a.js").Asset("a", "b.js").Build()
	assert.ErrorContains(t, err, "duplicate asset id: a")
}

func TestValidate_RootWithoutEdges(t *testing.T) {
	g := assetgraph.New()
	g.AddAsset(&assetgraph.Asset{ID: "a", FilePath: "a.js", FileType: "js"})

	assert.ErrorIs(t, g.Validate(), assetgraph.ErrRootHasNoEdges)
}

func duplicateAssetGraph(t *testing.T) *assetgraph.AssetGraph {
	t.Helper()
	g := assetgraph.New()
	a := g.AddAsset(&assetgraph.Asset{ID: "a", FilePath: "a.js", FileType: "js"})
	b := g.AddAsset(&assetgraph.Asset{ID: "a", FilePath: "b.js", FileType: "js"})
	_, err := g.Connect(g.Root(), a, &assetgraph.Dependency{ID: "d0"})
	require.NoError(t, err)
	_, err = g.Connect(a, b, &assetgraph.Dependency{ID: "d1", Specifier: "./b"})
	require.NoError(t, err)
	return g
}

func TestValidate_DuplicateAssetID(t *testing.T) {
	err := duplicateAssetGraph(t).Validate()

	require.ErrorIs(t, err, assetgraph.ErrDuplicateAsset)
	assert.EqualError(t, err, "duplicate asset id: a (a.js and b.js)")
}

func TestValidate_UnreachableAsset(t *testing.T) {
	_, err := assetgraph.NewBuilder().
		Asset("a", "a.js").
		Asset("orphan", "orphan.js").
		Entry("a").
		Build()

	require.ErrorIs(t, err, assetgraph.ErrUnreachableNode)
	assert.Contains(t, err.Error(), "orphan.js")
}

func TestAddEdge_RejectsAssetToAsset(t *testing.T) {
	g := assetgraph.New()
	a := g.AddAsset(&assetgraph.Asset{ID: "a", FilePath: "a.js", FileType: "js"})
	b := g.AddAsset(&assetgraph.Asset{ID: "b", FilePath: "b.js", FileType: "js"})

	assert.ErrorIs(t, g.AddEdge(a, b), assetgraph.ErrInvalidEdge)
	assert.ErrorIs(t, g.AddEdge(g.Root(), a), assetgraph.ErrInvalidEdge)
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input string
		want  assetgraph.Priority
	}{
		{"", assetgraph.PrioritySync},
		{"sync", assetgraph.PrioritySync},
		{"Lazy", assetgraph.PriorityLazy},
		{"conditional", assetgraph.PriorityConditional},
		{" parallel ", assetgraph.PriorityParallel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := assetgraph.ParsePriority(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := assetgraph.ParsePriority("eager")
	assert.ErrorContains(t, err, "unknown dependency priority")
}

func TestReachableAssets(t *testing.T) {
	g := assetgraph.NewBuilder().
		Asset("a", "a.js").
		Asset("b", "b.css").
		Entry("a").
		Import("a", "b", assetgraph.PrioritySync).
		MustBuild()

	ids := []string{}
	for _, a := range g.ReachableAssets() {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"a", "b"}, ids)
	assert.Equal(t, "b", g.Assets()[1].ID)
}

func TestStatic(t *testing.T) {
	g := assetgraph.NewBuilder().Asset("a", "a.js").Entry("a").MustBuild()

	got, err := assetgraph.Static(g).Run(context.Background())
	require.NoError(t, err)
	assert.Same(t, g, got)
}

func TestAsset_Stem(t *testing.T) {
	a := &assetgraph.Asset{FilePath: "src/pages/index.html"}
	assert.Equal(t, "index", a.Stem())
}
