package manifest_test

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/LegacyCodeHQ/bundlegraph/assetgraph"
	"github.com/LegacyCodeHQ/bundlegraph/assetgraph/manifest"
	"github.com/LegacyCodeHQ/bundlegraph/vcs"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type importSummary struct {
	From, To, DepID, Specifier, Priority string
	Meta                                 map[string]string
}

// imports flattens importer -> dependency -> asset paths of g.
func imports(g *assetgraph.AssetGraph) []importSummary {
	var out []importSummary
	for _, idx := range g.NodeIndices() {
		node := g.Node(idx)
		if node.Kind != assetgraph.NodeDependency {
			continue
		}
		for _, in := range g.Incoming(idx) {
			from := "root"
			if importer := g.Node(in.From); importer.Kind == assetgraph.NodeAsset {
				from = importer.Asset.ID
			}
			for _, o := range g.Outgoing(idx) {
				out = append(out, importSummary{
					From:      from,
					To:        g.Node(o.To).Asset.ID,
					DepID:     node.Dependency.ID,
					Specifier: node.Dependency.Specifier,
					Priority:  node.Dependency.Priority.String(),
					Meta:      node.Dependency.Meta,
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepID < out[j].DepID })
	return out
}

var expectedImports = []importSummary{
	{From: "index", To: "app", DepID: "d1", Specifier: "./app.js", Priority: "sync"},
	{From: "app", To: "util", DepID: "d2", Specifier: "./util", Priority: "sync"},
	{From: "app", To: "route", DepID: "d3", Specifier: "./route", Priority: "lazy"},
	{From: "route", To: "react", DepID: "d4", Specifier: "react", Priority: "sync", Meta: map[string]string{"package": "react"}},
	{From: "root", To: "index", DepID: "entry", Specifier: "src/index.html", Priority: "sync"},
}

func TestRequest_AllFormatsDescribeTheSameGraph(t *testing.T) {
	for _, name := range []string{"app.json", "app.yaml", "app.hcl"} {
		t.Run(name, func(t *testing.T) {
			req := manifest.Request(filepath.Join("testdata", name), vcs.FilesystemContentReader())

			g, err := req.Run(context.Background())
			require.NoError(t, err)

			if diff := cmp.Diff(expectedImports, imports(g)); diff != "" {
				t.Errorf("imports mismatch (-want +got):\n%s", diff)
			}

			assets := make(map[string]*assetgraph.Asset)
			for _, a := range g.Assets() {
				assets[a.ID] = a
			}
			require.Len(t, assets, 5)
			assert.Equal(t, "html", assets["index"].FileType)
			assert.Equal(t, "js", assets["app"].FileType)
			assert.True(t, assets["app"].IsSource)
			assert.False(t, assets["react"].IsSource)
		})
	}
}

func TestParse_ExplicitTypeOverridesExtension(t *testing.T) {
	data := []byte(`{"assets":[{"id":"a","path":"a.mjs","type":"js"}],"dependencies":[{"to":"a"}]}`)

	m, err := manifest.Parse(data, manifest.FormatJSON, "inline.json")
	require.NoError(t, err)
	g, err := m.Graph()
	require.NoError(t, err)

	require.Len(t, g.Assets(), 1)
	assert.Equal(t, "js", g.Assets()[0].FileType)
}

func TestParse_DefaultDependencyIDs(t *testing.T) {
	data := []byte("assets:\n  - {id: a, path: a.js}\n  - {id: b, path: b.js}\ndependencies:\n  - {to: a}\n  - {from: a, to: b}\n")

	m, err := manifest.Parse(data, manifest.FormatYAML, "inline.yaml")
	require.NoError(t, err)
	g, err := m.Graph()
	require.NoError(t, err)

	var ids []string
	for _, imp := range imports(g) {
		ids = append(ids, imp.DepID)
	}
	assert.Equal(t, []string{"dep-1", "dep-2"}, ids)
}

func TestRequest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{
			name:    "unknown priority",
			path:    "testdata/bad_priority.yaml",
			wantErr: "unknown dependency priority: eager",
		},
		{
			name:    "unknown block",
			path:    "testdata/unknown_block.hcl",
			wantErr: "failed to decode HCL manifest testdata/unknown_block.hcl",
		},
		{
			name:    "missing file",
			path:    "testdata/missing.json",
			wantErr: "failed to read manifest testdata/missing.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manifest.Request(tt.path, vcs.FilesystemContentReader()).Run(context.Background())

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequest_InvalidGraph(t *testing.T) {
	reader := vcs.MapContentReader(map[string]string{
		"m.yaml":    "assets:\n  - {id: a, path: a.js}\ndependencies:\n  - {to: b}\n",
		"root.yaml": "assets:\n  - {id: a, path: a.js}\n",
	})

	_, err := manifest.Request("m.yaml", reader).Run(context.Background())
	assert.EqualError(t, err, "invalid manifest m.yaml: dependency references unknown asset: b")

	_, err = manifest.Request("root.yaml", reader).Run(context.Background())
	assert.ErrorIs(t, err, assetgraph.ErrRootHasNoEdges)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want manifest.Format
	}{
		{path: "a.json", want: manifest.FormatJSON},
		{path: "a.yaml", want: manifest.FormatYAML},
		{path: "a.YML", want: manifest.FormatYAML},
		{path: "a.hcl", want: manifest.FormatHCL},
	}
	for _, tt := range tests {
		got, err := manifest.FormatFromPath(tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := manifest.FormatFromPath("a.toml")
	assert.True(t, errors.Is(err, manifest.ErrUnknownFormat))
}

func TestRequest_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := manifest.Request("testdata/app.json", vcs.FilesystemContentReader()).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
