package dot_test

import (
	"context"
	"strings"
	"testing"

	"github.com/LegacyCodeHQ/bundlegraph/assetgraph"
	"github.com/LegacyCodeHQ/bundlegraph/bundlegraph"
	"github.com/LegacyCodeHQ/bundlegraph/cmd/bundle/formatters"
	"github.com/LegacyCodeHQ/bundlegraph/cmd/bundle/formatters/dot"
	"github.com/LegacyCodeHQ/bundlegraph/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter_PageBundles(t *testing.T) {
	formatter := &dot.Formatter{}
	output, err := formatter.Format(testhelpers.PageBundles(t), formatters.RenderOptions{})
	require.NoError(t, err)

	g := testhelpers.DotGoldie(t)
	g.Assert(t, t.Name(), []byte(output))
}

func TestFormatter_SingleBundleWithLabel(t *testing.T) {
	assets := assetgraph.NewBuilder().
		Asset("util", "util.js").
		Asset("main", "main.js").
		Entry("main").
		Import("main", "util", assetgraph.PrioritySync).
		MustBuild()
	bg, err := bundlegraph.Build(context.Background(), assetgraph.Static(assets), bundlegraph.Options{})
	require.NoError(t, err)

	formatter := &dot.Formatter{}
	output, err := formatter.Format(bg, formatters.RenderOptions{Label: "checkout"})
	require.NoError(t, err)

	g := testhelpers.DotGoldie(t)
	g.Assert(t, t.Name(), []byte(output))
}

func TestFormatter_GenerateURL(t *testing.T) {
	formatter := &dot.Formatter{}

	url, ok := formatter.GenerateURL("digraph { a -> b; }")

	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(url, "https://dreampuf.github.io/GraphvizOnline/?engine=dot#"))
	assert.Contains(t, url, "digraph%20%7B%20a%20-%3E%20b%3B%20%7D")
}
