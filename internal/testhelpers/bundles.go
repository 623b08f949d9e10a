package testhelpers

import (
	"context"
	"testing"

	"github.com/LegacyCodeHQ/bundlegraph/assetgraph"
	"github.com/LegacyCodeHQ/bundlegraph/bundlegraph"
)

// PageAssets is a small web page: index.html loads app.js and style.css,
// app.js lazily loads route.js and both scripts import src/util.js.
func PageAssets() *assetgraph.AssetGraph {
	return assetgraph.NewBuilder().
		Asset("page", "index.html").
		Asset("app", "app.js").
		Asset("style", "style.css").
		Asset("route", "route.js").
		Asset("util", "src/util.js").
		Entry("page").
		Import("page", "app", assetgraph.PrioritySync).
		Import("page", "style", assetgraph.PrioritySync).
		Import("app", "util", assetgraph.PrioritySync).
		Import("app", "route", assetgraph.PriorityLazy).
		Import("route", "util", assetgraph.PrioritySync).
		MustBuild()
}

// PageBundles bundles PageAssets.
func PageBundles(t *testing.T) *bundlegraph.BundleGraph {
	t.Helper()
	bg, err := bundlegraph.Build(context.Background(), assetgraph.Static(PageAssets()), bundlegraph.Options{StrictMembership: true})
	if err != nil {
		t.Fatalf("bundlegraph.Build() error = %v", err)
	}
	return bg
}
