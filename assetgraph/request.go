package assetgraph

import "context"

// Request produces the asset graph for one bundling run.
type Request interface {
	Run(ctx context.Context) (*AssetGraph, error)
}

// RequestFunc adapts a function to the Request interface.
type RequestFunc func(ctx context.Context) (*AssetGraph, error)

// Run calls f(ctx).
func (f RequestFunc) Run(ctx context.Context) (*AssetGraph, error) {
	return f(ctx)
}

// Static returns a Request that always yields g.
func Static(g *AssetGraph) Request {
	return RequestFunc(func(context.Context) (*AssetGraph, error) {
		return g, nil
	})
}
