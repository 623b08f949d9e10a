package bundlegraph

import (
	"context"
	"errors"
	"fmt"

	"github.com/LegacyCodeHQ/bundlegraph/assetgraph"
	"github.com/rs/zerolog"
)

// ErrUnexpectedResult is returned when the upstream request yields no graph.
var ErrUnexpectedResult = errors.New("asset graph request returned no graph")

// Options configures a bundling run.
type Options struct {
	// Logger receives stage statistics and membership gaps. Nil disables logging.
	Logger *zerolog.Logger
	// StrictMembership turns membership gaps into a *MembershipError.
	StrictMembership bool
}

func (o Options) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return *o.Logger
}

// Result holds the output of every stage of one bundling run.
type Result struct {
	Assets     *assetgraph.AssetGraph
	Simplified *SimplifiedGraph
	Acyclic    *AcyclicGraph
	Tree       *DominatorTree
	Bundles    *BundleGraph
}

// Run fetches the asset graph from req and bundles it. Errors from req are
// returned unchanged and no partial result is produced.
func Run(ctx context.Context, req assetgraph.Request, opts Options) (*Result, error) {
	assets, err := req.Run(ctx)
	if err != nil {
		return nil, err
	}
	if assets == nil {
		return nil, ErrUnexpectedResult
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := assets.Validate(); err != nil {
		return nil, fmt.Errorf("invalid asset graph: %w", err)
	}

	logger := opts.logger()

	simplified := Simplify(assets)
	logger.Debug().
		Int("nodes", simplified.Graph.NodeCount()).
		Int("edges", simplified.Graph.EdgeCount()).
		Msg("simplified asset graph")

	acyclic := RemoveCycles(simplified)
	logger.Debug().
		Int("nodes", acyclic.Graph.NodeCount()).
		Int("edges", acyclic.Graph.EdgeCount()).
		Msg("removed cycles")

	tree := BuildDominatorTree(acyclic)
	logger.Debug().
		Int("nodes", tree.Graph.NodeCount()).
		Int("edges", tree.Graph.EdgeCount()).
		Msg("built dominator tree")

	bundles := MakeBundleGraph(tree.Root, tree, logger)
	logger.Debug().
		Int("bundles", bundles.BundleCount()).
		Int("edges", len(bundles.Edges())).
		Msg("built bundle graph")

	if opts.StrictMembership {
		if err := CheckMembership(tree, bundles); err != nil {
			return nil, err
		}
	}

	return &Result{
		Assets:     assets,
		Simplified: simplified,
		Acyclic:    acyclic,
		Tree:       tree,
		Bundles:    bundles,
	}, nil
}

// Build is Run without the intermediate stages.
func Build(ctx context.Context, req assetgraph.Request, opts Options) (*BundleGraph, error) {
	result, err := Run(ctx, req, opts)
	if err != nil {
		return nil, err
	}
	return result.Bundles, nil
}
