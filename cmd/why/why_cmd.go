package why

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/LegacyCodeHQ/bundlegraph/bundlegraph"
	"github.com/LegacyCodeHQ/bundlegraph/cmd/bundle/formatters"
	"github.com/LegacyCodeHQ/bundlegraph/cmd/cmdutil"
	"github.com/LegacyCodeHQ/bundlegraph/internal/arena"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type whyOptions struct {
	input        cmdutil.InputOptions
	outputFormat string
}

// placement explains which bundle an asset ended up in.
type placement struct {
	Asset    string   `json:"asset"`
	Path     string   `json:"path"`
	Bundle   string   `json:"bundle,omitempty"`
	BundleID string   `json:"bundleId,omitempty"`
	Root     string   `json:"root,omitempty"`
	Chain    []string `json:"chain"`
	LoadedBy []loader `json:"loadedBy"`
}

type loader struct {
	Bundle string `json:"bundle"`
	Kind   string `json:"kind"`
}

// NewCommand returns a new why command instance.
func NewCommand(v *viper.Viper) *cobra.Command {
	opts := &whyOptions{outputFormat: formatText}

	cmd := &cobra.Command{
		Use:   "why <asset-id>",
		Short: "Explain which bundle an asset was placed in",
		Long: `Explain which bundle an asset was placed in.

Prints the owning bundle, how that bundle is reached from the root, the
dominator chain that placed the asset there and the bundles that load it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhy(cmd, v, opts, args[0])
		},
	}

	opts.input.AddFlags(cmd)
	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", opts.outputFormat,
		fmt.Sprintf("Output format (%s, %s)", formatText, formatJSON))

	return cmd
}

func runWhy(cmd *cobra.Command, v *viper.Viper, opts *whyOptions, assetID string) error {
	format := strings.ToLower(opts.outputFormat)
	if format != formatText && format != formatJSON {
		return fmt.Errorf("unknown format: %s (valid options: %s, %s)", opts.outputFormat, formatText, formatJSON)
	}

	cfg, logger, err := cmdutil.LoadSettings(cmd, v)
	if err != nil {
		return err
	}

	req, err := opts.input.Request(logger)
	if err != nil {
		return err
	}
	result, err := bundlegraph.Run(cmd.Context(), req, bundlegraph.Options{
		Logger:           &logger,
		StrictMembership: cfg.StrictMembership,
	})
	if err != nil {
		return fmt.Errorf("failed to bundle asset graph: %w", err)
	}

	p, err := explain(result, assetID)
	if err != nil {
		return err
	}

	if format == formatJSON {
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal placement: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatTextOutput(p))
	return nil
}

func explain(result *bundlegraph.Result, assetID string) (placement, error) {
	node, ok := result.Tree.NodeForAsset(assetID)
	if !ok {
		return placement{}, fmt.Errorf("asset not found in bundle graph: %s", assetID)
	}

	var p placement
	for _, ref := range result.Tree.Graph.Node(node).Assets() {
		if ref.Asset.ID == assetID {
			p.Asset, p.Path = ref.Asset.ID, ref.Asset.FilePath
		}
	}

	for _, idx := range result.Tree.Chain(node) {
		p.Chain = append(p.Chain, describe(result.Tree, idx))
	}

	b, ok := result.Bundles.BundleForAsset(assetID)
	if !ok {
		return p, nil
	}
	p.Bundle, p.BundleID = b.Name, b.ID
	if kind, ok := result.Bundles.RootEdgeKind(b); ok {
		p.Root = formatters.KindLabel(kind)
	}

	p.LoadedBy = []loader{}
	for _, e := range result.Bundles.BundleEdges() {
		if e.To == b {
			p.LoadedBy = append(p.LoadedBy, loader{Bundle: e.From.Name, Kind: formatters.KindLabel(e.Kind)})
		}
	}
	sort.Slice(p.LoadedBy, func(i, j int) bool {
		if p.LoadedBy[i].Bundle != p.LoadedBy[j].Bundle {
			return p.LoadedBy[i].Bundle < p.LoadedBy[j].Bundle
		}
		return p.LoadedBy[i].Kind < p.LoadedBy[j].Kind
	})

	return p, nil
}

func describe(tree *bundlegraph.DominatorTree, idx arena.NodeIndex) string {
	node := tree.Graph.Node(idx)
	switch node.Kind {
	case bundlegraph.AcyclicRoot:
		return "(root)"
	case bundlegraph.AcyclicAsset:
		return node.Asset.Asset.FilePath
	case bundlegraph.AcyclicCycle:
		paths := make([]string, 0, len(node.Cycle))
		for _, ref := range node.Cycle {
			paths = append(paths, ref.Asset.FilePath)
		}
		return "cycle(" + strings.Join(paths, ", ") + ")"
	default:
		panic(fmt.Sprintf("why: unknown acyclic node kind %d", int(node.Kind)))
	}
}

func formatTextOutput(p placement) string {
	var lines []string
	if p.Bundle == "" {
		lines = append(lines, fmt.Sprintf("%s (%s) was not placed in any bundle.", p.Asset, p.Path))
	} else {
		lines = append(lines, fmt.Sprintf("%s (%s) is in bundle %s [%s].", p.Asset, p.Path, p.Bundle, p.Root))
	}

	lines = append(lines, "Dominator chain:")
	for i, step := range p.Chain {
		lines = append(lines, fmt.Sprintf("  %s%s", strings.Repeat("  ", i), step))
	}

	if len(p.LoadedBy) > 0 {
		lines = append(lines, "Loaded by:")
		for _, l := range p.LoadedBy {
			lines = append(lines, fmt.Sprintf("- %s (%s)", l.Bundle, l.Kind))
		}
	}
	return strings.Join(lines, "\n")
}
