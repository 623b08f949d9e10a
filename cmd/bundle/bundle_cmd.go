package bundle

import (
	"fmt"

	"github.com/LegacyCodeHQ/bundlegraph/bundlegraph"
	"github.com/LegacyCodeHQ/bundlegraph/cmd/bundle/formatters"
	"github.com/LegacyCodeHQ/bundlegraph/cmd/cmdutil"
	"github.com/LegacyCodeHQ/bundlegraph/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type bundleOptions struct {
	input            cmdutil.InputOptions
	outputFormat     string
	stage            string
	label            string
	generateURL      bool
	strictMembership bool
}

// NewCommand returns a new bundle command instance. Settings not given as
// flags are resolved through v.
func NewCommand(v *viper.Viper) *cobra.Command {
	opts := &bundleOptions{}

	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Partition an asset graph into bundles",
		Long: `Partition an asset graph into bundles and print the resulting bundle graph.

The asset graph is read from a manifest (--manifest) or scanned from entry
files (--dir with --entry). Every reachable asset lands in exactly one bundle.`,
		Example: `  bundlegraph bundle -m assets.yaml
  bundlegraph bundle -d web -e index.html -f table
  bundlegraph bundle -d web -e index.html --stage dominator
  bundlegraph bundle -d web -e index.html -c HEAD~1 -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBundle(cmd, v, opts)
		},
	}

	opts.input.AddFlags(cmd)
	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", "dot",
		fmt.Sprintf("Output format (%s)", formatters.SupportedFormats()))
	cmd.Flags().StringVar(&opts.stage, "stage", "",
		fmt.Sprintf("Print an intermediate graph as DOT instead (%s, %s, %s)",
			bundlegraph.StageSimplified, bundlegraph.StageAcyclic, bundlegraph.StageDominator))
	cmd.Flags().StringVarP(&opts.label, "label", "l", "", "Title for the rendered graph")
	cmd.Flags().BoolVarP(&opts.generateURL, "url", "u", false, "Print a link to an online viewer instead of the graph (dot, mermaid)")
	cmd.Flags().BoolVar(&opts.strictMembership, "strict-membership", false, "Fail when an asset is not placed in any bundle")

	return cmd
}

func runBundle(cmd *cobra.Command, v *viper.Viper, opts *bundleOptions) error {
	cfg, logger, err := cmdutil.LoadSettings(cmd, v,
		cmdutil.FlagBinding{Key: config.KeyFormat, Flag: "format"},
		cmdutil.FlagBinding{Key: config.KeyStrictMembership, Flag: "strict-membership"},
	)
	if err != nil {
		return err
	}

	var stage bundlegraph.Stage
	if opts.stage != "" {
		if stage, err = bundlegraph.ParseStage(opts.stage); err != nil {
			return err
		}
	}
	formatter, err := NewFormatter(cfg.Format)
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

	if stage != "" {
		return result.WriteStageDOT(cmd.OutOrStdout(), stage)
	}

	output, err := formatter.Format(result.Bundles, formatters.RenderOptions{Label: opts.label})
	if err != nil {
		return fmt.Errorf("failed to format bundle graph: %w", err)
	}

	if opts.generateURL {
		generator, ok := formatter.(formatters.URLGenerator)
		if !ok {
			return fmt.Errorf("--url is not supported for format %s", cfg.Format)
		}
		if url, ok := generator.GenerateURL(output); ok {
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}
