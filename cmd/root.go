package cmd

import (
	"os"

	"github.com/LegacyCodeHQ/bundlegraph/cmd/bundle"
	"github.com/LegacyCodeHQ/bundlegraph/cmd/watch"
	"github.com/LegacyCodeHQ/bundlegraph/cmd/why"
	"github.com/LegacyCodeHQ/bundlegraph/internal/config"
	"github.com/spf13/cobra"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// NewRootCommand builds the command tree around a fresh configuration.
func NewRootCommand() *cobra.Command {
	v := config.New()
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "bundlegraph",
		Short: "Partition JavaScript asset graphs into bundles",
		Long: `bundlegraph partitions an asset graph of HTML, JavaScript, TypeScript
and CSS files into bundles. Each asset is placed in the bundle of the
nearest asset that dominates it, so code shared by several bundles ends up
in a shared bundle of its own.

Use 'bundlegraph --help' to see all available commands, or
'bundlegraph <command> --help' for detailed information about a specific command.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return config.ReadFile(v, configPath)
		},
	}

	rootCmd.AddCommand(bundle.NewCommand(v))
	rootCmd.AddCommand(why.NewCommand(v))
	rootCmd.AddCommand(watch.NewCommand(v))

	rootCmd.Annotations = map[string]string{
		"buildDate": buildDate,
		"commit":    commit,
	}

	// Customize version template to show additional build info
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default "+config.DefaultConfigFile+" if present)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format (console, json)")

	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
