// Package cmdutil holds the flag handling shared by the bundle, why and watch commands.
package cmdutil

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/LegacyCodeHQ/bundlegraph/assetgraph"
	"github.com/LegacyCodeHQ/bundlegraph/assetgraph/manifest"
	"github.com/LegacyCodeHQ/bundlegraph/assetgraph/scan"
	"github.com/LegacyCodeHQ/bundlegraph/vcs"
	"github.com/LegacyCodeHQ/bundlegraph/vcs/git"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var errNoInput = errors.New("either --manifest or --dir with at least one --entry is required")

// InputOptions selects where the asset graph comes from.
type InputOptions struct {
	Manifest string
	Dir      string
	Entries  []string
	Commit   string
}

// AddFlags registers the input flags on cmd.
func (o *InputOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Manifest, "manifest", "m", "", "Asset graph manifest (.json, .yaml, .yml or .hcl)")
	cmd.Flags().StringVarP(&o.Dir, "dir", "d", "", "Project directory to scan from the entry files")
	cmd.Flags().StringSliceVarP(&o.Entries, "entry", "e", nil, "Entry file relative to --dir (repeatable or comma-separated)")
	cmd.Flags().StringVarP(&o.Commit, "commit", "c", "", "Read inputs as of a git commit instead of the working tree")
	cmd.MarkFlagsMutuallyExclusive("manifest", "dir")
	cmd.MarkFlagsMutuallyExclusive("manifest", "entry")
}

// Validate checks that exactly one input source is configured.
func (o *InputOptions) Validate() error {
	switch {
	case o.Manifest != "" && (o.Dir != "" || len(o.Entries) > 0):
		return fmt.Errorf("--manifest cannot be combined with --dir or --entry")
	case o.Manifest != "":
		return nil
	case o.Dir != "" && len(o.Entries) > 0:
		return nil
	case o.Dir != "":
		return fmt.Errorf("--dir requires at least one --entry")
	default:
		return errNoInput
	}
}

// Request returns the upstream request for the configured input.
func (o *InputOptions) Request(logger zerolog.Logger) (assetgraph.Request, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	reader, err := o.contentReader()
	if err != nil {
		return nil, err
	}

	if o.Manifest != "" {
		return manifest.Request(o.Manifest, reader), nil
	}
	return scan.New(o.Dir, o.Entries, reader, scan.WithLogger(logger)), nil
}

// WatchRoot returns the directory whose changes invalidate the input.
func (o *InputOptions) WatchRoot() string {
	if o.Manifest != "" {
		return filepath.Dir(o.Manifest)
	}
	return o.Dir
}

func (o *InputOptions) repoPath() string {
	if o.Dir != "" {
		return o.Dir
	}
	return "."
}

func (o *InputOptions) contentReader() (vcs.ContentReader, error) {
	if o.Commit == "" {
		return vcs.FilesystemContentReader(), nil
	}
	if err := git.ValidateCommit(o.repoPath(), o.Commit); err != nil {
		return nil, err
	}
	return git.GitCommitContentReader(o.repoPath(), o.Commit), nil
}
