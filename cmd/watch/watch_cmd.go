package watch

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/LegacyCodeHQ/bundlegraph/bundlegraph"
	"github.com/LegacyCodeHQ/bundlegraph/cmd/cmdutil"
	"github.com/LegacyCodeHQ/bundlegraph/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type watchOptions struct {
	input            cmdutil.InputOptions
	port             int
	debounce         time.Duration
	label            string
	strictMembership bool
}

// NewCommand returns a new watch command instance.
func NewCommand(v *viper.Viper) *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch inputs and serve a live bundle graph",
		Long: `Watch the manifest or project directory for changes, re-run the full
bundling pipeline after each burst of changes and serve a live-updating
bundle graph at localhost.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, v, opts)
		},
	}

	opts.input.AddFlags(cmd)
	cmd.Flags().IntVarP(&opts.port, "port", "P", 4900, "HTTP server port")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 300*time.Millisecond, "Quiet period before rebuilding after a change")
	cmd.Flags().StringVarP(&opts.label, "label", "l", "", "Title for the rendered graph")
	cmd.Flags().BoolVar(&opts.strictMembership, "strict-membership", false, "Report assets missing from every bundle as a failed rebuild")

	return cmd
}

func runWatch(cmd *cobra.Command, v *viper.Viper, opts *watchOptions) error {
	cfg, logger, err := cmdutil.LoadSettings(cmd, v,
		cmdutil.FlagBinding{Key: config.KeyWatchPort, Flag: "port"},
		cmdutil.FlagBinding{Key: config.KeyWatchDebounce, Flag: "debounce"},
		cmdutil.FlagBinding{Key: config.KeyStrictMembership, Flag: "strict-membership"},
	)
	if err != nil {
		return err
	}

	req, err := opts.input.Request(logger)
	if err != nil {
		return err
	}
	root, err := filepath.Abs(opts.input.WatchRoot())
	if err != nil {
		return fmt.Errorf("failed to resolve watch path: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rb := newRebuilder(req, bundlegraph.Options{
		Logger:           &logger,
		StrictMembership: cfg.StrictMembership,
	}, opts.label, logger)

	b := newBroker()
	if snap := rb.publish(ctx, b); snap.Error != "" {
		return fmt.Errorf("initial bundle build failed: %s", snap.Error)
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Watch.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", cfg.Watch.Port, err)
	}
	srv := newServer(b, cfg.Watch.Port)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("watch server stopped")
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", root)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving at http://localhost:%d\n", cfg.Watch.Port)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	err = watchAndRebuild(ctx, root, cfg.Watch.Debounce, func() { rb.publish(ctx, b) }, logger)

	srv.Close()
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	return nil
}
