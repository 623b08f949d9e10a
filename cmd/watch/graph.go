package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LegacyCodeHQ/bundlegraph/assetgraph"
	"github.com/LegacyCodeHQ/bundlegraph/bundlegraph"
	"github.com/LegacyCodeHQ/bundlegraph/cmd/bundle/formatters"
	"github.com/LegacyCodeHQ/bundlegraph/cmd/bundle/formatters/dot"
	"github.com/rs/zerolog"
)

// rebuilder runs a full bundling pass per call and turns it into a snapshot.
type rebuilder struct {
	req     assetgraph.Request
	opts    bundlegraph.Options
	label   string
	logger  zerolog.Logger
	now     func() time.Time
	mu      sync.Mutex
	nextID  int64
	lastDOT string
}

func newRebuilder(req assetgraph.Request, opts bundlegraph.Options, label string, logger zerolog.Logger) *rebuilder {
	return &rebuilder{
		req:    req,
		opts:   opts,
		label:  label,
		logger: logger,
		now:    time.Now,
	}
}

// snapshot bundles the current inputs. A failed build yields a snapshot
// carrying the error and the previous DOT.
func (r *rebuilder) snapshot(ctx context.Context) bundleSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	snap := bundleSnapshot{ID: r.nextID, Timestamp: r.now().UTC()}

	result, err := bundlegraph.Run(ctx, r.req, r.opts)
	if err != nil {
		r.logger.Warn().Err(err).Int64("snapshot", snap.ID).Msg("bundle rebuild failed")
		snap.Error = err.Error()
		snap.DOT = r.lastDOT
		return snap
	}

	formatter := &dot.Formatter{}
	output, err := formatter.Format(result.Bundles, formatters.RenderOptions{Label: r.label})
	if err != nil {
		snap.Error = fmt.Sprintf("failed to format bundle graph: %v", err)
		snap.DOT = r.lastDOT
		return snap
	}

	r.lastDOT = output
	snap.DOT = output
	snap.Bundles = result.Bundles.BundleCount()
	for _, b := range result.Bundles.Bundles() {
		snap.Assets += b.AssetCount()
	}
	r.logger.Info().
		Int64("snapshot", snap.ID).
		Int("bundles", snap.Bundles).
		Int("assets", snap.Assets).
		Msg("rebuilt bundle graph")
	return snap
}

// publish rebuilds and broadcasts the snapshot.
func (r *rebuilder) publish(ctx context.Context, b *broker) bundleSnapshot {
	snap := r.snapshot(ctx)
	if err := b.publishSnapshot(snap); err != nil {
		r.logger.Error().Err(err).Msg("failed to publish snapshot")
	}
	return snap
}
