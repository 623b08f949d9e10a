package watch

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtocolConstants_AreStable(t *testing.T) {
	assert.Equal(t, "/", routeIndex)
	assert.Equal(t, "/events", routeEvents)
	assert.Equal(t, "/snapshot", routeSnapshot)
	assert.Equal(t, "graph", sseEventGraph)
}

func TestBundleSnapshot_JSONContract(t *testing.T) {
	ts := time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)
	snap := bundleSnapshot{ID: 4, Timestamp: ts, DOT: "digraph bundles {}", Bundles: 2, Assets: 3}

	raw, err := json.Marshal(snap)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, map[string]any{
		"id":        float64(4),
		"timestamp": "2026-02-12T10:00:00Z",
		"dot":       "digraph bundles {}",
		"bundles":   float64(2),
		"assets":    float64(3),
	}, doc)
}

func TestBundleSnapshot_ErrorIsIncludedWhenSet(t *testing.T) {
	raw, err := json.Marshal(bundleSnapshot{ID: 1, Error: "unresolved import"})
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"error":"unresolved import"`)
}
