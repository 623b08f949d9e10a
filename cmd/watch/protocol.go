package watch

import "time"

const (
	routeIndex    = "/"
	routeEvents   = "/events"
	routeSnapshot = "/snapshot"
)

const sseEventGraph = "graph"

// bundleSnapshot is the wire payload for SSE "graph" events. A failed
// rebuild carries Error and keeps the last good DOT.
type bundleSnapshot struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	DOT       string    `json:"dot"`
	Bundles   int       `json:"bundles"`
	Assets    int       `json:"assets"`
	Error     string    `json:"error,omitempty"`
}
