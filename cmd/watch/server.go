package watch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// broker fans encoded bundle snapshots out to SSE clients. New clients get
// the most recent snapshot immediately.
type broker struct {
	mu      sync.Mutex
	clients map[chan string]struct{}
	latest  string
}

func newBroker() *broker {
	return &broker{
		clients: make(map[chan string]struct{}),
	}
}

func (b *broker) subscribe() chan string {
	ch := make(chan string, 1)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[ch] = struct{}{}
	if b.latest != "" {
		ch <- b.latest
	}
	return ch
}

func (b *broker) unsubscribe(ch chan string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.clients, ch)
	close(ch)
}

// publishSnapshot encodes snap and broadcasts it.
func (b *broker) publishSnapshot(snap bundleSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %d: %w", snap.ID, err)
	}
	b.publish(string(payload))
	return nil
}

// publish replaces the latest payload. A client still holding an unread
// payload skips this one and catches up on the next.
func (b *broker) publish(payload string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest = payload
	for ch := range b.clients {
		select {
		case ch <- payload:
		default:
		}
	}
}

func (b *broker) snapshot() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest, b.latest != ""
}

func newServer(b *broker, port int) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc(routeIndex, handleIndex)
	mux.HandleFunc(routeEvents, handleSSE(b))
	mux.HandleFunc(routeSnapshot, handleSnapshot(b))

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != routeIndex {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(indexHTML)); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

// handleSnapshot serves the latest bundle snapshot as JSON.
func handleSnapshot(b *broker) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		payload, ok := b.snapshot()
		if !ok {
			http.Error(w, "no bundle graph built yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, payload)
	}
}

// handleSSE streams every snapshot as a "graph" event. Multi-line payloads
// are split over several data lines.
func handleSSE(b *broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		ch := b.subscribe()
		defer b.unsubscribe(ch)

		for {
			select {
			case <-r.Context().Done():
				return
			case payload, ok := <-ch:
				if !ok {
					return
				}
				var sb strings.Builder
				fmt.Fprintf(&sb, "event: %s\n", sseEventGraph)
				for _, line := range strings.Split(payload, "\n") {
					fmt.Fprintf(&sb, "data: %s\n", line)
				}
				sb.WriteString("\n")
				if _, err := fmt.Fprint(w, sb.String()); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}
