package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// keepAliveInterval is how often an idle stream emits a ping comment so
// intermediaries do not time the connection out.
const keepAliveInterval = 15 * time.Second

// sseStream is a one-directional server-to-client event channel bound to a
// single turn. All writes are serialized through mu; the keep-alive goroutine
// stops the instant a terminal event is sent or the peer disconnects.
type sseStream struct {
	w       http.ResponseWriter
	flusher http.Flusher

	mu       sync.Mutex
	stop     chan struct{}
	stopOnce sync.Once
}

// newSSEStream prepares the response for server-sent events. It fails when
// the underlying writer cannot flush, which would make streaming pointless.
func newSSEStream(w http.ResponseWriter) (*sseStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &sseStream{w: w, flusher: flusher, stop: make(chan struct{})}, nil
}

// Send writes one named event with a JSON payload. A payload that cannot be
// serialized is replaced by a synthetic error frame so the channel is never
// corrupted by a half-written event. Terminal events stop the keep-alive.
func (s *sseStream) Send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal stream payload, substituting error frame", "event", event, "error", err)
		event = "error"
		data = []byte(`{"message":"Internal serialization error"}`)
	}

	s.mu.Lock()
	_, writeErr := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data)
	if writeErr == nil {
		s.flusher.Flush()
	}
	s.mu.Unlock()

	if event == "done" || event == "error" {
		s.stopKeepAlive()
	}
	if writeErr != nil {
		return fmt.Errorf("failed to write event to stream: %w", writeErr)
	}
	return nil
}

// StartKeepAlive pings the peer at the given interval until a terminal event
// is sent, Close is called, or ctx is cancelled.
func (s *sseStream) StartKeepAlive(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.mu.Lock()
				// A comment frame, not a data event; clients ignore it.
				_, err := fmt.Fprint(s.w, ": ping\n\n")
				if err == nil {
					s.flusher.Flush()
				}
				s.mu.Unlock()
				if err != nil {
					return
				}
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Close releases the keep-alive. The handler defers it so a panic or early
// return never leaks the ticker goroutine.
func (s *sseStream) Close() {
	s.stopKeepAlive()
}

func (s *sseStream) stopKeepAlive() {
	s.stopOnce.Do(func() { close(s.stop) })
}
