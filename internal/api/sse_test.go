package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noFlushWriter hides the Flush method of the embedded recorder.
type noFlushWriter struct {
	header http.Header
}

func (w *noFlushWriter) Header() http.Header        { return w.header }
func (w *noFlushWriter) Write(b []byte) (int, error) { return len(b), nil }
func (w *noFlushWriter) WriteHeader(int)             {}

func TestNewSSEStream(t *testing.T) {
	t.Run("Sets event stream headers", func(t *testing.T) {
		rec := httptest.NewRecorder()

		stream, err := newSSEStream(rec)
		require.NoError(t, err)
		defer stream.Close()

		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
		assert.Equal(t, "keep-alive", rec.Header().Get("Connection"))
	})

	t.Run("Rejects writer without flush support", func(t *testing.T) {
		_, err := newSSEStream(&noFlushWriter{header: http.Header{}})
		assert.Error(t, err)
	})
}

func TestSSEStream_Send(t *testing.T) {
	t.Run("Writes named event with JSON data", func(t *testing.T) {
		rec := httptest.NewRecorder()
		stream, err := newSSEStream(rec)
		require.NoError(t, err)
		defer stream.Close()

		require.NoError(t, stream.Send("start", map[string]string{"conversationId": "c1"}))
		require.NoError(t, stream.Send("token", map[string]string{"text": "Hi"}))

		body := rec.Body.String()
		assert.Contains(t, body, "event: start\ndata: {\"conversationId\":\"c1\"}\n\n")
		assert.Contains(t, body, "event: token\ndata: {\"text\":\"Hi\"}\n\n")
	})

	t.Run("Unserializable payload becomes an error frame", func(t *testing.T) {
		rec := httptest.NewRecorder()
		stream, err := newSSEStream(rec)
		require.NoError(t, err)
		defer stream.Close()

		require.NoError(t, stream.Send("done", map[string]any{"bad": make(chan int)}))

		body := rec.Body.String()
		assert.Contains(t, body, "event: error\n")
		assert.Contains(t, body, "Internal serialization error")
		assert.NotContains(t, body, "event: done")
	})
}

func TestSSEStream_KeepAlive(t *testing.T) {
	rec := httptest.NewRecorder()
	stream, err := newSSEStream(rec)
	require.NoError(t, err)
	defer stream.Close()

	stream.StartKeepAlive(context.Background(), 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	// A terminal event stops the pinger. Give the goroutine a moment to exit
	// before inspecting the recorder.
	require.NoError(t, stream.Send("done", map[string]string{"conversationId": "c1"}))
	time.Sleep(20 * time.Millisecond)

	assert.GreaterOrEqual(t, strings.Count(rec.Body.String(), ": ping\n\n"), 1)
	after := rec.Body.Len()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, rec.Body.Len())
}
