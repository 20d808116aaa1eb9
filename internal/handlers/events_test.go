package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// streamLines reads the SSE body line by line in the background.
func streamLines(r *bufio.Reader) <-chan string {
	lines := make(chan string, 64)
	go func() {
		defer close(lines)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			lines <- strings.TrimRight(line, "\n")
		}
	}()
	return lines
}

// readEvent returns the next event name, or the next comment line when
// wantComment is set.
func readEvent(t *testing.T, lines <-chan string, wantComment bool) string {
	t.Helper()
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatal("stream closed")
			}
			if wantComment && strings.HasPrefix(line, ": ") {
				return line
			}
			if name, ok := strings.CutPrefix(line, "event: "); ok && !wantComment {
				return name
			}
		case <-time.After(3 * time.Second):
			t.Fatal("timed out reading SSE stream")
		}
	}
}

func TestEventsHandler_Stream(t *testing.T) {
	s := newTestServer(t)
	s.events.keepalive = 50 * time.Millisecond
	id := s.create(t, "es")

	srv := httptest.NewServer(s.mux)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/games/"+id.String()+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := streamLines(bufio.NewReader(resp.Body))
	assert.Equal(t, "connected", readEvent(t, lines, false))
	assert.Equal(t, ": keepalive", readEvent(t, lines, true))

	s.navigate(t, id, "intro")
	assert.Equal(t, "scene.changed", readEvent(t, lines, false))

	rr := s.do(t, http.MethodDelete, "/v1/games/"+id.String(), nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "game.deleted", readEvent(t, lines, false))

	// The stream ends after a deletion.
	for range lines {
	}
}

func TestEventsHandler_Errors(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/v1/games/nope/events", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodGet, "/v1/games/"+uuid.NewString()+"/events", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
