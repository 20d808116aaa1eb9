package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/apu-inti/guardian/internal/services/events"
	"github.com/apu-inti/guardian/pkg/content"
	"github.com/apu-inti/guardian/pkg/state"
	"github.com/apu-inti/guardian/pkg/storage"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testServer struct {
	mux         *http.ServeMux
	storage     *storage.MockStorage
	broadcaster *events.MemoryBroadcaster
	clock       *testClock
	engine      *state.Engine
	events      *EventsHandler
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	engine, err := state.NewEngine(content.MustLoadEmbedded(),
		state.WithClock(clock.Now),
		state.WithSeed(7),
	)
	require.NoError(t, err)

	log := testLogger()
	st := storage.NewMockStorage()
	b := events.NewMemoryBroadcaster(log)
	ev := NewEventsHandler(b, st, log)

	mux := Routes(
		NewGameHandler(engine, st, b, log),
		ev,
		NewDatasetsHandler(engine, log),
		NewHealthHandler(st, log),
	)
	return &testServer{mux: mux, storage: st, broadcaster: b, clock: clock, engine: engine, events: ev}
}

func (s *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return s.doHeaders(t, method, target, body, nil)
}

func (s *testServer) doHeaders(t *testing.T, method, target string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)
	return rr
}

// create starts a game and returns its id.
func (s *testServer) create(t *testing.T, language string) uuid.UUID {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/v1/games", map[string]string{"language": language})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var gs state.GameState
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&gs))
	return gs.ID
}

type actionBody struct {
	Result json.RawMessage `json:"result"`
	View   state.View      `json:"view"`
}

// act posts to a game endpoint and expects 200.
func (s *testServer) act(t *testing.T, id uuid.UUID, suffix string, body any) actionBody {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/v1/games/"+id.String()+suffix, body)
	require.Equal(t, http.StatusOK, rr.Code, "%s: %s", suffix, rr.Body.String())
	var out actionBody
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return out
}

func (s *testServer) view(t *testing.T, id uuid.UUID) state.View {
	t.Helper()
	rr := s.do(t, http.MethodGet, "/v1/games/"+id.String()+"/view", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var v state.View
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}

func (s *testServer) navigate(t *testing.T, id uuid.UUID, scenes ...string) {
	t.Helper()
	for _, sc := range scenes {
		s.act(t, id, "/navigate", map[string]string{"scene": sc})
	}
}

// toMap plays the intro through and opens the map.
func (s *testServer) toMap(t *testing.T, id uuid.UUID) {
	t.Helper()
	s.navigate(t, id, "intro")
	for i := 0; i < 5; i++ {
		s.act(t, id, "/intro/advance", nil)
	}
	s.navigate(t, id, "map")
}

// mutateStored edits the stored session directly.
func (s *testServer) mutateStored(t *testing.T, id uuid.UUID, fn func(gs *state.GameState)) {
	t.Helper()
	gs, err := s.storage.LoadGameState(t.Context(), id)
	require.NoError(t, err)
	require.NotNil(t, gs)
	fn(gs)
	require.NoError(t, s.storage.SaveGameState(t.Context(), id, gs))
}
