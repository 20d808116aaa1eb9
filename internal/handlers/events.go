package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/apu-inti/guardian/internal/logger"
	"github.com/apu-inti/guardian/internal/services/events"
	"github.com/apu-inti/guardian/pkg/storage"
)

// DefaultKeepalive is how often an idle SSE stream sends a comment line.
const DefaultKeepalive = 30 * time.Second

// EventsHandler handles Server-Sent Events (SSE) for real-time game updates
type EventsHandler struct {
	events    events.Broadcaster
	storage   storage.Storage
	logger    *slog.Logger
	keepalive time.Duration
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(broadcaster events.Broadcaster, storage storage.Storage, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		events:    broadcaster,
		storage:   storage,
		logger:    logger,
		keepalive: DefaultKeepalive,
	}
}

// ServeHTTP handles SSE requests for game events
// GET /v1/games/{id}/events
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.logger
	id, ok := parseGameID(w, r, log)
	if !ok {
		return
	}
	log = logger.WithGame(log, id)

	gs, err := h.storage.LoadGameState(r.Context(), id)
	if err != nil {
		log.Error("Failed to load game", "error", err)
		writeError(w, log, http.StatusInternalServerError, "Failed to load game")
		return
	}
	if gs == nil {
		writeError(w, log, http.StatusNotFound, "Game not found")
		return
	}

	sub, err := h.events.Subscribe(r.Context(), id)
	if err != nil {
		log.Error("Failed to subscribe to game events", "error", err)
		writeError(w, log, http.StatusInternalServerError, "Failed to subscribe to events")
		return
	}
	defer func() {
		if err := sub.Close(); err != nil {
			log.Error("Failed to close subscription", "error", err)
		}
	}()

	log.Info("SSE connection established", "remote_addr", r.RemoteAddr)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)

	h.sendSSE(w, "connected", map[string]any{
		"game_id": id.String(),
		"scene":   gs.Scene,
		"message": "Connected to event stream",
	})

	keepaliveTicker := time.NewTicker(h.keepalive)
	defer keepaliveTicker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Info("SSE client disconnected")
			return

		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			h.sendSSE(w, string(event.Type), event)
			if event.Type == events.EventTypeGameDeleted {
				return
			}

		case <-keepaliveTicker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				log.Error("Failed to write keepalive", "error", err)
				return
			}
			flush(w)
		}
	}
}

// sendSSE sends a Server-Sent Event to the client
func (h *EventsHandler) sendSSE(w http.ResponseWriter, eventType string, data any) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		h.logger.Error("Failed to marshal SSE data", "error", err)
		return
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, dataJSON); err != nil {
		h.logger.Error("Failed to write event", "error", err)
		return
	}
	flush(w)
}

func flush(w http.ResponseWriter) {
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}
