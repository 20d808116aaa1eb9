package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/apu-inti/guardian/internal/certificate"
	"github.com/apu-inti/guardian/internal/logger"
	"github.com/apu-inti/guardian/internal/middleware"
	"github.com/apu-inti/guardian/internal/services/events"
	"github.com/apu-inti/guardian/pkg/content"
	"github.com/apu-inti/guardian/pkg/i18n"
	"github.com/apu-inti/guardian/pkg/path"
	"github.com/apu-inti/guardian/pkg/scene"
	"github.com/apu-inti/guardian/pkg/state"
	"github.com/apu-inti/guardian/pkg/storage"
)

// GameHandler serves every /v1/games endpoint. Each request loads the
// session under a per-game lock, applies any due automatic navigation,
// runs one engine operation and saves the result.
type GameHandler struct {
	engine  *state.Engine
	storage storage.Storage
	events  events.Broadcaster
	logger  *slog.Logger
	locks   *sessionLocks
}

func NewGameHandler(engine *state.Engine, storage storage.Storage, broadcaster events.Broadcaster, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		engine:  engine,
		storage: storage,
		events:  broadcaster,
		logger:  logger,
		locks:   newSessionLocks(),
	}
}

// CreateGameRequest defines the request body for creating a new game
type CreateGameRequest struct {
	Language string `json:"language,omitempty"` // Optional: "es" or "en"
}

type NavigateRequest struct {
	Scene string `json:"scene"`
}

type LanguageRequest struct {
	Language string `json:"language"`
}

type RegionRequest struct {
	Region string `json:"region"`
}

type OptionRequest struct {
	Option *int `json:"option"`
}

type ItemRequest struct {
	Item *int `json:"item"`
}

type DataPanelRequest struct {
	Visible *bool `json:"visible,omitempty"` // Omitted toggles
}

// ActionResponse is returned by every mutating endpoint: the operation's
// own result plus the refreshed view.
type ActionResponse struct {
	Result any         `json:"result,omitempty"`
	View   *state.View `json:"view"`
}

type AnswerResult struct {
	Correct bool `json:"correct"`
}

type NextResult struct {
	Finished bool `json:"finished"`
}

type ItemResult struct {
	Item content.Item `json:"item"`
}

type FishingResult struct {
	Success bool `json:"success"`
}

type DataPanelResult struct {
	Visible bool          `json:"visible"`
	Panel   content.Panel `json:"panel"`
}

// operation runs against a loaded session. A nil operation only loads.
type operation func(gs *state.GameState) (any, error)

func (h *GameHandler) requestLogger(r *http.Request) *slog.Logger {
	return logger.WithRequestID(h.logger, middleware.RequestIDFromContext(r.Context()))
}

// Create handles POST /v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)

	var req CreateGameRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		log.Warn("Invalid create game request", "error", err)
		writeError(w, log, http.StatusBadRequest, "Invalid request body")
		return
	}
	lang := req.Language
	if lang == "" && (r.URL.Query().Get(i18n.LangParam) != "" || r.Header.Get("Accept-Language") != "") {
		lang = i18n.Code(i18n.ResolveTag(r, i18n.DefaultTag()))
	}

	gs, err := h.engine.NewGame(lang)
	if err != nil {
		writeDomainError(w, log, err)
		return
	}
	if err := h.storage.SaveGameState(r.Context(), gs.ID, gs); err != nil {
		log.Error("Failed to save new game", "error", err)
		writeError(w, log, http.StatusInternalServerError, "Failed to save game")
		return
	}

	log.Info("Game created", "game_id", gs.ID, "language", gs.Language)
	h.publish(r.Context(), log, gs.ID, events.GameCreated(gs.ID, middleware.RequestIDFromContext(r.Context()), gs.Language))
	writeJSON(w, log, http.StatusCreated, gs)
}

// Read handles GET /v1/games/{id}
func (h *GameHandler) Read(w http.ResponseWriter, r *http.Request) {
	gs, _, log, ok := h.run(w, r, "read", nil)
	if !ok {
		return
	}
	writeJSON(w, log, http.StatusOK, gs)
}

// Delete handles DELETE /v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)
	id, ok := parseGameID(w, r, log)
	if !ok {
		return
	}
	unlock := h.locks.Lock(id)
	defer unlock()

	gs, err := h.storage.LoadGameState(r.Context(), id)
	if err != nil {
		log.Error("Failed to load game", "game_id", id, "error", err)
		writeError(w, log, http.StatusInternalServerError, "Failed to load game")
		return
	}
	if gs == nil {
		writeError(w, log, http.StatusNotFound, "Game not found")
		return
	}
	if err := h.storage.DeleteGameState(r.Context(), id); err != nil {
		log.Error("Failed to delete game", "game_id", id, "error", err)
		writeError(w, log, http.StatusInternalServerError, "Failed to delete game")
		return
	}
	log.Info("Game deleted", "game_id", id)
	h.publish(r.Context(), log, id, events.GameDeleted(id, middleware.RequestIDFromContext(r.Context())))
	w.WriteHeader(http.StatusNoContent)
}

// View handles GET /v1/games/{id}/view
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	gs, _, log, ok := h.run(w, r, "view", nil)
	if !ok {
		return
	}
	w.Header().Set("Content-Language", gs.Language)
	writeJSON(w, log, http.StatusOK, h.engine.View(gs))
}

// Navigate handles POST /v1/games/{id}/navigate
func (h *GameHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if !h.decode(w, r, &req) {
		return
	}
	to, err := scene.Parse(req.Scene)
	if err != nil {
		writeDomainError(w, h.requestLogger(r), err)
		return
	}
	h.act(w, r, "navigate", func(gs *state.GameState) (any, error) {
		return nil, h.engine.Navigate(gs, to)
	})
}

// Language handles POST /v1/games/{id}/language
func (h *GameHandler) Language(w http.ResponseWriter, r *http.Request) {
	var req LanguageRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.act(w, r, "language", func(gs *state.GameState) (any, error) {
		return nil, h.engine.SetLanguage(gs, req.Language)
	})
}

// AdvanceIntro handles POST /v1/games/{id}/intro/advance
func (h *GameHandler) AdvanceIntro(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "intro.advance", func(gs *state.GameState) (any, error) {
		return nil, h.engine.AdvanceIntro(gs)
	})
}

// ReplayIntro handles POST /v1/games/{id}/intro/replay
func (h *GameHandler) ReplayIntro(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "intro.replay", func(gs *state.GameState) (any, error) {
		return nil, h.engine.ReplayIntro(gs)
	})
}

// Walk handles POST /v1/games/{id}/map/walk
func (h *GameHandler) Walk(w http.ResponseWriter, r *http.Request) {
	h.mapAction(w, r, "map.walk", h.engine.Walk)
}

// Select handles POST /v1/games/{id}/map/select
func (h *GameHandler) Select(w http.ResponseWriter, r *http.Request) {
	h.mapAction(w, r, "map.select", h.engine.SelectRegion)
}

func (h *GameHandler) mapAction(w http.ResponseWriter, r *http.Request, action string, fn func(*state.GameState, scene.Region) (*path.Result, error)) {
	var req RegionRequest
	if !h.decode(w, r, &req) {
		return
	}
	region, err := scene.ParseRegion(req.Region)
	if err != nil {
		writeDomainError(w, h.requestLogger(r), err)
		return
	}
	h.act(w, r, action, func(gs *state.GameState) (any, error) {
		res, err := fn(gs, region)
		if err != nil || res == nil {
			return nil, err
		}
		return res, nil
	})
}

// Mission handles POST /v1/games/{id}/missions/{mission}/{op}
func (h *GameHandler) Mission(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)
	mission, err := scene.ParseMission(r.PathValue("mission"))
	if err != nil {
		writeError(w, log, http.StatusNotFound, "Unknown mission")
		return
	}
	op := r.PathValue("op")
	action := string(mission) + "." + op

	var fn operation
	switch {
	case mission == scene.MissionQuiz && op == "answer":
		var req OptionRequest
		if !h.decode(w, r, &req) {
			return
		}
		if req.Option == nil {
			writeError(w, log, http.StatusBadRequest, "option is required")
			return
		}
		fn = func(gs *state.GameState) (any, error) {
			correct, err := h.engine.AnswerQuiz(gs, *req.Option)
			return AnswerResult{Correct: correct}, err
		}
	case mission == scene.MissionQuiz && op == "next":
		fn = func(gs *state.GameState) (any, error) {
			finished, err := h.engine.NextQuestion(gs)
			return NextResult{Finished: finished}, err
		}
	case mission == scene.MissionFishing && op == "start":
		fn = func(gs *state.GameState) (any, error) {
			return nil, h.engine.StartFishing(gs)
		}
	case mission == scene.MissionFishing && op == "catch",
		mission == scene.MissionCleanup && op == "pick":
		var req ItemRequest
		if !h.decode(w, r, &req) {
			return
		}
		if req.Item == nil {
			writeError(w, log, http.StatusBadRequest, "item is required")
			return
		}
		pick := h.engine.Catch
		if mission == scene.MissionCleanup {
			pick = h.engine.PickTrash
		}
		fn = func(gs *state.GameState) (any, error) {
			it, err := pick(gs, *req.Item)
			return ItemResult{Item: it}, err
		}
	case mission == scene.MissionFishing && op == "complete":
		fn = func(gs *state.GameState) (any, error) {
			success, err := h.engine.CompleteFishing(gs)
			return FishingResult{Success: success}, err
		}
	case mission == scene.MissionCleanup && op == "complete":
		fn = func(gs *state.GameState) (any, error) {
			return nil, h.engine.CompleteCleanup(gs)
		}
	default:
		writeError(w, log, http.StatusNotFound, "Unknown mission operation")
		return
	}
	h.act(w, r, action, fn)
}

// RegionAction handles POST /v1/games/{id}/regions/{region}/{action}
func (h *GameHandler) RegionAction(w http.ResponseWriter, r *http.Request) {
	region, err := scene.ParseRegion(r.PathValue("region"))
	if err != nil {
		writeError(w, h.requestLogger(r), http.StatusNotFound, "Unknown region")
		return
	}
	action := r.PathValue("action")
	h.act(w, r, string(region)+"."+action, func(gs *state.GameState) (any, error) {
		return nil, h.engine.BoardAction(gs, region, action)
	})
}

// DataPanel handles POST /v1/games/{id}/data-panel
func (h *GameHandler) DataPanel(w http.ResponseWriter, r *http.Request) {
	var req DataPanelRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, h.requestLogger(r), http.StatusBadRequest, "Invalid request body")
		return
	}
	h.act(w, r, "data-panel", func(gs *state.GameState) (any, error) {
		panel, err := h.engine.ToggleDataPanel(gs, req.Visible)
		if err != nil {
			return nil, err
		}
		return DataPanelResult{Visible: gs.DataPanel, Panel: panel}, nil
	})
}

// Certificate handles GET /v1/games/{id}/certificate
func (h *GameHandler) Certificate(w http.ResponseWriter, r *http.Request) {
	gs, _, log, ok := h.run(w, r, "certificate", nil)
	if !ok {
		return
	}
	summary, err := h.engine.Summary(gs)
	if err != nil {
		writeDomainError(w, log, err)
		return
	}
	tr := h.engine.Translator(gs)
	cert := certificate.Certificate{
		GameID:              gs.ID.String(),
		Language:            gs.Language,
		Title:               tr.T("certificate.title"),
		Body:                tr.T("certificate.body"),
		ImpactHeading:       tr.T("certificate.impact"),
		AchievementsHeading: tr.T("certificate.achievements"),
		Summary:             summary,
		IssuedAt:            h.engine.Now(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", gs.Language)
	w.Header().Set("Content-Disposition", `attachment; filename="apu-inti-certificate.html"`)
	if err := certificate.Render(w, cert); err != nil {
		log.Error("Failed to render certificate", "error", err)
	}
}

// act runs a mutating operation and writes an ActionResponse.
func (h *GameHandler) act(w http.ResponseWriter, r *http.Request, action string, fn operation) {
	gs, result, log, ok := h.run(w, r, action, fn)
	if !ok {
		return
	}
	writeJSON(w, log, http.StatusOK, ActionResponse{Result: result, View: h.engine.View(gs)})
}

// run loads the session under its lock, fires a due pending navigation,
// applies fn and saves. On failure it writes the error response and
// returns ok=false.
func (h *GameHandler) run(w http.ResponseWriter, r *http.Request, action string, fn operation) (*state.GameState, any, *slog.Logger, bool) {
	log := h.requestLogger(r)
	id, ok := parseGameID(w, r, log)
	if !ok {
		return nil, nil, log, false
	}
	log = logger.WithGame(log, id)

	unlock := h.locks.Lock(id)
	defer unlock()

	ctx := r.Context()
	gs, err := h.storage.LoadGameState(ctx, id)
	if err != nil {
		log.Error("Failed to load game", "error", err)
		writeError(w, log, http.StatusInternalServerError, "Failed to load game")
		return nil, nil, log, false
	}
	if gs == nil {
		log.Warn("Game not found")
		writeError(w, log, http.StatusNotFound, "Game not found")
		return nil, nil, log, false
	}

	before := snapshotOf(gs)
	changed := h.engine.Tick(gs)

	var result any
	var opErr error
	if fn != nil {
		result, opErr = fn(gs)
		if opErr == nil {
			changed = true
		}
	}

	if changed {
		if err := h.storage.SaveGameState(ctx, id, gs); err != nil {
			log.Error("Failed to save game", "error", err)
			writeError(w, log, http.StatusInternalServerError, "Failed to save game")
			return nil, nil, log, false
		}
		h.publishChanges(ctx, log, r, action, before, gs, fn != nil && opErr == nil)
	}
	if opErr != nil {
		writeDomainError(w, log, opErr)
		return nil, nil, log, false
	}

	log.Debug("Game action applied", "action", action, "scene", gs.Scene)
	return gs, result, log, true
}

func parseGameID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		log.Warn("Invalid game ID", "id", raw, "error", err)
		writeError(w, log, http.StatusBadRequest, "Invalid game ID format")
		return uuid.Nil, false
	}
	return id, true
}

func (h *GameHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := decodeBody(r, v); err != nil {
		log := h.requestLogger(r)
		log.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, log, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

type snapshot struct {
	scene     scene.Scene
	language  string
	completed map[scene.Mission]bool
}

func snapshotOf(gs *state.GameState) snapshot {
	return snapshot{
		scene:     gs.Scene,
		language:  gs.Language,
		completed: maps.Clone(gs.Completed),
	}
}

// publishChanges emits one event per observable change, or a generic
// update when an action changed nothing the events describe.
func (h *GameHandler) publishChanges(ctx context.Context, log *slog.Logger, r *http.Request, action string, before snapshot, gs *state.GameState, acted bool) {
	if h.events == nil {
		return
	}
	rid := middleware.RequestIDFromContext(r.Context())
	var out []events.Event

	newly := make([]scene.Mission, 0)
	for m, done := range gs.Completed {
		if done && !before.completed[m] {
			newly = append(newly, m)
		}
	}
	slices.Sort(newly)
	for _, m := range newly {
		out = append(out, events.MissionCompleted(gs.ID, rid, m))
	}
	if gs.Scene != before.scene {
		out = append(out, events.SceneChanged(gs.ID, rid, before.scene, gs.Scene))
	}
	if gs.Language != before.language {
		out = append(out, events.LanguageChanged(gs.ID, rid, gs.Language))
	}
	if len(out) == 0 && acted {
		out = append(out, events.GameStateUpdated(gs.ID, rid, action, gs.Scene))
	}

	for _, ev := range out {
		h.publish(ctx, log, gs.ID, ev)
	}
}

func (h *GameHandler) publish(ctx context.Context, log *slog.Logger, id uuid.UUID, ev events.Event) {
	if h.events == nil {
		return
	}
	// Publishing must not fail a request whose state is already saved.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := h.events.Publish(ctx, id, ev); err != nil {
		log.Warn("Failed to publish event", "event_type", ev.Type, "error", err)
	}
}
