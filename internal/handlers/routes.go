package handlers

import "net/http"

// Routes registers every API endpoint on a new mux.
func Routes(games *GameHandler, events *EventsHandler, datasets *DatasetsHandler, health *HealthHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /health", health)

	mux.HandleFunc("POST /v1/games", games.Create)
	mux.HandleFunc("GET /v1/games/{id}", games.Read)
	mux.HandleFunc("DELETE /v1/games/{id}", games.Delete)
	mux.HandleFunc("GET /v1/games/{id}/view", games.View)
	mux.HandleFunc("POST /v1/games/{id}/navigate", games.Navigate)
	mux.HandleFunc("POST /v1/games/{id}/language", games.Language)
	mux.HandleFunc("POST /v1/games/{id}/intro/advance", games.AdvanceIntro)
	mux.HandleFunc("POST /v1/games/{id}/intro/replay", games.ReplayIntro)
	mux.HandleFunc("POST /v1/games/{id}/map/walk", games.Walk)
	mux.HandleFunc("POST /v1/games/{id}/map/select", games.Select)
	mux.HandleFunc("POST /v1/games/{id}/missions/{mission}/{op}", games.Mission)
	mux.HandleFunc("POST /v1/games/{id}/regions/{region}/{action}", games.RegionAction)
	mux.HandleFunc("POST /v1/games/{id}/data-panel", games.DataPanel)
	mux.HandleFunc("GET /v1/games/{id}/certificate", games.Certificate)
	mux.Handle("GET /v1/games/{id}/events", events)

	mux.HandleFunc("GET /v1/datasets", datasets.List)
	mux.HandleFunc("GET /v1/datasets/{id}", datasets.Get)

	return mux
}
