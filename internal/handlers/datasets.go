package handlers

import (
	"log/slog"
	"net/http"

	"github.com/apu-inti/guardian/pkg/content"
	"github.com/apu-inti/guardian/pkg/i18n"
	"github.com/apu-inti/guardian/pkg/state"
)

// DatasetsHandler serves the NASA center catalogue. The language comes
// from ?lang= or Accept-Language.
type DatasetsHandler struct {
	engine *state.Engine
	logger *slog.Logger
}

func NewDatasetsHandler(engine *state.Engine, logger *slog.Logger) *DatasetsHandler {
	return &DatasetsHandler{engine: engine, logger: logger}
}

type DatasetsResponse struct {
	Language string            `json:"language"`
	Datasets []content.Dataset `json:"datasets"`
}

// List handles GET /v1/datasets
func (h *DatasetsHandler) List(w http.ResponseWriter, r *http.Request) {
	tag := i18n.ResolveTag(r, i18n.DefaultTag())
	w.Header().Set("Content-Language", i18n.Code(tag))
	writeJSON(w, h.logger, http.StatusOK, DatasetsResponse{
		Language: i18n.Code(tag),
		Datasets: h.engine.Datasets(tag),
	})
}

// Get handles GET /v1/datasets/{id}
func (h *DatasetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	tag := i18n.ResolveTag(r, i18n.DefaultTag())
	ds, ok := h.engine.Dataset(tag, r.PathValue("id"))
	if !ok {
		writeError(w, h.logger, http.StatusNotFound, "Dataset not found")
		return
	}
	w.Header().Set("Content-Language", i18n.Code(tag))
	writeJSON(w, h.logger, http.StatusOK, ds)
}
